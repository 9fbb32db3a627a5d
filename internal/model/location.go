package model

// Location 工作地点表，对应 locations
type Location struct {
	LocationID      string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"location_id"`
	Name            string   `gorm:"type:varchar(100);not null"                     json:"name"`
	Address         string   `gorm:"type:varchar(200)"                              json:"address,omitempty"`
	MapsURL         string   `gorm:"type:varchar(500)"                              json:"maps_url,omitempty"`
	State           string   `gorm:"type:varchar(50)"                               json:"state,omitempty"`
	Latitude        *float64 `gorm:"type:double precision"                          json:"latitude,omitempty"`
	Longitude       *float64 `gorm:"type:double precision"                          json:"longitude,omitempty"`
	GeofenceRadiusM *int     `gorm:"type:integer"                                   json:"geofence_radius_m,omitempty"` // 为空时不校验围栏
	IsActive        bool     `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Location) TableName() string { return "locations" }

// ActivityType 作业类型表，对应 activity_types
type ActivityType struct {
	ActivityTypeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"activity_type_id"`
	Name           string `gorm:"type:varchar(100);not null"                     json:"name"`
	IsActive       bool   `gorm:"not null;default:true"                          json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (ActivityType) TableName() string { return "activity_types" }

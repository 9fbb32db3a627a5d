package dto

// ── 地点模块 DTO ──

// CreateLocationRequest 创建地点请求
type CreateLocationRequest struct {
	Name            string   `json:"name"              binding:"required,min=2,max=100"`
	Address         string   `json:"address"           binding:"omitempty,max=200"`
	MapsURL         string   `json:"maps_url"          binding:"omitempty,url,max=500"`
	State           string   `json:"state"             binding:"omitempty,max=50"`
	Latitude        *float64 `json:"latitude"          binding:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude"         binding:"omitempty,longitude"`
	GeofenceRadiusM *int     `json:"geofence_radius_m" binding:"omitempty,min=10,max=10000"`
}

// UpdateLocationRequest 更新地点请求
type UpdateLocationRequest struct {
	Name            *string  `json:"name"              binding:"omitempty,min=2,max=100"`
	Address         *string  `json:"address"           binding:"omitempty,max=200"`
	MapsURL         *string  `json:"maps_url"          binding:"omitempty,max=500"`
	State           *string  `json:"state"             binding:"omitempty,max=50"`
	Latitude        *float64 `json:"latitude"          binding:"omitempty,latitude"`
	Longitude       *float64 `json:"longitude"         binding:"omitempty,longitude"`
	GeofenceRadiusM *int     `json:"geofence_radius_m" binding:"omitempty,min=10,max=10000"`
	IsActive        *bool    `json:"is_active"`
}

// CatalogListRequest 地点 / 作业类型列表查询参数
type CatalogListRequest struct {
	IncludeInactive bool `form:"include_inactive"`
}

// LocationResponse 地点信息响应
type LocationResponse struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address,omitempty"`
	MapsURL         string   `json:"maps_url,omitempty"`
	State           string   `json:"state,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	GeofenceRadiusM *int     `json:"geofence_radius_m,omitempty"`
	IsActive        bool     `json:"is_active"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// ── 作业类型 ──

// ActivityTypeRequest 创建 / 更新作业类型
type ActivityTypeRequest struct {
	Name     string `json:"name"      binding:"required,min=2,max=100"`
	IsActive *bool  `json:"is_active"`
}

// ActivityTypeResponse 作业类型响应
type ActivityTypeResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

package model

import "gorm.io/datatypes"

// 通知类型
const (
	NotificationReassigned = "assignment_reassigned"
	NotificationReviewed   = "attendance_request_reviewed"
)

// Notification 通知消息表，对应 notifications
type Notification struct {
	NotificationID string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string         `gorm:"type:uuid;not null;index"                       json:"user_id"`
	Type           string         `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string         `gorm:"type:varchar(200);not null"                     json:"title"`
	Message        string         `gorm:"type:text;not null"                             json:"message"`
	IsRead         bool           `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string        `gorm:"type:varchar(30)"                               json:"related_type,omitempty"` // assignment | attendance_request
	RelatedID      *string        `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	Payload        datatypes.JSON `gorm:"type:jsonb"                                     json:"payload,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }

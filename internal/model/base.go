package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel 审计字段，记录创建与最后修改的操作人
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	CreatedBy *string   `gorm:"type:uuid"                          json:"created_by,omitempty"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
	UpdatedBy *string   `gorm:"type:uuid"                          json:"updated_by,omitempty"`
}

// StampCreated 新建记录时同时写入创建人与修改人
func (b *BaseModel) StampCreated(actorID string) {
	b.CreatedBy = &actorID
	b.UpdatedBy = &actorID
}

// StampUpdated 写入最后修改人
func (b *BaseModel) StampUpdated(actorID string) {
	b.UpdatedBy = &actorID
}

// SoftDeleteModel 目录类数据（地点、作业类型）与通知使用软删除，历史排班仍可关联
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"     json:"deleted_at,omitempty"`
	DeletedBy *string        `gorm:"type:uuid" json:"deleted_by,omitempty"`
}

// VersionedModel 排班与员工档案带版本号，更新时做乐观锁比对
type VersionedModel struct {
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`
}

package model

import "time"

// 对象清理任务状态
const (
	CleanupPending = "PENDING"
	CleanupDone    = "DONE"
	CleanupFailed  = "FAILED"
)

// StorageCleanupTask 待删除的对象存储文件，对应 storage_cleanup_tasks
// 照片记录删除后对象存储清理失败时入队，由定时任务重试
type StorageCleanupTask struct {
	TaskID    string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"task_id"`
	ObjectKey string     `gorm:"type:varchar(300);not null"                     json:"object_key"`
	Status    string     `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	Attempts  int        `gorm:"not null;default:0"                             json:"attempts"`
	LastError string     `gorm:"type:text"                                      json:"last_error,omitempty"`
	DoneAt    *time.Time `json:"done_at,omitempty"`
	BaseModel
}

// TableName 指定表名
func (StorageCleanupTask) TableName() string { return "storage_cleanup_tasks" }

package repository

import (
	"context"

	"gorm.io/gorm"

	"flowdesks/backend/internal/model"
)

// StorageTaskRepository 对象清理任务数据访问接口
type StorageTaskRepository interface {
	Create(ctx context.Context, task *model.StorageCleanupTask) error
	ListPending(ctx context.Context, limit int) ([]model.StorageCleanupTask, error)
	MarkDone(ctx context.Context, id string) error
	RecordFailure(ctx context.Context, id string, lastErr string, giveUp bool) error
}

type storageTaskRepo struct {
	db *gorm.DB
}

// NewStorageTaskRepo 创建 StorageTaskRepository 实例
func NewStorageTaskRepo(db *gorm.DB) StorageTaskRepository {
	return &storageTaskRepo{db: db}
}

func (r *storageTaskRepo) Create(ctx context.Context, task *model.StorageCleanupTask) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *storageTaskRepo) ListPending(ctx context.Context, limit int) ([]model.StorageCleanupTask, error) {
	var tasks []model.StorageCleanupTask
	err := r.db.WithContext(ctx).
		Where("status = ?", model.CleanupPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&tasks).Error
	return tasks, err
}

func (r *storageTaskRepo) MarkDone(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Model(&model.StorageCleanupTask{}).
		Where("task_id = ?", id).
		Updates(map[string]interface{}{
			"status":     model.CleanupDone,
			"done_at":    gorm.Expr("NOW()"),
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}

// RecordFailure 记录一次失败；giveUp 为 true 时任务转为 FAILED 不再重试
func (r *storageTaskRepo) RecordFailure(ctx context.Context, id string, lastErr string, giveUp bool) error {
	updates := map[string]interface{}{
		"attempts":   gorm.Expr("attempts + 1"),
		"last_error": lastErr,
		"updated_at": gorm.Expr("NOW()"),
	}
	if giveUp {
		updates["status"] = model.CleanupFailed
	}
	return r.db.WithContext(ctx).
		Model(&model.StorageCleanupTask{}).
		Where("task_id = ?", id).
		Updates(updates).Error
}

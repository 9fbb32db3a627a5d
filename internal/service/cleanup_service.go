package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"flowdesks/backend/config"
	"flowdesks/backend/internal/repository"
	"flowdesks/backend/pkg/storage"
)

// 单轮清理的超时时间
const cleanupRunTimeout = 2 * time.Minute

// CleanupSweeper 定时重试删除对象存储中遗留的照片文件
type CleanupSweeper struct {
	tasks  repository.StorageTaskRepository
	store  storage.ObjectStorage
	cfg    *config.CleanupConfig
	logger *zap.Logger

	mu   sync.Mutex
	cron *cron.Cron
}

// NewCleanupSweeper 创建清理任务调度器；store 为 nil 时 Start 不做任何事
func NewCleanupSweeper(tasks repository.StorageTaskRepository, store storage.ObjectStorage, cfg *config.CleanupConfig, logger *zap.Logger) *CleanupSweeper {
	return &CleanupSweeper{tasks: tasks, store: store, cfg: cfg, logger: logger}
}

// Start 按 cfg.Spec 注册定时任务；上一轮未结束时跳过本轮
func (s *CleanupSweeper) Start() error {
	if !s.cfg.Enabled || s.store == nil {
		s.logger.Info("对象存储清理任务未启用")
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron != nil {
		return nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(s.cfg.Spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cleanupRunTimeout)
		defer cancel()
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Warn("对象存储清理失败", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("注册清理任务失败: %w", err)
	}
	c.Start()
	s.cron = c

	s.logger.Info("对象存储清理任务已启动", zap.String("spec", s.cfg.Spec))
	return nil
}

// Stop 停止调度并等待正在执行的一轮结束
func (s *CleanupSweeper) Stop() {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()

	if c != nil {
		<-c.Stop().Done()
	}
}

// RunOnce 处理一批待清理任务，返回成功删除的数量
func (s *CleanupSweeper) RunOnce(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, ErrStorageUnavailable
	}

	batch := s.cfg.BatchSize
	if batch <= 0 {
		batch = 50
	}
	pending, err := s.tasks.ListPending(ctx, batch)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, t := range pending {
		if err := s.store.Remove(ctx, t.ObjectKey); err != nil {
			giveUp := s.cfg.MaxAttempts > 0 && t.Attempts+1 >= s.cfg.MaxAttempts
			if rerr := s.tasks.RecordFailure(ctx, t.TaskID, err.Error(), giveUp); rerr != nil {
				s.logger.Error("记录清理失败状态出错", zap.String("task_id", t.TaskID), zap.Error(rerr))
			}
			if giveUp {
				s.logger.Warn("放弃清理对象", zap.String("key", t.ObjectKey), zap.Int("attempts", t.Attempts+1))
			}
			continue
		}
		if err := s.tasks.MarkDone(ctx, t.TaskID); err != nil {
			s.logger.Error("标记清理完成失败", zap.String("task_id", t.TaskID), zap.Error(err))
			continue
		}
		removed++
	}

	if len(pending) > 0 {
		s.logger.Info("对象存储清理完成", zap.Int("pending", len(pending)), zap.Int("removed", removed))
	}
	return removed, nil
}

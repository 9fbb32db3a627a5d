package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"flowdesks/backend/internal/dto"
	"flowdesks/backend/internal/model"
	"flowdesks/backend/internal/repository"
)

// ── 通知模块业务错误 ──

var (
	ErrNotificationNotFound = errors.New("通知不存在")
	ErrRealtimeUnavailable  = errors.New("实时推送不可用")
)

// NotificationChannel 用户的实时通知频道
func NotificationChannel(userID string) string {
	return "notifications:" + userID
}

// NotificationService 通知业务接口
type NotificationService interface {
	// Notify 落库并推送；推送失败不影响落库结果
	Notify(ctx context.Context, n *model.Notification, payload interface{}) error
	List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	// Realtime 是否具备实时推送能力
	Realtime() bool
	// Stream 订阅用户频道直到 ctx 取消
	Stream(ctx context.Context, userID string, fn func(dto.NotificationResponse)) error
}

type notificationService struct {
	repo   *repository.Repository
	bus    NotificationBus
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例；bus 为 nil 时只落库不推送
func NewNotificationService(repo *repository.Repository, bus NotificationBus, logger *zap.Logger) NotificationService {
	return &notificationService{repo: repo, bus: bus, logger: logger}
}

// ────────────────────── Notify ──────────────────────

func (s *notificationService) Notify(ctx context.Context, n *model.Notification, payload interface{}) error {
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("序列化通知内容失败: %w", err)
		}
		n.Payload = datatypes.JSON(raw)
	}

	if err := s.repo.Notification.Create(ctx, n); err != nil {
		return err
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, NotificationChannel(n.UserID), toNotificationResponse(n)); err != nil {
			s.logger.Warn("推送通知失败", zap.String("user_id", n.UserID), zap.Error(err))
		}
	}
	return nil
}

// ────────────────────── List / Read ──────────────────────

func (s *notificationService) List(ctx context.Context, userID string, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	items, total, err := s.repo.Notification.ListByUser(ctx, userID, req.UnreadOnly, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("查询通知失败", zap.String("user_id", userID), zap.Error(err))
		return nil, 0, err
	}
	out := make([]dto.NotificationResponse, 0, len(items))
	for i := range items {
		out = append(out, toNotificationResponse(&items[i]))
	}
	return out, total, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return s.repo.Notification.CountUnread(ctx, userID)
}

func (s *notificationService) MarkRead(ctx context.Context, id, userID string) error {
	if err := s.repo.Notification.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		s.logger.Error("标记通知已读失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.Notification.MarkAllRead(ctx, userID)
	if err != nil {
		s.logger.Error("全部标记已读失败", zap.String("user_id", userID), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// ────────────────────── Stream ──────────────────────

func (s *notificationService) Realtime() bool { return s.bus != nil }

func (s *notificationService) Stream(ctx context.Context, userID string, fn func(dto.NotificationResponse)) error {
	if s.bus == nil {
		return ErrRealtimeUnavailable
	}
	return s.bus.Subscribe(ctx, NotificationChannel(userID), func(payload []byte) {
		var msg dto.NotificationResponse
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logger.Warn("丢弃无法解析的通知消息", zap.String("user_id", userID), zap.Error(err))
			return
		}
		fn(msg)
	})
}

func toNotificationResponse(n *model.Notification) dto.NotificationResponse {
	resp := dto.NotificationResponse{
		ID:          n.NotificationID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		IsRead:      n.IsRead,
		RelatedType: n.RelatedType,
		RelatedID:   n.RelatedID,
		CreatedAt:   formatTime(n.CreatedAt),
	}
	if len(n.Payload) > 0 {
		resp.Payload = json.RawMessage(n.Payload)
	}
	return resp
}

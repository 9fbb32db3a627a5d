package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"flowdesks/backend/internal/photo"
	pkgerrors "flowdesks/backend/pkg/errors"
)

// 以下接口由 pkg/redis、pkg/database、pkg/storage、internal/photo 实现，测试中替换为内存实现。

// Pinger 数据库连通性检查
type Pinger interface {
	Ping(ctx context.Context) error
}

// SnapshotCache 离线快照缓存
type SnapshotCache interface {
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error
}

// NotificationBus 通知实时推送
type NotificationBus interface {
	Publish(ctx context.Context, channel string, value interface{}) error
	Subscribe(ctx context.Context, channel string, fn func(payload []byte)) error
}

// TokenBlacklist Token 黑名单
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// PhotoAnnotator 工作照片水印
type PhotoAnnotator interface {
	Annotate(data []byte, contentType string, meta photo.CaptureMetadata) (*photo.Result, error)
}

// ensureOnline 写操作前的连通性检查；数据库不可达时直接返回 ErrOffline
func ensureOnline(ctx context.Context, p Pinger) error {
	if p == nil {
		return nil
	}
	if err := p.Ping(ctx); err != nil {
		return pkgerrors.ErrOffline
	}
	return nil
}

// pgHint 取出存储过程 RAISE ... USING HINT 设置的结构化代码
func pgHint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Hint
	}
	return ""
}

const timeLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

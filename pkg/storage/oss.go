package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"go.uber.org/zap"

	"flowdesks/backend/config"
)

// OSS 阿里云 OSS 实现
type OSS struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	publicBase string
	logger     *zap.Logger
}

// NewOSS 创建 OSS 客户端并绑定 bucket
func NewOSS(cfg *config.StorageConfig, logger *zap.Logger) (*OSS, error) {
	if cfg.Endpoint == "" || cfg.AccessKeyID == "" || cfg.AccessKeySecret == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("对象存储配置不完整: storage.endpoint/access_key_id/access_key_secret/bucket")
	}

	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("初始化 OSS 客户端失败: %w", err)
	}

	bucket, err := client.Bucket(cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("获取 OSS bucket 失败: %w", err)
	}

	logger.Info("对象存储已就绪", zap.String("bucket", cfg.Bucket), zap.String("endpoint", cfg.Endpoint))

	return &OSS{
		bucket:     bucket,
		endpoint:   cfg.Endpoint,
		bucketName: cfg.Bucket,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
		logger:     logger,
	}, nil
}

// Upload 上传对象
func (s *OSS) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	opts := []oss.Option{
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.CacheControl("public, max-age=31536000, immutable"),
	}
	if err := s.bucket.PutObject(key, r, opts...); err != nil {
		return fmt.Errorf("上传对象 %s 失败: %w", key, err)
	}
	return nil
}

// PublicURL 对象的公开访问地址
func (s *OSS) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.publicBase != "" {
		return s.publicBase + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, end, key)
}

// Remove 批量删除对象；对象不存在视为成功
func (s *OSS) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if len(keys) == 1 {
		err := s.bucket.DeleteObject(keys[0], oss.WithContext(ctx))
		if err != nil && !isNotFound(err) {
			return fmt.Errorf("删除对象 %s 失败: %w", keys[0], err)
		}
		return nil
	}

	res, err := s.bucket.DeleteObjects(keys, oss.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("批量删除对象失败: %w", err)
	}
	if len(res.DeletedObjects) < len(keys) {
		s.logger.Warn("部分对象未确认删除",
			zap.Int("requested", len(keys)),
			zap.Int("deleted", len(res.DeletedObjects)),
		)
	}
	return nil
}

func isNotFound(err error) bool {
	var se oss.ServiceError
	if errors.As(err, &se) {
		return se.StatusCode == 404
	}
	return false
}

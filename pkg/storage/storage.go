// Package storage 对象存储：工作照片上传、公开地址与删除。
package storage

import (
	"context"
	"io"
)

// ObjectStorage 对象存储接口
type ObjectStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) error
	PublicURL(key string) string
	Remove(ctx context.Context, keys ...string) error
}

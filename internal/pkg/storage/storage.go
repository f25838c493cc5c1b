// Package storage 封装帖子图片与头像的对象存储。
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/qs3c/forum_server/config"
)

// ObjectStore 对象存储，Put 返回可公开访问的 URL
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New 按 storage.driver 创建对象存储
func New(cfg *config.StorageConfig) (ObjectStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "oss":
		return NewOSS(&cfg.OSS)
	case "s3", "minio":
		return NewS3(&cfg.S3)
	case "memory":
		return NewMemory("http://localhost/uploads"), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// ContentTypeForExt 根据扩展名获取 Content-Type
func ContentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

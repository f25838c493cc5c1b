package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"

	"github.com/qs3c/forum_server/config"
)

// OSS 阿里云 OSS 存储
type OSS struct {
	bucket     *oss.Bucket
	endpoint   string
	bucketName string
	cdnDomain  string
}

func NewOSS(cfg *config.OSSConfig) (*OSS, error) {
	client, err := oss.New(cfg.Endpoint, cfg.AccessKeyID, cfg.AccessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("failed to create OSS client: %w", err)
	}

	bucket, err := client.Bucket(cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket: %w", err)
	}

	return &OSS{
		bucket:     bucket,
		endpoint:   client.Config.Endpoint,
		bucketName: cfg.BucketName,
		cdnDomain:  cfg.CDNDomain,
	}, nil
}

// Put 上传对象
func (s *OSS) Put(_ context.Context, key string, data []byte, contentType string) (string, error) {
	err := s.bucket.PutObject(key, bytes.NewReader(data), oss.ContentType(contentType))
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return s.URL(key), nil
}

// Delete 删除对象
func (s *OSS) Delete(_ context.Context, key string) error {
	if err := s.bucket.DeleteObject(key); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// URL 获取文件访问 URL，配置了 CDN 时优先使用 CDN 域名
func (s *OSS) URL(key string) string {
	return ossURL(s.cdnDomain, s.bucketName, s.endpoint, key)
}

func ossURL(cdnDomain, bucketName, endpoint, key string) string {
	if cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", cdnDomain, key)
	}
	return fmt.Sprintf("https://%s.%s/%s", bucketName, endpoint, key)
}

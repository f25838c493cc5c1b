package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/qs3c/forum_server/config"
	"github.com/qs3c/forum_server/internal/pkg/storage"
)

const (
	defaultMaxUploadSize = 5 << 20
	defaultAvatarSize    = 256
)

// 帖子图片允许的类型；头像只接受可解码的 JPEG/PNG/GIF
var (
	postImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
	avatarTypes    = []string{"image/jpeg", "image/png", "image/gif"}
)

// UploadFile 已读入内存的上传文件
type UploadFile struct {
	Filename string
	Data     []byte
}

type UploadService struct {
	store storage.ObjectStore
	users UserRepository
	cfg   *config.ForumConfig
}

func NewUploadService(store storage.ObjectStore, users UserRepository, cfg *config.ForumConfig) *UploadService {
	return &UploadService{
		store: store,
		users: users,
		cfg:   cfg,
	}
}

// MaxUploadSize 单个文件的大小上限（字节）
func (s *UploadService) MaxUploadSize() int64 {
	if s.cfg != nil && s.cfg.MaxUploadSize > 0 {
		return s.cfg.MaxUploadSize
	}
	return defaultMaxUploadSize
}

// MaxPostImages 单次上传的图片数量上限
func (s *UploadService) MaxPostImages() int {
	if s.cfg != nil && s.cfg.MaxPostImages > 0 {
		return s.cfg.MaxPostImages
	}
	return maxPostImages
}

func (s *UploadService) avatarSize() int {
	if s.cfg != nil && s.cfg.AvatarSize > 0 {
		return s.cfg.AvatarSize
	}
	return defaultAvatarSize
}

// UploadPostImages 上传帖子图片，返回公开 URL，顺序与输入一致
func (s *UploadService) UploadPostImages(ctx context.Context, userID int64, files []UploadFile) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > s.MaxPostImages() {
		return nil, fmt.Errorf("%w: at most %d allowed", ErrTooManyFiles, s.MaxPostImages())
	}

	// 先全部校验，避免部分上传
	types := make([]*mimetype.MIME, len(files))
	for i, f := range files {
		mt, err := s.sniff(f, postImageTypes)
		if err != nil {
			return nil, err
		}
		types[i] = mt
	}

	urls := make([]string, 0, len(files))
	for i, f := range files {
		key := fmt.Sprintf("post-images/%d/%s%s", userID, uuid.NewString(), types[i].Extension())
		url, err := s.store.Put(ctx, key, f.Data, types[i].String())
		if err != nil {
			return nil, fmt.Errorf("store post image: %w", err)
		}
		urls = append(urls, url)
	}

	slog.Info("post images uploaded", "user_id", userID, "count", len(urls))
	return urls, nil
}

// UploadAvatar 头像居中裁剪为正方形并转为 JPEG，保存到用户资料
func (s *UploadService) UploadAvatar(ctx context.Context, userID int64, file UploadFile) (string, error) {
	if _, err := s.sniff(file, avatarTypes); err != nil {
		return "", err
	}

	img, err := imaging.Decode(bytes.NewReader(file.Data), imaging.AutoOrientation(true))
	if err != nil {
		return "", ErrUnsupportedImage
	}

	size := s.avatarSize()
	img = imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("encode avatar: %w", err)
	}

	key := fmt.Sprintf("avatars/%d/%s.jpg", userID, uuid.NewString())
	url, err := s.store.Put(ctx, key, buf.Bytes(), storage.ContentTypeForExt(".jpg"))
	if err != nil {
		return "", fmt.Errorf("store avatar: %w", err)
	}

	if err := s.users.UpdateFields(userID, map[string]interface{}{"avatar_url": url}); err != nil {
		return "", err
	}
	return url, nil
}

func (s *UploadService) sniff(f UploadFile, allowed []string) (*mimetype.MIME, error) {
	if len(f.Data) == 0 {
		return nil, ErrNoFiles
	}
	if int64(len(f.Data)) > s.MaxUploadSize() {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrFileTooLarge, f.Filename, s.MaxUploadSize())
	}
	mt := mimetype.Detect(f.Data)
	if !mimetype.EqualsAny(mt.String(), allowed...) {
		return nil, ErrUnsupportedImage
	}
	return mt, nil
}

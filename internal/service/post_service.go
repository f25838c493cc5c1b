package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/config"
	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/thread"
)

const (
	maxPageSize       = 50
	maxPostImages     = 3
	maxRecentActivity = 20
)

type PostService struct {
	stores     Stores
	tx         Transactor
	categories *CategoryService
	limiter    Limiter
	cfg        *config.ForumConfig
}

func NewPostService(stores Stores, tx Transactor, categories *CategoryService, limiter Limiter, cfg *config.ForumConfig) *PostService {
	return &PostService{
		stores:     stores,
		tx:         tx,
		categories: categories,
		limiter:    limiter,
		cfg:        cfg,
	}
}

func (s *PostService) maxPageSize() int {
	if s.cfg != nil && s.cfg.MaxPageSize > 0 && s.cfg.MaxPageSize < maxPageSize {
		return s.cfg.MaxPageSize
	}
	return maxPageSize
}

func (s *PostService) maxImages() int {
	if s.cfg != nil && s.cfg.MaxPostImages > 0 {
		return s.cfg.MaxPostImages
	}
	return maxPostImages
}

// List 帖子列表：置顶优先，再按最后回复时间（无回复的排后）、发帖时间倒序
func (s *PostService) List(filter model.PostFilter, page, pageSize int) (*dto.PostPage, error) {
	page, pageSize = clampPage(page, pageSize, s.maxPageSize())

	posts, total, err := s.stores.Posts.List(filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &dto.PostPage{
		Items:      buildPostItems(posts),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ListByCategorySlug 按分类 slug 列表，一级分类展开到子分类
func (s *PostService) ListByCategorySlug(slug, search string, page, pageSize int) (*dto.PostPage, error) {
	ids, err := s.categories.ResolveCategoryIDs(slug)
	if err != nil {
		return nil, err
	}
	return s.List(model.PostFilter{CategoryIDs: ids, Search: search}, page, pageSize)
}

// Get 帖子详情及楼层树，浏览数 +1
func (s *PostService) Get(id int64) (*dto.PostDetail, error) {
	affected, err := s.stores.Posts.IncrementViewCount(id)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPostNotFound
	}

	post, err := s.stores.Posts.GetByIDWithRelations(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	replies, err := s.stores.Replies.ListByPostID(id)
	if err != nil {
		return nil, err
	}

	return &dto.PostDetail{
		Post:    buildPostItem(post),
		Replies: buildReplyTree(thread.Build(replies)),
	}, nil
}

// Create 发帖
func (s *PostService) Create(ctx context.Context, userID int64, req *dto.CreatePostRequest) (*dto.PostItem, error) {
	if err := requireActiveAuthor(s.stores.Users, userID); err != nil {
		return nil, err
	}

	if _, err := s.categories.postable(req.CategoryID); err != nil {
		return nil, err
	}

	if len(req.Images) > s.maxImages() {
		return nil, fmt.Errorf("%w: at most %d allowed", ErrTooManyImages, s.maxImages())
	}

	if !allow(ctx, s.limiter, fmt.Sprintf("post:%d", userID)) {
		return nil, ErrTooFrequent
	}

	post := &model.Post{
		CategoryID: req.CategoryID,
		UserID:     userID,
		Title:      strings.TrimSpace(req.Title),
		Content:    strings.TrimSpace(req.Content),
		Images:     model.StringArray(req.Images),
	}
	if err := s.stores.Posts.Create(post); err != nil {
		return nil, err
	}

	created, err := s.stores.Posts.GetByIDWithRelations(post.ID)
	if err != nil {
		return nil, err
	}
	return buildPostItem(created), nil
}

// Update 作者编辑帖子
func (s *PostService) Update(userID, postID int64, req *dto.UpdatePostRequest) (*dto.PostItem, error) {
	post, err := s.ownPost(userID, postID)
	if err != nil {
		return nil, err
	}
	if err := requireActiveAuthor(s.stores.Users, userID); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	if req.Title != nil {
		fields["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		fields["content"] = strings.TrimSpace(*req.Content)
	}
	if req.Images != nil {
		if len(*req.Images) > s.maxImages() {
			return nil, fmt.Errorf("%w: at most %d allowed", ErrTooManyImages, s.maxImages())
		}
		fields["images"] = model.StringArray(*req.Images)
	}

	if len(fields) > 0 {
		if err := s.stores.Posts.UpdateFields(post.ID, fields); err != nil {
			return nil, err
		}
	}

	updated, err := s.stores.Posts.GetByIDWithRelations(post.ID)
	if err != nil {
		return nil, err
	}
	return buildPostItem(updated), nil
}

// Delete 作者删除帖子及其全部回复
func (s *PostService) Delete(userID, postID int64) error {
	post, err := s.ownPost(userID, postID)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(func(st Stores) error {
		if _, err := st.Replies.DeleteByPostID(post.ID); err != nil {
			return err
		}
		return st.Posts.Delete(post.ID)
	})
}

// RecentActivity 最近活跃的帖子
func (s *PostService) RecentActivity(limit int) ([]*dto.PostItem, error) {
	maxLimit := maxRecentActivity
	if s.cfg != nil && s.cfg.RecentActivityMax > 0 {
		maxLimit = s.cfg.RecentActivityMax
	}
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	posts, err := s.stores.Posts.RecentActivity(limit)
	if err != nil {
		return nil, err
	}
	return buildPostItems(posts), nil
}

func (s *PostService) ownPost(userID, postID int64) (*model.Post, error) {
	post, err := s.stores.Posts.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if post.UserID != userID {
		return nil, ErrPostPermission
	}
	return post, nil
}

// requireActiveAuthor 发帖、回复前检查账号状态
func requireActiveAuthor(users UserRepository, userID int64) error {
	user, err := users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if user.IsBanned {
		return ErrUserBanned
	}
	return nil
}

package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
)

// 置顶优先，有回复的按最后回复时间，其余按发帖时间，id 保证稳定
const (
	activityOrder = "last_reply_at IS NULL ASC, last_reply_at DESC, created_at DESC, id ASC"
	postListOrder = "is_pinned DESC, " + activityOrder
)

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Create 创建帖子
func (r *PostRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// GetByID 根据 ID 获取帖子
func (r *PostRepository) GetByID(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByIDWithRelations 获取帖子及作者、分类、最后回复人
func (r *PostRepository) GetByIDWithRelations(id int64) (*model.Post, error) {
	var post model.Post
	err := r.db.Preload("User").Preload("Category").Preload("LastReplyUser").
		Where("id = ?", id).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// UpdateFields 更新指定字段
func (r *PostRepository) UpdateFields(id int64, fields map[string]interface{}) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).Updates(fields).Error
}

// Delete 删除帖子
func (r *PostRepository) Delete(id int64) error {
	return r.db.Delete(&model.Post{}, id).Error
}

// List 帖子列表
func (r *PostRepository) List(filter model.PostFilter, page, pageSize int) ([]*model.Post, int64, error) {
	var posts []*model.Post
	var total int64

	if err := r.db.Model(&model.Post{}).Scopes(postFilterScope(filter)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*model.Post{}, 0, nil
	}

	offset := (page - 1) * pageSize
	err := r.db.Model(&model.Post{}).
		Scopes(postFilterScope(filter)).
		Preload("User").Preload("Category").Preload("LastReplyUser").
		Order(postListOrder).
		Offset(offset).Limit(pageSize).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func postFilterScope(filter model.PostFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		switch {
		case filter.CategoryID != nil:
			db = db.Where("category_id = ?", *filter.CategoryID)
		case filter.CategoryIDs != nil:
			if len(filter.CategoryIDs) == 0 {
				// 空集合不匹配任何帖子
				return db.Where("1 = 0")
			}
			db = db.Where("category_id IN ?", filter.CategoryIDs)
		}
		if filter.UserID != nil {
			db = db.Where("user_id = ?", *filter.UserID)
		}
		if search := strings.TrimSpace(filter.Search); search != "" {
			pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
			db = db.Where("(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(content) LIKE ? ESCAPE '!')", pattern, pattern)
		}
		return db
	}
}

// IncrementViewCount 浏览数 +1，返回受影响行数
func (r *PostRepository) IncrementViewCount(id int64) (int64, error) {
	result := r.db.Model(&model.Post{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	return result.RowsAffected, result.Error
}

// ApplyReplyAdded 回复数 +1 并记录最后回复
func (r *PostRepository) ApplyReplyAdded(id, userID int64, at time.Time) error {
	return r.db.Model(&model.Post{}).Where("id = ?", id).UpdateColumns(map[string]interface{}{
		"reply_count":        gorm.Expr("reply_count + 1"),
		"last_reply_at":      at,
		"last_reply_user_id": userID,
	}).Error
}

// ApplyReplyRemoved 回复数减 n（不低于 0），最后回复改为 latest，nil 表示已无回复
func (r *PostRepository) ApplyReplyRemoved(id, n int64, latest *model.Reply) error {
	fields := map[string]interface{}{
		"reply_count":        gorm.Expr("CASE WHEN reply_count >= ? THEN reply_count - ? ELSE 0 END", n, n),
		"last_reply_at":      nil,
		"last_reply_user_id": nil,
	}
	if latest != nil {
		fields["last_reply_at"] = latest.CreatedAt
		fields["last_reply_user_id"] = latest.UserID
	}
	return r.db.Model(&model.Post{}).Where("id = ?", id).UpdateColumns(fields).Error
}

// RecentActivity 最近有回复的帖子在前，没有回复的按发帖时间排在后面
func (r *PostRepository) RecentActivity(limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.Preload("User").Preload("Category").Preload("LastReplyUser").
		Order(activityOrder).
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *PostRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Count(&count).Error
	return count, err
}

func (r *PostRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
)

type ReplyRepository struct {
	db *gorm.DB
}

func NewReplyRepository(db *gorm.DB) *ReplyRepository {
	return &ReplyRepository{db: db}
}

// Create 创建回复
func (r *ReplyRepository) Create(reply *model.Reply) error {
	return r.db.Create(reply).Error
}

// GetByID 根据 ID 获取回复
func (r *ReplyRepository) GetByID(id int64) (*model.Reply, error) {
	var reply model.Reply
	err := r.db.Where("id = ?", id).First(&reply).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// GetByIDWithUser 获取回复及作者
func (r *ReplyRepository) GetByIDWithUser(id int64) (*model.Reply, error) {
	var reply model.Reply
	err := r.db.Preload("User").Where("id = ?", id).First(&reply).Error
	if err != nil {
		return nil, err
	}
	return &reply, nil
}

// ListByPostID 帖子的全部回复，按时间正序
func (r *ReplyRepository) ListByPostID(postID int64) ([]*model.Reply, error) {
	var replies []*model.Reply
	err := r.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&replies).Error
	return replies, err
}

// LatestByPostID 帖子最新一条回复，没有时返回 nil
func (r *ReplyRepository) LatestByPostID(postID int64) (*model.Reply, error) {
	var replies []*model.Reply
	err := r.db.Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Limit(1).
		Find(&replies).Error
	if err != nil || len(replies) == 0 {
		return nil, err
	}
	return replies[0], nil
}

// UpdateContent 修改回复内容
func (r *ReplyRepository) UpdateContent(id int64, content string) error {
	return r.db.Model(&model.Reply{}).Where("id = ?", id).Update("content", content).Error
}

// Delete 删除回复，子回复保留原 parent_reply_id，组装楼层时按孤儿处理
func (r *ReplyRepository) Delete(id int64) error {
	return r.db.Delete(&model.Reply{}, id).Error
}

// DeleteByPostID 删除帖子下全部回复
func (r *ReplyRepository) DeleteByPostID(postID int64) (int64, error) {
	result := r.db.Where("post_id = ?", postID).Delete(&model.Reply{})
	return result.RowsAffected, result.Error
}

func (r *ReplyRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Reply{}).Count(&count).Error
	return count, err
}

func (r *ReplyRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.Reply{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
)

type AdminActionRepository struct {
	db *gorm.DB
}

func NewAdminActionRepository(db *gorm.DB) *AdminActionRepository {
	return &AdminActionRepository{db: db}
}

func (r *AdminActionRepository) Create(action *model.AdminAction) error {
	return r.db.Create(action).Error
}

// List 审计记录，最新在前
func (r *AdminActionRepository) List(page, pageSize int) ([]*model.AdminAction, int64, error) {
	var actions []*model.AdminAction
	var total int64

	query := r.db.Model(&model.AdminAction{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	err := query.Preload("Actor").
		Order("created_at DESC, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&actions).Error
	if err != nil {
		return nil, 0, err
	}

	return actions, total, nil
}

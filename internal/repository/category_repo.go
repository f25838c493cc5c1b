package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *model.Category) error {
	return r.db.Create(category).Error
}

func (r *CategoryRepository) GetByID(id int64) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("id = ?", id).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) GetBySlug(slug string) (*model.Category, error) {
	var category model.Category
	err := r.db.Where("slug = ?", slug).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// ListActive 全部启用分类，按 sort_order、id 排序
func (r *CategoryRepository) ListActive() ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	return categories, err
}

// ListChildren 启用的直接子分类
func (r *CategoryRepository) ListChildren(parentID int64) ([]*model.Category, error) {
	var categories []*model.Category
	err := r.db.Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("sort_order ASC, id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) HasChildren(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Category{}).Where("parent_id = ?", id).Count(&count).Error
	return count > 0, err
}

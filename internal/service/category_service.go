package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/model/dto"
)

type CategoryService struct {
	categories CategoryRepository
}

func NewCategoryService(categories CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

// GetCategories 启用的一级分类及其启用的子分类，均按 sort_order、id 排序
func (s *CategoryService) GetCategories() ([]*dto.CategoryNode, error) {
	all, err := s.categories.ListActive()
	if err != nil {
		return nil, err
	}

	nodes := make([]*dto.CategoryNode, 0)
	byID := make(map[int64]*dto.CategoryNode)
	for _, c := range all {
		if c.ParentID != nil {
			continue
		}
		node := &dto.CategoryNode{CategoryItem: *buildCategoryItem(c), Children: []*dto.CategoryItem{}}
		nodes = append(nodes, node)
		byID[c.ID] = node
	}
	// 只挂到启用的一级分类下，更深的层级忽略
	for _, c := range all {
		if c.ParentID == nil {
			continue
		}
		if parent, ok := byID[*c.ParentID]; ok {
			parent.Children = append(parent.Children, buildCategoryItem(c))
		}
	}

	return nodes, nil
}

// GetBySlug 单个分类及其子分类
func (s *CategoryService) GetBySlug(slug string) (*dto.CategoryNode, error) {
	category, err := s.activeBySlug(slug)
	if err != nil {
		return nil, err
	}

	children, err := s.categories.ListChildren(category.ID)
	if err != nil {
		return nil, err
	}

	node := &dto.CategoryNode{
		CategoryItem: *buildCategoryItem(category),
		Children:     make([]*dto.CategoryItem, 0, len(children)),
	}
	for _, c := range children {
		node.Children = append(node.Children, buildCategoryItem(c))
	}
	return node, nil
}

// ResolveCategoryIDs 按 slug 展开为需要查询的分类 ID：叶子分类为自身，
// 否则为启用的子分类（子分类全部停用时为空集合，不回退到自身）
func (s *CategoryService) ResolveCategoryIDs(slug string) ([]int64, error) {
	category, err := s.activeBySlug(slug)
	if err != nil {
		return nil, err
	}

	hasChildren, err := s.categories.HasChildren(category.ID)
	if err != nil {
		return nil, err
	}
	if !hasChildren {
		return []int64{category.ID}, nil
	}

	children, err := s.categories.ListChildren(category.ID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	return ids, nil
}

// postable 发帖目标分类必须存在、启用且没有子分类
func (s *CategoryService) postable(id int64) (*model.Category, error) {
	category, err := s.categories.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCategory
		}
		return nil, err
	}
	if !category.IsActive {
		return nil, ErrInvalidCategory
	}

	hasChildren, err := s.categories.HasChildren(id)
	if err != nil {
		return nil, err
	}
	if hasChildren {
		return nil, ErrCategoryNotLeaf
	}
	return category, nil
}

func (s *CategoryService) activeBySlug(slug string) (*model.Category, error) {
	category, err := s.categories.GetBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	if !category.IsActive {
		return nil, ErrCategoryNotFound
	}
	return category, nil
}

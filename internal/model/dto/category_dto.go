package dto

// CategoryItem 分类
type CategoryItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	SortOrder   int    `json:"sort_order"`
	ParentID    *int64 `json:"parent_id"`
}

// CategoryNode 一级分类及其子分类
type CategoryNode struct {
	CategoryItem
	Children []*CategoryItem `json:"children"`
}

// CategoryBrief 帖子中引用的分类
type CategoryBrief struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

package dto

// CreatePostRequest 发帖请求
type CreatePostRequest struct {
	CategoryID int64    `json:"category_id" binding:"required"`
	Title      string   `json:"title" binding:"required,notblank,max=255"`
	Content    string   `json:"content" binding:"required,notblank"`
	Images     []string `json:"images" binding:"omitempty,dive,url"`
}

// UpdatePostRequest 编辑帖子，未提供的字段保持不变
type UpdatePostRequest struct {
	Title   *string   `json:"title,omitempty" binding:"omitempty,notblank,max=255"`
	Content *string   `json:"content,omitempty" binding:"omitempty,notblank"`
	Images  *[]string `json:"images,omitempty" binding:"omitempty,dive,url"`
}

// PostItem 帖子列表项
type PostItem struct {
	ID            int64          `json:"id"`
	CategoryID    int64          `json:"category_id"`
	Category      *CategoryBrief `json:"category,omitempty"`
	Author        *AuthorInfo    `json:"author,omitempty"`
	Title         string         `json:"title"`
	Content       string         `json:"content"`
	Images        []string       `json:"images"`
	IsPinned      bool           `json:"is_pinned"`
	IsLocked      bool           `json:"is_locked"`
	ViewCount     int64          `json:"view_count"`
	ReplyCount    int64          `json:"reply_count"`
	LastReplyAt   string         `json:"last_reply_at,omitempty"`
	LastReplyUser *AuthorInfo    `json:"last_reply_user,omitempty"`
	CreatedAt     string         `json:"created_at"`
	UpdatedAt     string         `json:"updated_at"`
}

// PostPage 帖子分页结果
type PostPage struct {
	Items      []*PostItem `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalPages int         `json:"total_pages"`
}

// PostDetail 帖子详情及楼层
type PostDetail struct {
	Post    *PostItem    `json:"post"`
	Replies []*ReplyNode `json:"replies"`
}

package dto

// CreateReplyRequest 回复请求
type CreateReplyRequest struct {
	PostID        int64  `json:"post_id" binding:"required"`
	Content       string `json:"content" binding:"required,notblank,max=10000"`
	ParentReplyID *int64 `json:"parent_reply_id,omitempty"`
}

// UpdateReplyRequest 编辑回复
type UpdateReplyRequest struct {
	Content string `json:"content" binding:"required,notblank,max=10000"`
}

// ReplyItem 回复项
type ReplyItem struct {
	ID            int64       `json:"id"`
	PostID        int64       `json:"post_id"`
	ParentReplyID *int64      `json:"parent_reply_id"`
	Author        *AuthorInfo `json:"author,omitempty"`
	Content       string      `json:"content"`
	CreatedAt     string      `json:"created_at"`
	UpdatedAt     string      `json:"updated_at"`
}

// ReplyNode 楼层树节点
type ReplyNode struct {
	ReplyItem
	Children []*ReplyNode `json:"children"`
}

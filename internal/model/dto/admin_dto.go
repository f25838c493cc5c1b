package dto

// BanUserRequest 封禁请求
type BanUserRequest struct {
	Reason string `json:"reason" binding:"required,notblank,max=500"`
}

// SetModeratorRequest 授予或撤销版主
type SetModeratorRequest struct {
	IsModerator *bool `json:"is_moderator" binding:"required"`
}

// DeleteContentRequest 删除帖子或回复，reason 可选
type DeleteContentRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// AdminActionItem 审计记录
type AdminActionItem struct {
	ID         int64       `json:"id"`
	Actor      *AuthorInfo `json:"actor,omitempty"`
	ActionType string      `json:"action_type"`
	TargetType string      `json:"target_type"`
	TargetID   int64       `json:"target_id"`
	Reason     *string     `json:"reason,omitempty"`
	Details    interface{} `json:"details,omitempty"`
	CreatedAt  string      `json:"created_at"`
}

// DashboardStats 后台统计
type DashboardStats struct {
	TotalUsers      int64 `json:"total_users"`
	TotalPosts      int64 `json:"total_posts"`
	TotalReplies    int64 `json:"total_replies"`
	BannedUsers     int64 `json:"banned_users"`
	Moderators      int64 `json:"moderators"`
	NewUsersToday   int64 `json:"new_users_today"`
	NewPostsToday   int64 `json:"new_posts_today"`
	NewRepliesToday int64 `json:"new_replies_today"`
}

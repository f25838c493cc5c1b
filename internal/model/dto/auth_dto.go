package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username      string `json:"username" binding:"required,username"`
	Email         string `json:"email" binding:"required,email,max=100"`
	Password      string `json:"password" binding:"required,min=8,max=72"`
	FullName      string `json:"full_name" binding:"required,notblank,max=100"`
	Country       string `json:"country" binding:"required,notblank,max=100"`
	StateProvince string `json:"state_province" binding:"required,notblank,max=100"`
	PhoneNumber   string `json:"phone_number" binding:"omitempty,max=30"`
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

// LoginRequest 登录请求，username 可以填用户名或邮箱
type LoginRequest struct {
	Username string `json:"username" binding:"required,notblank"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         *UserInfo `json:"user"`
	SessionToken string    `json:"session_token"`
}

// MeResponse 当前登录状态
type MeResponse struct {
	Authenticated bool      `json:"authenticated"`
	User          *UserInfo `json:"user,omitempty"`
}

// UserInfo 用户信息（返回给本人或管理员）
type UserInfo struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	Email         string  `json:"email,omitempty"`
	FullName      string  `json:"full_name"`
	Country       string  `json:"country"`
	StateProvince string  `json:"state_province"`
	PhoneNumber   string  `json:"phone_number,omitempty"`
	AvatarURL     string  `json:"avatar_url"`
	Bio           string  `json:"bio"`
	Role          string  `json:"role"`
	IsActive      bool    `json:"is_active"`
	IsAdmin       bool    `json:"is_admin"`
	IsModerator   bool    `json:"is_moderator"`
	IsBanned      bool    `json:"is_banned"`
	BanReason     *string `json:"ban_reason,omitempty"`
	BannedAt      string  `json:"banned_at,omitempty"`
	LastLogin     string  `json:"last_login,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

// UpdateProfileRequest 更新个人资料，未提供的字段保持不变
type UpdateProfileRequest struct {
	FullName      *string `json:"full_name,omitempty" binding:"omitempty,notblank,max=100"`
	Country       *string `json:"country,omitempty" binding:"omitempty,notblank,max=100"`
	StateProvince *string `json:"state_province,omitempty" binding:"omitempty,notblank,max=100"`
	PhoneNumber   *string `json:"phone_number,omitempty" binding:"omitempty,max=30"`
	Bio           *string `json:"bio,omitempty" binding:"omitempty,max=1000"`
}

// PublicUser 公开资料
type PublicUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FullName  string `json:"full_name"`
	Country   string `json:"country"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

// PublicProfile 用户主页
type PublicProfile struct {
	User        *PublicUser `json:"user"`
	PostCount   int64       `json:"post_count"`
	RecentPosts []*PostItem `json:"recent_posts"`
}

// AuthorInfo 帖子与回复中的作者信息
type AuthorInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url"`
	Role      string `json:"role"`
}

package model

import (
	"time"
)

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	Username      string     `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email         *string    `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash  *string    `gorm:"size:255" json:"-"`
	FullName      string     `gorm:"size:100" json:"full_name"`
	Country       string     `gorm:"size:100" json:"country"`
	StateProvince string     `gorm:"size:100" json:"state_province"`
	PhoneNumber   string     `gorm:"size:30" json:"phone_number,omitempty"`
	AvatarURL     string     `gorm:"size:500" json:"avatar_url"`
	Bio           string     `gorm:"type:text" json:"bio"`
	GithubID      *string    `gorm:"column:github_id;size:50;uniqueIndex" json:"-"`
	IsActive      bool       `gorm:"not null;default:true" json:"is_active"`
	IsAdmin       bool       `gorm:"not null;default:false" json:"is_admin"`
	IsModerator   bool       `gorm:"not null;default:false" json:"is_moderator"`
	IsBanned      bool       `gorm:"not null;default:false;index" json:"is_banned"`
	BanReason     *string    `gorm:"size:500" json:"ban_reason,omitempty"`
	BannedAt      *time.Time `json:"banned_at,omitempty"`
	BannedBy      *int64     `json:"banned_by,omitempty"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Role 返回用户的最高权限
func (u *User) Role() string {
	switch {
	case u.IsAdmin:
		return RoleAdmin
	case u.IsModerator:
		return RoleModerator
	default:
		return RoleUser
	}
}

// CanModerate 版主及以上且未被封禁
func (u *User) CanModerate() bool {
	return (u.IsAdmin || u.IsModerator) && u.IsActive && !u.IsBanned
}

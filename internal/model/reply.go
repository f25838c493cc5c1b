package model

import (
	"time"
)

type Reply struct {
	ID            int64     `gorm:"primaryKey" json:"id"`
	PostID        int64     `gorm:"not null;index" json:"post_id"`
	UserID        int64     `gorm:"not null;index" json:"user_id"`
	ParentReplyID *int64    `gorm:"index" json:"parent_reply_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Reply) TableName() string {
	return "replies"
}

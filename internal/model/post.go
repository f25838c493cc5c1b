package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Post struct {
	ID              int64       `gorm:"primaryKey" json:"id"`
	CategoryID      int64       `gorm:"not null;index" json:"category_id"`
	UserID          int64       `gorm:"not null;index" json:"user_id"`
	Title           string      `gorm:"size:255;not null" json:"title"`
	Content         string      `gorm:"type:text;not null" json:"content"`
	Images          StringArray `gorm:"type:text" json:"images"`
	IsPinned        bool        `gorm:"not null;default:false" json:"is_pinned"`
	IsLocked        bool        `gorm:"not null;default:false" json:"is_locked"`
	ViewCount       int64       `gorm:"not null;default:0" json:"view_count"`
	ReplyCount      int64       `gorm:"not null;default:0" json:"reply_count"`
	LastReplyAt     *time.Time  `gorm:"index" json:"last_reply_at"`
	LastReplyUserID *int64      `json:"last_reply_user_id"`
	CreatedAt       time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// 关联
	User          *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Category      *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	LastReplyUser *User     `gorm:"foreignKey:LastReplyUserID" json:"last_reply_user,omitempty"`
}

func (Post) TableName() string {
	return "posts"
}

// PostFilter 帖子列表过滤条件
// CategoryID 优先于 CategoryIDs
type PostFilter struct {
	CategoryID  *int64
	CategoryIDs []int64
	UserID      *int64
	Search      string
}

// StringArray 以 JSON 文本存储的字符串列表
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
	if len(raw) == 0 {
		*a = StringArray{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*a = out
	return nil
}

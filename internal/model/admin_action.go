package model

import (
	"time"

	"gorm.io/datatypes"
)

// AdminAction 管理操作审计记录，Metadata 的结构由 ActionType 决定
type AdminAction struct {
	ID         int64          `gorm:"primaryKey" json:"id"`
	ActorID    int64          `gorm:"not null;index" json:"actor_id"`
	ActionType string         `gorm:"size:32;not null;index" json:"action_type"`
	TargetType string         `gorm:"size:16;not null" json:"target_type"`
	TargetID   int64          `gorm:"not null;index" json:"target_id"`
	Reason     *string        `gorm:"size:500" json:"reason,omitempty"`
	Metadata   datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt  time.Time      `gorm:"index" json:"created_at"`

	// 关联
	Actor *User `gorm:"foreignKey:ActorID" json:"actor,omitempty"`
}

func (AdminAction) TableName() string {
	return "admin_actions"
}

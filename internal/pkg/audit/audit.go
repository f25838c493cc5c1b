// Package audit 定义管理操作审计事件。
//
// 事件集合是封闭的：只有本包内的类型实现 Event，处理方可以对 Decode 的结果做穷举 switch。
package audit

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	"github.com/qs3c/forum_server/internal/model"
)

type ActionType string

const (
	ActionAssignModerator ActionType = "assign_moderator"
	ActionRemoveModerator ActionType = "remove_moderator"
	ActionBanUser         ActionType = "ban_user"
	ActionUnbanUser       ActionType = "unban_user"
	ActionDeletePost      ActionType = "delete_post"
	ActionDeleteReply     ActionType = "delete_reply"
)

// Actions 全部合法的操作类型
var Actions = []ActionType{
	ActionAssignModerator,
	ActionRemoveModerator,
	ActionBanUser,
	ActionUnbanUser,
	ActionDeletePost,
	ActionDeleteReply,
}

func (a ActionType) Valid() bool {
	for _, v := range Actions {
		if a == v {
			return true
		}
	}
	return false
}

type TargetType string

const (
	TargetUser  TargetType = "user"
	TargetPost  TargetType = "post"
	TargetReply TargetType = "reply"
)

var ErrUnknownAction = errors.New("unknown audit action")

// Event 审计事件
type Event interface {
	Action() ActionType
	Target() (TargetType, int64)
	sealed()
}

// AssignModerator 授予版主
type AssignModerator struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// RemoveModerator 撤销版主
type RemoveModerator struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// BanUser 封禁用户
type BanUser struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// UnbanUser 解封用户
type UnbanUser struct {
	UserID         int64  `json:"user_id"`
	Username       string `json:"username"`
	PreviousReason string `json:"previous_reason,omitempty"`
}

// DeletePost 删除帖子
type DeletePost struct {
	PostID         int64  `json:"post_id"`
	AuthorID       int64  `json:"author_id"`
	CategoryID     int64  `json:"category_id"`
	Title          string `json:"title"`
	RepliesRemoved int64  `json:"replies_removed"`
}

// DeleteReply 删除回复
type DeleteReply struct {
	ReplyID  int64 `json:"reply_id"`
	PostID   int64 `json:"post_id"`
	AuthorID int64 `json:"author_id"`
}

func (AssignModerator) Action() ActionType { return ActionAssignModerator }
func (RemoveModerator) Action() ActionType { return ActionRemoveModerator }
func (BanUser) Action() ActionType         { return ActionBanUser }
func (UnbanUser) Action() ActionType       { return ActionUnbanUser }
func (DeletePost) Action() ActionType      { return ActionDeletePost }
func (DeleteReply) Action() ActionType     { return ActionDeleteReply }

func (e AssignModerator) Target() (TargetType, int64) { return TargetUser, e.UserID }
func (e RemoveModerator) Target() (TargetType, int64) { return TargetUser, e.UserID }
func (e BanUser) Target() (TargetType, int64)         { return TargetUser, e.UserID }
func (e UnbanUser) Target() (TargetType, int64)       { return TargetUser, e.UserID }
func (e DeletePost) Target() (TargetType, int64)      { return TargetPost, e.PostID }
func (e DeleteReply) Target() (TargetType, int64)     { return TargetReply, e.ReplyID }

func (AssignModerator) sealed() {}
func (RemoveModerator) sealed() {}
func (BanUser) sealed()         {}
func (UnbanUser) sealed()       {}
func (DeletePost) sealed()      {}
func (DeleteReply) sealed()     {}

// NewRecord 构造待写入的审计记录，reason 为空时不记录
func NewRecord(actorID int64, reason string, e Event) (*model.AdminAction, error) {
	meta, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal audit metadata: %w", err)
	}

	targetType, targetID := e.Target()
	record := &model.AdminAction{
		ActorID:    actorID,
		ActionType: string(e.Action()),
		TargetType: string(targetType),
		TargetID:   targetID,
		Metadata:   datatypes.JSON(meta),
	}
	if r := strings.TrimSpace(reason); r != "" {
		record.Reason = &r
	}
	return record, nil
}

// Decode 从审计记录还原事件
func Decode(record *model.AdminAction) (Event, error) {
	switch ActionType(record.ActionType) {
	case ActionAssignModerator:
		e := AssignModerator{}
		err := decodeMeta(record, &e)
		e.UserID = record.TargetID
		return e, err
	case ActionRemoveModerator:
		e := RemoveModerator{}
		err := decodeMeta(record, &e)
		e.UserID = record.TargetID
		return e, err
	case ActionBanUser:
		e := BanUser{}
		err := decodeMeta(record, &e)
		e.UserID = record.TargetID
		return e, err
	case ActionUnbanUser:
		e := UnbanUser{}
		err := decodeMeta(record, &e)
		e.UserID = record.TargetID
		return e, err
	case ActionDeletePost:
		e := DeletePost{}
		err := decodeMeta(record, &e)
		e.PostID = record.TargetID
		return e, err
	case ActionDeleteReply:
		e := DeleteReply{}
		err := decodeMeta(record, &e)
		e.ReplyID = record.TargetID
		return e, err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, record.ActionType)
	}
}

func decodeMeta(record *model.AdminAction, v interface{}) error {
	if len(record.Metadata) == 0 {
		return nil
	}
	if err := json.Unmarshal(record.Metadata, v); err != nil {
		return fmt.Errorf("decode %s metadata: %w", record.ActionType, err)
	}
	return nil
}

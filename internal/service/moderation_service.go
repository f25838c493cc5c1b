package service

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/audit"
)

// ModerationService 版主与管理员操作，每次变更写且只写一条审计记录
type ModerationService struct {
	stores Stores
	tx     Transactor
	now    func() time.Time
}

func NewModerationService(stores Stores, tx Transactor) *ModerationService {
	return &ModerationService{
		stores: stores,
		tx:     tx,
		now:    time.Now,
	}
}

// BanUser 封禁用户，必须填写原因；管理员不可被封禁
func (s *ModerationService) BanUser(actorID, userID int64, reason string) (*dto.UserInfo, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	actor, target, err := s.actorAndTarget(actorID, userID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin {
		return nil, ErrCannotBanAdmin
	}

	now := s.now()
	err = s.commit(actor.ID, reason, audit.BanUser{UserID: target.ID, Username: target.Username}, func(st Stores) error {
		return st.Users.UpdateFields(target.ID, map[string]interface{}{
			"is_banned":  true,
			"ban_reason": reason,
			"banned_at":  now,
			"banned_by":  actor.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user banned", "actor_id", actor.ID, "user_id", target.ID)
	return s.userInfo(target.ID)
}

// UnbanUser 解除封禁
func (s *ModerationService) UnbanUser(actorID, userID int64) (*dto.UserInfo, error) {
	actor, target, err := s.actorAndTarget(actorID, userID)
	if err != nil {
		return nil, err
	}

	event := audit.UnbanUser{UserID: target.ID, Username: target.Username}
	if target.BanReason != nil {
		event.PreviousReason = *target.BanReason
	}
	err = s.commit(actor.ID, "", event, func(st Stores) error {
		return st.Users.UpdateFields(target.ID, map[string]interface{}{
			"is_banned":  false,
			"ban_reason": nil,
			"banned_at":  nil,
			"banned_by":  nil,
		})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("user unbanned", "actor_id", actor.ID, "user_id", target.ID)
	return s.userInfo(target.ID)
}

// SetModerator 授予或撤销版主，仅管理员可操作
func (s *ModerationService) SetModerator(actorID, userID int64, enabled bool) (*dto.UserInfo, error) {
	actor, err := s.actor(actorID)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin {
		return nil, ErrAdminRequired
	}
	if actor.ID == userID {
		return nil, ErrCannotModerateSelf
	}

	target, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin {
		return nil, ErrTargetIsAdmin
	}

	var event audit.Event = audit.AssignModerator{UserID: target.ID, Username: target.Username}
	if !enabled {
		event = audit.RemoveModerator{UserID: target.ID, Username: target.Username}
	}
	err = s.commit(actor.ID, "", event, func(st Stores) error {
		return st.Users.UpdateFields(target.ID, map[string]interface{}{"is_moderator": enabled})
	})
	if err != nil {
		return nil, err
	}

	slog.Info("moderator changed", "actor_id", actor.ID, "user_id", target.ID, "enabled", enabled)
	return s.userInfo(target.ID)
}

// DeletePost 删除帖子及其回复
func (s *ModerationService) DeletePost(actorID, postID int64, reason string) error {
	actor, err := s.actor(actorID)
	if err != nil {
		return err
	}

	post, err := s.stores.Posts.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	if err := s.checkAuthor(actor, post.UserID); err != nil {
		return err
	}

	return s.tx.WithinTx(func(st Stores) error {
		removed, err := st.Replies.DeleteByPostID(post.ID)
		if err != nil {
			return err
		}
		if err := st.Posts.Delete(post.ID); err != nil {
			return err
		}
		return writeAudit(st, actor.ID, reason, audit.DeletePost{
			PostID:         post.ID,
			AuthorID:       post.UserID,
			CategoryID:     post.CategoryID,
			Title:          post.Title,
			RepliesRemoved: removed,
		})
	})
}

// DeleteReply 删除回复，子回复保留
func (s *ModerationService) DeleteReply(actorID, replyID int64, reason string) error {
	actor, err := s.actor(actorID)
	if err != nil {
		return err
	}

	reply, err := s.stores.Replies.GetByID(replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReplyNotFound
		}
		return err
	}
	if err := s.checkAuthor(actor, reply.UserID); err != nil {
		return err
	}

	return s.tx.WithinTx(func(st Stores) error {
		if err := removeReply(st, reply); err != nil {
			return err
		}
		return writeAudit(st, actor.ID, reason, audit.DeleteReply{
			ReplyID:  reply.ID,
			PostID:   reply.PostID,
			AuthorID: reply.UserID,
		})
	})
}

// ListUsers 后台用户列表
func (s *ModerationService) ListUsers(actorID int64, search string, page, pageSize int) ([]*dto.UserInfo, int64, error) {
	if _, err := s.actor(actorID); err != nil {
		return nil, 0, err
	}
	page, pageSize = clampPage(page, pageSize, maxPageSize)

	users, total, err := s.stores.Users.List(search, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.UserInfo, 0, len(users))
	for _, u := range users {
		items = append(items, buildUserInfo(u))
	}
	return items, total, nil
}

// ListActions 审计记录
func (s *ModerationService) ListActions(actorID int64, page, pageSize int) ([]*dto.AdminActionItem, int64, error) {
	if _, err := s.actor(actorID); err != nil {
		return nil, 0, err
	}
	page, pageSize = clampPage(page, pageSize, maxPageSize)

	actions, total, err := s.stores.Actions.List(page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*dto.AdminActionItem, 0, len(actions))
	for _, a := range actions {
		item := &dto.AdminActionItem{
			ID:         a.ID,
			Actor:      buildAuthor(a.Actor),
			ActionType: a.ActionType,
			TargetType: a.TargetType,
			TargetID:   a.TargetID,
			Reason:     a.Reason,
			CreatedAt:  formatTime(a.CreatedAt),
		}
		event, err := audit.Decode(a)
		if err != nil {
			slog.Warn("undecodable audit record", "id", a.ID, "error", err)
		} else {
			item.Details = event
		}
		items = append(items, item)
	}
	return items, total, nil
}

// DashboardStats 后台统计
func (s *ModerationService) DashboardStats(actorID int64) (*dto.DashboardStats, error) {
	if _, err := s.actor(actorID); err != nil {
		return nil, err
	}

	today := startOfDay(s.now())
	stats := &dto.DashboardStats{}
	counters := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&stats.TotalUsers, s.stores.Users.CountAll},
		{&stats.TotalPosts, s.stores.Posts.CountAll},
		{&stats.TotalReplies, s.stores.Replies.CountAll},
		{&stats.BannedUsers, s.stores.Users.CountBanned},
		{&stats.Moderators, s.stores.Users.CountModerators},
		{&stats.NewUsersToday, func() (int64, error) { return s.stores.Users.CountCreatedSince(today) }},
		{&stats.NewPostsToday, func() (int64, error) { return s.stores.Posts.CountCreatedSince(today) }},
		{&stats.NewRepliesToday, func() (int64, error) { return s.stores.Replies.CountCreatedSince(today) }},
	}
	for _, c := range counters {
		n, err := c.fn()
		if err != nil {
			return nil, err
		}
		*c.dst = n
	}
	return stats, nil
}

// actor 操作者必须是启用且未封禁的版主或管理员
func (s *ModerationService) actor(actorID int64) (*model.User, error) {
	actor, err := s.stores.Users.GetByID(actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotModerator
		}
		return nil, err
	}
	if !actor.CanModerate() {
		return nil, ErrNotModerator
	}
	return actor, nil
}

func (s *ModerationService) user(userID int64) (*model.User, error) {
	user, err := s.stores.Users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// actorAndTarget 针对用户的操作：不能作用于自己，版主不能作用于管理员
func (s *ModerationService) actorAndTarget(actorID, userID int64) (*model.User, *model.User, error) {
	actor, err := s.actor(actorID)
	if err != nil {
		return nil, nil, err
	}
	if actor.ID == userID {
		return nil, nil, ErrCannotModerateSelf
	}

	target, err := s.user(userID)
	if err != nil {
		return nil, nil, err
	}
	if target.IsAdmin && !actor.IsAdmin {
		return nil, nil, ErrAdminRequired
	}
	return actor, target, nil
}

// checkAuthor 版主不能删除管理员发布的内容
func (s *ModerationService) checkAuthor(actor *model.User, authorID int64) error {
	if actor.IsAdmin {
		return nil
	}
	author, err := s.stores.Users.GetByID(authorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if author.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

func (s *ModerationService) commit(actorID int64, reason string, event audit.Event, mutate func(Stores) error) error {
	return s.tx.WithinTx(func(st Stores) error {
		if err := mutate(st); err != nil {
			return err
		}
		return writeAudit(st, actorID, reason, event)
	})
}

func (s *ModerationService) userInfo(userID int64) (*dto.UserInfo, error) {
	user, err := s.user(userID)
	if err != nil {
		return nil, err
	}
	return buildUserInfo(user), nil
}

func writeAudit(st Stores, actorID int64, reason string, event audit.Event) error {
	record, err := audit.NewRecord(actorID, reason, event)
	if err != nil {
		return err
	}
	return st.Actions.Create(record)
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/thread"
)

type ReplyService struct {
	stores  Stores
	tx      Transactor
	limiter Limiter
}

func NewReplyService(stores Stores, tx Transactor, limiter Limiter) *ReplyService {
	return &ReplyService{
		stores:  stores,
		tx:      tx,
		limiter: limiter,
	}
}

// ListThreaded 帖子的楼层树
func (s *ReplyService) ListThreaded(postID int64) ([]*dto.ReplyNode, error) {
	if _, err := s.getPost(postID); err != nil {
		return nil, err
	}

	replies, err := s.stores.Replies.ListByPostID(postID)
	if err != nil {
		return nil, err
	}
	return buildReplyTree(thread.Build(replies)), nil
}

// ListFlat 按时间正序的平铺回复，同时计一次浏览
func (s *ReplyService) ListFlat(postID int64) ([]*dto.ReplyItem, error) {
	affected, err := s.stores.Posts.IncrementViewCount(postID)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrPostNotFound
	}

	replies, err := s.stores.Replies.ListByPostID(postID)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.ReplyItem, 0, len(replies))
	for _, r := range replies {
		items = append(items, buildReplyItem(r))
	}
	return items, nil
}

// Create 发表回复，写入回复与更新帖子计数在同一事务内
func (s *ReplyService) Create(ctx context.Context, userID int64, req *dto.CreateReplyRequest) (*dto.ReplyItem, error) {
	if err := requireActiveAuthor(s.stores.Users, userID); err != nil {
		return nil, err
	}

	post, err := s.getPost(req.PostID)
	if err != nil {
		return nil, err
	}
	if post.IsLocked {
		return nil, ErrPostLocked
	}

	if req.ParentReplyID != nil {
		parent, err := s.stores.Replies.GetByID(*req.ParentReplyID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.PostID != post.ID {
			return nil, ErrParentNotFound
		}
	}

	if !allow(ctx, s.limiter, fmt.Sprintf("reply:%d", userID)) {
		return nil, ErrTooFrequent
	}

	reply := &model.Reply{
		PostID:        post.ID,
		UserID:        userID,
		ParentReplyID: req.ParentReplyID,
		Content:       strings.TrimSpace(req.Content),
	}
	err = s.tx.WithinTx(func(st Stores) error {
		if err := st.Replies.Create(reply); err != nil {
			return err
		}
		return st.Posts.ApplyReplyAdded(post.ID, userID, reply.CreatedAt)
	})
	if err != nil {
		return nil, err
	}

	created, err := s.stores.Replies.GetByIDWithUser(reply.ID)
	if err != nil {
		return nil, err
	}
	return buildReplyItem(created), nil
}

// Update 作者编辑回复
func (s *ReplyService) Update(userID, replyID int64, req *dto.UpdateReplyRequest) (*dto.ReplyItem, error) {
	reply, err := s.ownReply(userID, replyID)
	if err != nil {
		return nil, err
	}
	if err := requireActiveAuthor(s.stores.Users, userID); err != nil {
		return nil, err
	}

	if err := s.stores.Replies.UpdateContent(reply.ID, strings.TrimSpace(req.Content)); err != nil {
		return nil, err
	}

	updated, err := s.stores.Replies.GetByIDWithUser(reply.ID)
	if err != nil {
		return nil, err
	}
	return buildReplyItem(updated), nil
}

// Delete 作者删除回复，子回复保留
func (s *ReplyService) Delete(userID, replyID int64) error {
	reply, err := s.ownReply(userID, replyID)
	if err != nil {
		return err
	}

	return s.tx.WithinTx(func(st Stores) error {
		return removeReply(st, reply)
	})
}

// removeReply 删除回复并回退帖子的回复数与最后回复
func removeReply(st Stores, reply *model.Reply) error {
	if err := st.Replies.Delete(reply.ID); err != nil {
		return err
	}
	latest, err := st.Replies.LatestByPostID(reply.PostID)
	if err != nil {
		return err
	}
	return st.Posts.ApplyReplyRemoved(reply.PostID, 1, latest)
}

func (s *ReplyService) getPost(postID int64) (*model.Post, error) {
	post, err := s.stores.Posts.GetByID(postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *ReplyService) ownReply(userID, replyID int64) (*model.Reply, error) {
	reply, err := s.stores.Replies.GetByID(replyID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReplyNotFound
		}
		return nil, err
	}
	if reply.UserID != userID {
		return nil, ErrReplyPermission
	}
	return reply, nil
}

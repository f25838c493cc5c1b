package service

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/repository"
)

// UserRepository 用户存储
type UserRepository interface {
	Create(user *model.User) error
	GetByID(id int64) (*model.User, error)
	GetByEmail(email string) (*model.User, error)
	GetByLogin(identifier string) (*model.User, error)
	GetByGithubID(githubID string) (*model.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	UpdateFields(id int64, fields map[string]interface{}) error
	List(search string, page, pageSize int) ([]*model.User, int64, error)
	CountAll() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
	CountBanned() (int64, error)
	CountModerators() (int64, error)
}

// SessionRepository 登录会话存储
type SessionRepository interface {
	Create(session *model.Session) error
	GetByToken(token string) (*model.Session, error)
	DeleteByToken(token string) (int64, error)
	DeleteByUserID(userID int64) (int64, error)
	DeleteExpired(now time.Time) (int64, error)
	CountExpired(now time.Time) (int64, error)
}

// CategoryRepository 分类存储
type CategoryRepository interface {
	GetByID(id int64) (*model.Category, error)
	GetBySlug(slug string) (*model.Category, error)
	ListActive() ([]*model.Category, error)
	ListChildren(parentID int64) ([]*model.Category, error)
	HasChildren(id int64) (bool, error)
}

// PostRepository 帖子存储
type PostRepository interface {
	Create(post *model.Post) error
	GetByID(id int64) (*model.Post, error)
	GetByIDWithRelations(id int64) (*model.Post, error)
	UpdateFields(id int64, fields map[string]interface{}) error
	Delete(id int64) error
	List(filter model.PostFilter, page, pageSize int) ([]*model.Post, int64, error)
	IncrementViewCount(id int64) (int64, error)
	ApplyReplyAdded(id, userID int64, at time.Time) error
	ApplyReplyRemoved(id, n int64, latest *model.Reply) error
	RecentActivity(limit int) ([]*model.Post, error)
	CountAll() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
}

// ReplyRepository 回复存储
type ReplyRepository interface {
	Create(reply *model.Reply) error
	GetByID(id int64) (*model.Reply, error)
	GetByIDWithUser(id int64) (*model.Reply, error)
	ListByPostID(postID int64) ([]*model.Reply, error)
	LatestByPostID(postID int64) (*model.Reply, error)
	UpdateContent(id int64, content string) error
	Delete(id int64) error
	DeleteByPostID(postID int64) (int64, error)
	CountAll() (int64, error)
	CountCreatedSince(since time.Time) (int64, error)
}

// AdminActionRepository 审计记录存储
type AdminActionRepository interface {
	Create(action *model.AdminAction) error
	List(page, pageSize int) ([]*model.AdminAction, int64, error)
}

// Stores 一组共享同一连接（或同一事务）的存储
type Stores struct {
	Users      UserRepository
	Sessions   SessionRepository
	Categories CategoryRepository
	Posts      PostRepository
	Replies    ReplyRepository
	Actions    AdminActionRepository
}

// NewStores 基于 gorm 连接创建全部存储
func NewStores(db *gorm.DB) Stores {
	return Stores{
		Users:      repository.NewUserRepository(db),
		Sessions:   repository.NewSessionRepository(db),
		Categories: repository.NewCategoryRepository(db),
		Posts:      repository.NewPostRepository(db),
		Replies:    repository.NewReplyRepository(db),
		Actions:    repository.NewAdminActionRepository(db),
	}
}

// Transactor 在一个事务内执行 fn，fn 返回错误时回滚
type Transactor interface {
	WithinTx(fn func(Stores) error) error
}

type GormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTx 事务内只能使用传入的 Stores
func (t *GormTransactor) WithinTx(fn func(Stores) error) error {
	return t.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStores(tx))
	})
}

// Limiter 发帖、回复频率限制
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// allow Redis 不可用时放行，只记录告警
func allow(ctx context.Context, l Limiter, key string) bool {
	if l == nil {
		return true
	}
	ok, err := l.Allow(ctx, key)
	if err != nil {
		slog.Warn("rate limiter unavailable", "key", key, "error", err)
		return true
	}
	return ok
}

// IdentityProvider 根据 bearer token 解析当前用户
type IdentityProvider interface {
	Authenticate(token string) (*model.User, error)
}

package service

import (
	"testing"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/config"
	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/testutil"
)

// testEnv 每个测试独立的内存库及全部服务
type testEnv struct {
	DB         *gorm.DB
	Stores     Stores
	Tx         Transactor
	Cfg        *config.Config
	Categories *CategoryService
	Posts      *PostService
	Replies    *ReplyService
	Moderation *ModerationService
	Users      *UserService
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key-for-testing",
			ExpireHours: 24,
		},
		Forum: config.ForumConfig{
			DefaultPageSize:   20,
			MaxPageSize:       50,
			MaxPostImages:     3,
			MaxUploadSize:     1 << 20,
			AvatarSize:        64,
			RecentActivityMax: 20,
		},
	}
}

func setupEnv(t *testing.T, limiter Limiter) (*testEnv, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	stores := NewStores(db)
	tx := NewGormTransactor(db)
	cfg := testConfig()

	categories := NewCategoryService(stores.Categories)
	posts := NewPostService(stores, tx, categories, limiter, &cfg.Forum)
	env := &testEnv{
		DB:         db,
		Stores:     stores,
		Tx:         tx,
		Cfg:        cfg,
		Categories: categories,
		Posts:      posts,
		Replies:    NewReplyService(stores, tx, limiter),
		Moderation: NewModerationService(stores, tx),
		Users:      NewUserService(stores.Users, posts),
	}

	cleanup := func() {
		testutil.CleanupTestDB(t, db)
	}
	return env, cleanup
}

func reloadPost(t *testing.T, db *gorm.DB, id int64) *model.Post {
	t.Helper()
	var post model.Post
	if err := db.First(&post, id).Error; err != nil {
		t.Fatalf("reload post %d: %v", id, err)
	}
	return &post
}

func reloadUser(t *testing.T, db *gorm.DB, id int64) *model.User {
	t.Helper()
	var user model.User
	if err := db.First(&user, id).Error; err != nil {
		t.Fatalf("reload user %d: %v", id, err)
	}
	return &user
}

func countRows(t *testing.T, db *gorm.DB, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := db.Model(m)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
)

// TestPassword 测试用户的默认明文密码
const TestPassword = "password123"

var (
	seq          int64
	passwordHash string
)

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

func defaultPasswordHash(t *testing.T) string {
	t.Helper()
	if passwordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("Failed to hash password: %v", err)
		}
		passwordHash = string(hash)
	}
	return passwordHash
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	n := nextSeq()
	email := fmt.Sprintf("test_%d@example.com", n)
	hash := defaultPasswordHash(t)
	user := &model.User{
		Username:     fmt.Sprintf("testuser_%d", n),
		Email:        &email,
		PasswordHash: &hash,
		FullName:     "Test User",
		IsActive:     true,
	}

	for _, opt := range opts {
		opt(user)
	}

	inactive := !user.IsActive
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	// is_active 默认值为 true，零值不会写入
	if inactive {
		if err := db.Model(user).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test user: %v", err)
		}
		user.IsActive = false
	}

	return user
}

// WithUsername 设置用户名
func WithUsername(username string) func(*model.User) {
	return func(u *model.User) {
		u.Username = username
	}
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = &email
	}
}

// WithPassword 设置密码
func WithPassword(password string) func(*model.User) {
	return func(u *model.User) {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		h := string(hash)
		u.PasswordHash = &h
	}
}

func WithAdmin() func(*model.User) {
	return func(u *model.User) {
		u.IsAdmin = true
		u.IsModerator = true
	}
}

func WithModerator() func(*model.User) {
	return func(u *model.User) {
		u.IsModerator = true
	}
}

// WithBanned 设置为封禁状态
func WithBanned(reason string) func(*model.User) {
	return func(u *model.User) {
		now := time.Now()
		u.IsBanned = true
		u.BanReason = &reason
		u.BannedAt = &now
	}
}

func WithInactive() func(*model.User) {
	return func(u *model.User) {
		u.IsActive = false
	}
}

// TestCategory 创建测试分类
func TestCategory(t *testing.T, db *gorm.DB, opts ...func(*model.Category)) *model.Category {
	t.Helper()

	n := nextSeq()
	category := &model.Category{
		Name:     fmt.Sprintf("Category %d", n),
		Slug:     fmt.Sprintf("category-%d", n),
		IsActive: true,
	}

	for _, opt := range opts {
		opt(category)
	}

	inactive := !category.IsActive
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}
	if inactive {
		if err := db.Model(category).Update("is_active", false).Error; err != nil {
			t.Fatalf("Failed to deactivate test category: %v", err)
		}
		category.IsActive = false
	}

	return category
}

// WithSlug 设置分类 slug
func WithSlug(slug string) func(*model.Category) {
	return func(c *model.Category) {
		c.Slug = slug
	}
}

// WithParent 设置父分类
func WithParent(parentID int64) func(*model.Category) {
	return func(c *model.Category) {
		c.ParentID = &parentID
	}
}

// WithSortOrder 设置排序
func WithSortOrder(order int) func(*model.Category) {
	return func(c *model.Category) {
		c.SortOrder = order
	}
}

func WithCategoryInactive() func(*model.Category) {
	return func(c *model.Category) {
		c.IsActive = false
	}
}

// TestPost 创建测试帖子
func TestPost(t *testing.T, db *gorm.DB, userID, categoryID int64, opts ...func(*model.Post)) *model.Post {
	t.Helper()

	n := nextSeq()
	post := &model.Post{
		UserID:     userID,
		CategoryID: categoryID,
		Title:      fmt.Sprintf("Test Post %d", n),
		Content:    "Test post content",
		Images:     model.StringArray{},
	}

	for _, opt := range opts {
		opt(post)
	}

	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}

	return post
}

// WithTitle 设置帖子标题
func WithTitle(title string) func(*model.Post) {
	return func(p *model.Post) {
		p.Title = title
	}
}

// WithContent 设置帖子内容
func WithContent(content string) func(*model.Post) {
	return func(p *model.Post) {
		p.Content = content
	}
}

func WithPinned() func(*model.Post) {
	return func(p *model.Post) {
		p.IsPinned = true
	}
}

func WithLocked() func(*model.Post) {
	return func(p *model.Post) {
		p.IsLocked = true
	}
}

// WithCreatedAt 设置发帖时间
func WithCreatedAt(at time.Time) func(*model.Post) {
	return func(p *model.Post) {
		p.CreatedAt = at
	}
}

// WithLastReply 设置最后回复
func WithLastReply(userID int64, at time.Time) func(*model.Post) {
	return func(p *model.Post) {
		p.LastReplyAt = &at
		p.LastReplyUserID = &userID
	}
}

// TestReply 创建测试回复，parentID 为 nil 时是一级回复
func TestReply(t *testing.T, db *gorm.DB, userID, postID int64, parentID *int64, content string) *model.Reply {
	t.Helper()

	reply := &model.Reply{
		UserID:        userID,
		PostID:        postID,
		ParentReplyID: parentID,
		Content:       content,
	}

	if err := db.Create(reply).Error; err != nil {
		t.Fatalf("Failed to create test reply: %v", err)
	}

	return reply
}

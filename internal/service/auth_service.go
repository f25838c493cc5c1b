package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/qs3c/forum_server/config"
	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/jwt"
	"github.com/qs3c/forum_server/internal/pkg/oauth"
	"github.com/qs3c/forum_server/internal/pkg/validate"
)

const defaultSessionTTL = 7 * 24 * time.Hour

var usernameIllegal = regexp.MustCompile(`[^A-Za-z0-9_]`)

type AuthService struct {
	stores Stores
	tx     Transactor
	cfg    *config.Config
	github *oauth.GithubOAuth
	states *oauth.StateStore
	now    func() time.Time
}

func NewAuthService(stores Stores, tx Transactor, github *oauth.GithubOAuth, states *oauth.StateStore, cfg *config.Config) *AuthService {
	return &AuthService{
		stores: stores,
		tx:     tx,
		cfg:    cfg,
		github: github,
		states: states,
		now:    time.Now,
	}
}

func (s *AuthService) sessionTTL() time.Duration {
	if s.cfg.JWT.ExpireHours > 0 {
		return time.Duration(s.cfg.JWT.ExpireHours) * time.Hour
	}
	return defaultSessionTTL
}

// Register 用户注册
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	exists, err := s.stores.Users.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if !exists {
		exists, err = s.stores.Users.ExistsByEmail(req.Email)
		if err != nil {
			return nil, err
		}
	}
	if exists {
		return nil, ErrAccountExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	passwordStr := string(hashedPassword)
	email := strings.TrimSpace(req.Email)
	user := &model.User{
		Username:      req.Username,
		Email:         &email,
		PasswordHash:  &passwordStr,
		FullName:      strings.TrimSpace(req.FullName),
		Country:       strings.TrimSpace(req.Country),
		StateProvince: strings.TrimSpace(req.StateProvince),
		PhoneNumber:   strings.TrimSpace(req.PhoneNumber),
		IsActive:      true,
	}
	if err := s.stores.Users.Create(user); err != nil {
		return nil, err
	}

	return &dto.RegisterResponse{UserID: user.ID}, nil
}

// Login 用户名或邮箱登录，旧会话与过期会话一并清理
func (s *AuthService) Login(identifier, password string) (*dto.LoginResponse, error) {
	user, err := s.stores.Users.GetByLogin(strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueSession(user)
}

// Authenticate 校验 bearer token 并返回当前用户
func (s *AuthService) Authenticate(token string) (*model.User, error) {
	claims, err := jwt.ParseToken(token, s.cfg.JWT.Secret)
	if err != nil {
		return nil, ErrInvalidSession
	}

	session, err := s.stores.Sessions.GetByToken(claims.SessionID())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if session.Expired(s.now()) || session.UserID != claims.UserID {
		return nil, ErrInvalidSession
	}

	user, err := s.stores.Users.GetByID(session.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrInvalidSession
	}
	return user, nil
}

// Logout 删除会话
func (s *AuthService) Logout(token string) error {
	if token == "" {
		return ErrMissingToken
	}
	claims, err := jwt.ParseToken(token, s.cfg.JWT.Secret)
	if err != nil {
		return ErrMissingToken
	}

	n, err := s.stores.Sessions.DeleteByToken(claims.SessionID())
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrMissingToken
	}
	return nil
}

// GetUserByID 根据 ID 获取用户
func (s *AuthService) GetUserByID(id int64) (*model.User, error) {
	return s.stores.Users.GetByID(id)
}

// GithubAuthURL 生成 GitHub 授权地址，returnTo 为登录完成后的前端地址
func (s *AuthService) GithubAuthURL(ctx context.Context, returnTo string) (string, error) {
	if s.github == nil || !s.github.Enabled() || s.states == nil {
		return "", ErrOAuthDisabled
	}
	state, err := s.states.Issue(ctx, returnTo)
	if err != nil {
		return "", err
	}
	return s.github.AuthURL(state), nil
}

// GithubCallback 处理 GitHub OAuth 回调，返回登录结果与 Issue 时记录的跳转地址
func (s *AuthService) GithubCallback(ctx context.Context, code, state string) (*dto.LoginResponse, string, error) {
	if s.github == nil || !s.github.Enabled() || s.states == nil {
		return nil, "", ErrOAuthDisabled
	}

	returnTo, err := s.states.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidState) {
			return nil, "", ErrInvalidOAuthState
		}
		return nil, "", err
	}

	githubUser, err := s.github.FetchUser(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get github user: %w", err)
	}

	user, err := s.findOrCreateGithubUser(githubUser)
	if err != nil {
		return nil, "", err
	}
	if !user.IsActive {
		return nil, "", ErrInvalidCredentials
	}

	resp, err := s.issueSession(user)
	if err != nil {
		return nil, "", err
	}
	return resp, returnTo, nil
}

// PurgeExpiredSessions 清理过期会话，dryRun 时只统计
func (s *AuthService) PurgeExpiredSessions(dryRun bool) (int64, error) {
	if dryRun {
		return s.stores.Sessions.CountExpired(s.now())
	}
	return s.stores.Sessions.DeleteExpired(s.now())
}

func (s *AuthService) findOrCreateGithubUser(gh *oauth.GithubUser) (*model.User, error) {
	githubID := fmt.Sprintf("%d", gh.ID)

	user, err := s.stores.Users.GetByGithubID(githubID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// 邮箱已注册时绑定到已有账号
	if gh.Email != "" {
		user, err := s.stores.Users.GetByEmail(gh.Email)
		if err == nil {
			if err := s.stores.Users.UpdateFields(user.ID, map[string]interface{}{"github_id": githubID}); err != nil {
				return nil, err
			}
			user.GithubID = &githubID
			return user, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	username, err := s.uniqueUsername(gh.Login, gh.ID)
	if err != nil {
		return nil, err
	}

	fullName := gh.Name
	if fullName == "" {
		fullName = gh.Login
	}
	user = &model.User{
		Username:  username,
		GithubID:  &githubID,
		FullName:  fullName,
		AvatarURL: gh.AvatarURL,
		Bio:       gh.Bio,
		IsActive:  true,
	}
	if gh.Email != "" {
		user.Email = &gh.Email
	}

	if err := s.stores.Users.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// uniqueUsername 把 GitHub 登录名转换为合法且未被占用的用户名
func (s *AuthService) uniqueUsername(login string, githubID int64) (string, error) {
	base := usernameIllegal.ReplaceAllString(login, "_")
	if len(base) < 3 {
		base = "gh_" + base
	}
	if len(base) > 30 {
		base = base[:30]
	}

	exists, err := s.stores.Users.ExistsByUsername(base)
	if err != nil {
		return "", err
	}
	if !exists {
		return base, nil
	}

	suffix := fmt.Sprintf("_%d", githubID)
	if len(base)+len(suffix) > 30 {
		base = base[:30-len(suffix)]
	}
	return base + suffix, nil
}

func (s *AuthService) issueSession(user *model.User) (*dto.LoginResponse, error) {
	sessionID, err := generateRandomCode(64)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ttl := s.sessionTTL()
	err = s.tx.WithinTx(func(st Stores) error {
		if err := st.Users.UpdateFields(user.ID, map[string]interface{}{"last_login": now}); err != nil {
			return err
		}
		if _, err := st.Sessions.DeleteByUserID(user.ID); err != nil {
			return err
		}
		if _, err := st.Sessions.DeleteExpired(now); err != nil {
			return err
		}
		return st.Sessions.Create(&model.Session{
			UserID:    user.ID,
			Token:     sessionID,
			ExpiresAt: now.Add(ttl),
		})
	})
	if err != nil {
		return nil, err
	}
	user.LastLogin = &now

	token, err := jwt.GenerateToken(user.ID, sessionID, s.cfg.JWT.Secret, ttl)
	if err != nil {
		return nil, err
	}

	return &dto.LoginResponse{
		User:         buildUserInfo(user),
		SessionToken: token,
	}, nil
}

func generateRandomCode(length int) (string, error) {
	bytes := make([]byte, length/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

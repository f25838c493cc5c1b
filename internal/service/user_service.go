package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/model/dto"
)

const profileRecentPosts = 10

type UserService struct {
	users UserRepository
	posts *PostService
}

func NewUserService(users UserRepository, posts *PostService) *UserService {
	return &UserService{
		users: users,
		posts: posts,
	}
}

// GetProfile 获取本人资料
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	return buildUserInfo(user), nil
}

// UpdateProfile 更新本人资料
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	if _, err := s.get(userID); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	set("full_name", req.FullName)
	set("country", req.Country)
	set("state_province", req.StateProvince)
	set("phone_number", req.PhoneNumber)
	set("bio", req.Bio)

	if len(fields) > 0 {
		if err := s.users.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(userID)
}

// GetPublicProfile 用户主页：公开资料及最近的帖子
func (s *UserService) GetPublicProfile(userID int64) (*dto.PublicProfile, error) {
	user, err := s.get(userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserNotFound
	}

	page, err := s.posts.List(model.PostFilter{UserID: &user.ID}, 1, profileRecentPosts)
	if err != nil {
		return nil, err
	}

	return &dto.PublicProfile{
		User:        buildPublicUser(user),
		PostCount:   page.Total,
		RecentPosts: page.Items,
	}, nil
}

func (s *UserService) get(userID int64) (*model.User, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

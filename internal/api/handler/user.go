package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/forum_server/internal/api/middleware"
	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

type UserHandler struct {
	userService   *service.UserService
	uploadService *service.UploadService
}

func NewUserHandler(userService *service.UserService, uploadService *service.UploadService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		uploadService: uploadService,
	}
}

// Me 当前登录状态，未登录时返回 401 且 authenticated=false
// GET /api/v1/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.ErrorWithData(c, response.CodeAuthFailed, "Not authenticated", dto.MeResponse{Authenticated: false})
		return
	}

	info, err := h.userService.GetProfile(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, dto.MeResponse{Authenticated: true, User: info})
}

// GetProfile 获取当前用户资料
// GET /api/v1/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateProfile 更新当前用户资料
// PUT /api/v1/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	profile, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Profile updated", profile)
}

// UploadAvatar 上传头像
// POST /api/v1/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "Please choose a file")
		return
	}
	file, err := readUpload(header, h.uploadService.MaxUploadSize())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	avatarURL, err := h.uploadService.UploadAvatar(c.Request.Context(), userID, file)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Avatar updated", dto.AvatarResponse{AvatarURL: avatarURL})
}

// PublicProfile 用户主页
// GET /api/v1/users/:id
func (h *UserHandler) PublicProfile(c *gin.Context) {
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	profile, err := h.userService.GetPublicProfile(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, profile)
}

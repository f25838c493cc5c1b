package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

// AdminHandler 后台接口；角色校验由 ModerationService 负责
type AdminHandler struct {
	moderationService *service.ModerationService
	defaultPageSize   int
}

func NewAdminHandler(moderationService *service.ModerationService, defaultPageSize int) *AdminHandler {
	return &AdminHandler{
		moderationService: moderationService,
		defaultPageSize:   defaultPageSize,
	}
}

// ListUsers 用户列表，支持按用户名或邮箱搜索
// GET /api/v1/admin/users?search=&page=&limit=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "limit", h.defaultPageSize)

	users, total, err := h.moderationService.ListUsers(actorID, c.Query("search"), page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	page, pageSize = service.NormalizePage(page, pageSize)
	response.SuccessPage(c, total, page, pageSize, users)
}

// ListActions 审计记录
// GET /api/v1/admin/actions?page=&limit=
func (h *AdminHandler) ListActions(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	page := queryInt(c, "page", 1)
	pageSize := queryInt(c, "limit", h.defaultPageSize)

	actions, total, err := h.moderationService.ListActions(actorID, page, pageSize)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	page, pageSize = service.NormalizePage(page, pageSize)
	response.SuccessPage(c, total, page, pageSize, actions)
}

// Stats 后台统计
// GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}

	stats, err := h.moderationService.DashboardStats(actorID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, stats)
}

// Ban 封禁用户
// POST /api/v1/admin/users/:id/ban
func (h *AdminHandler) Ban(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	var req dto.BanUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.moderationService.BanUser(actorID, userID, req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "User banned", user)
}

// Unban 解除封禁
// POST /api/v1/admin/users/:id/unban
func (h *AdminHandler) Unban(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	user, err := h.moderationService.UnbanUser(actorID, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "User unbanned", user)
}

// SetModerator 授予或撤销版主
// PUT /api/v1/admin/users/:id/moderator
func (h *AdminHandler) SetModerator(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := paramID(c, "id", "user")
	if !ok {
		return
	}

	var req dto.SetModeratorRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.moderationService.SetModerator(actorID, userID, *req.IsModerator)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Moderator status updated", user)
}

// DeletePost 删除帖子及其回复
// DELETE /api/v1/admin/posts/:id
func (h *AdminHandler) DeletePost(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id", "post")
	if !ok {
		return
	}

	req, ok := bindOptionalReason(c)
	if !ok {
		return
	}

	if err := h.moderationService.DeletePost(actorID, postID, req.Reason); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Post deleted", nil)
}

// DeleteReply 删除回复
// DELETE /api/v1/admin/replies/:id
func (h *AdminHandler) DeleteReply(c *gin.Context) {
	actorID, ok := currentUserID(c)
	if !ok {
		return
	}
	replyID, ok := paramID(c, "id", "reply")
	if !ok {
		return
	}

	req, ok := bindOptionalReason(c)
	if !ok {
		return
	}

	if err := h.moderationService.DeleteReply(actorID, replyID, req.Reason); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Reply deleted", nil)
}

// bindOptionalReason DELETE 请求体可以为空
func bindOptionalReason(c *gin.Context) (dto.DeleteContentRequest, bool) {
	var req dto.DeleteContentRequest
	if c.Request.ContentLength == 0 {
		return req, true
	}
	return req, bindJSON(c, &req)
}

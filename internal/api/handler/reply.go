package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

type ReplyHandler struct {
	replyService *service.ReplyService
}

func NewReplyHandler(replyService *service.ReplyService) *ReplyHandler {
	return &ReplyHandler{
		replyService: replyService,
	}
}

// List 按时间顺序的平铺回复，浏览数 +1
// GET /api/v1/replies?post_id=
func (h *ReplyHandler) List(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Query("post_id"), 10, 64)
	if err != nil || postID <= 0 {
		response.ParamError(c, "post_id is required")
		return
	}

	items, err := h.replyService.ListFlat(postID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, items)
}

// Create 回复帖子或楼中楼
// POST /api/v1/replies
func (h *ReplyHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReplyRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.replyService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		// 回复不存在的帖子属于参数错误
		if errors.Is(err, service.ErrPostNotFound) {
			response.ParamError(c, err.Error())
			return
		}
		handleServiceError(c, err)
		return
	}

	response.Created(c, "Reply created", reply)
}

// Update 编辑回复
// PUT /api/v1/replies/:id
func (h *ReplyHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	replyID, ok := paramID(c, "id", "reply")
	if !ok {
		return
	}

	var req dto.UpdateReplyRequest
	if !bindJSON(c, &req) {
		return
	}

	reply, err := h.replyService.Update(userID, replyID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Reply updated", reply)
}

// Delete 删除回复
// DELETE /api/v1/replies/:id
func (h *ReplyHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	replyID, ok := paramID(c, "id", "reply")
	if !ok {
		return
	}

	if err := h.replyService.Delete(userID, replyID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Reply deleted", nil)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

const defaultRecentActivity = 10

type PostHandler struct {
	postService     *service.PostService
	defaultPageSize int
}

func NewPostHandler(postService *service.PostService, defaultPageSize int) *PostHandler {
	return &PostHandler{
		postService:     postService,
		defaultPageSize: defaultPageSize,
	}
}

// List 帖子列表
// GET /api/v1/posts?category_id=&category_ids=&search=&page=&limit=
func (h *PostHandler) List(c *gin.Context) {
	var filter model.PostFilter

	if raw := c.Query("category_id"); raw != "" {
		ids, err := queryIDs(raw)
		if err != nil || len(ids) != 1 {
			response.ParamError(c, "Invalid category_id")
			return
		}
		filter.CategoryID = &ids[0]
	}
	if raw, ok := c.GetQuery("category_ids"); ok {
		ids, err := queryIDs(raw)
		if err != nil {
			response.ParamError(c, "Invalid category_ids")
			return
		}
		filter.CategoryIDs = ids
	}
	filter.Search = c.Query("search")

	page, err := h.postService.List(filter, queryInt(c, "page", 1), queryInt(c, "limit", h.defaultPageSize))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, page)
}

// Get 帖子详情及楼层，浏览数 +1
// GET /api/v1/posts/:id
func (h *PostHandler) Get(c *gin.Context) {
	postID, ok := paramID(c, "id", "post")
	if !ok {
		return
	}

	detail, err := h.postService.Get(postID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, detail)
}

// Create 发帖
// POST /api/v1/posts
func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.postService.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, "Post created", post)
}

// Update 编辑帖子
// PUT /api/v1/posts/:id
func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id", "post")
	if !ok {
		return
	}

	var req dto.UpdatePostRequest
	if !bindJSON(c, &req) {
		return
	}

	post, err := h.postService.Update(userID, postID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Post updated", post)
}

// Delete 删除帖子
// DELETE /api/v1/posts/:id
func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := paramID(c, "id", "post")
	if !ok {
		return
	}

	if err := h.postService.Delete(userID, postID); err != nil {
		handleServiceError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Post deleted", nil)
}

// RecentActivity 最近活跃的帖子
// GET /api/v1/activity/recent?limit=
func (h *PostHandler) RecentActivity(c *gin.Context) {
	items, err := h.postService.RecentActivity(queryInt(c, "limit", defaultRecentActivity))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, items)
}

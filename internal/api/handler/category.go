package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

type CategoryHandler struct {
	categoryService *service.CategoryService
	postService     *service.PostService
	defaultPageSize int
}

func NewCategoryHandler(categoryService *service.CategoryService, postService *service.PostService, defaultPageSize int) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		postService:     postService,
		defaultPageSize: defaultPageSize,
	}
}

// List 分类树
// GET /api/v1/categories
func (h *CategoryHandler) List(c *gin.Context) {
	nodes, err := h.categoryService.GetCategories()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, nodes)
}

// Get 分类详情及子分类
// GET /api/v1/categories/:slug
func (h *CategoryHandler) Get(c *gin.Context) {
	node, err := h.categoryService.GetBySlug(c.Param("slug"))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, node)
}

// Posts 分类下的帖子，父分类包含全部子分类
// GET /api/v1/categories/:slug/posts
func (h *CategoryHandler) Posts(c *gin.Context) {
	page, err := h.postService.ListByCategorySlug(
		c.Param("slug"),
		c.Query("search"),
		queryInt(c, "page", 1),
		queryInt(c, "limit", h.defaultPageSize),
	)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, page)
}

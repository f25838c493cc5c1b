package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/model/dto"
	"github.com/qs3c/forum_server/internal/testutil"
)

func setupPostRouter(t *testing.T, user *model.User, app *testApp) *gin.Engine {
	t.Helper()

	posts := NewPostHandler(app.Posts, app.Cfg.Forum.DefaultPageSize)
	categories := NewCategoryHandler(app.Categories, app.Posts, app.Cfg.Forum.DefaultPageSize)

	router := gin.New()
	router.GET("/categories", categories.List)
	router.GET("/categories/:slug", categories.Get)
	router.GET("/categories/:slug/posts", categories.Posts)
	router.GET("/posts", posts.List)
	router.GET("/posts/:id", posts.Get)
	router.GET("/activity/recent", posts.RecentActivity)

	authed := router.Group("")
	if user != nil {
		authed.Use(asUser(user))
	}
	authed.POST("/posts", posts.Create)
	authed.PUT("/posts/:id", posts.Update)
	authed.DELETE("/posts/:id", posts.Delete)
	return router
}

func TestPostHandler_ListPagination(t *testing.T) {
	app := setupApp(t)
	user := testutil.TestUser(t, app.DB)
	cat := testutil.TestCategory(t, app.DB)
	for i := 0; i < 45; i++ {
		testutil.TestPost(t, app.DB, user.ID, cat.ID)
	}
	router := setupPostRouter(t, nil, app)

	w := performRequest(router, "GET", "/posts?page=3&limit=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataMap(t, parseResponse(t, w))
	assert.Equal(t, float64(45), data["total"])
	assert.Equal(t, float64(3), data["total_pages"])
	assert.Len(t, data["items"], 5)

	w = performRequest(router, "GET", "/posts?limit=1000", nil)
	data = dataMap(t, parseResponse(t, w))
	assert.Equal(t, float64(50), data["page_size"])
	assert.Len(t, data["items"], 45)

	w = performRequest(router, "GET", "/posts?page=abc", nil)
	data = dataMap(t, parseResponse(t, w))
	assert.Equal(t, float64(1), data["page"])
	assert.Equal(t, float64(20), data["page_size"])
}

func TestPostHandler_ListFilters(t *testing.T) {
	app := setupApp(t)
	user := testutil.TestUser(t, app.DB)
	parent := testutil.TestCategory(t, app.DB, testutil.WithSlug("help"))
	a := testutil.TestCategory(t, app.DB, testutil.WithParent(parent.ID))
	b := testutil.TestCategory(t, app.DB, testutil.WithParent(parent.ID))
	other := testutil.TestCategory(t, app.DB)

	testutil.TestPost(t, app.DB, user.ID, a.ID, testutil.WithTitle("Install on Linux"))
	testutil.TestPost(t, app.DB, user.ID, b.ID, testutil.WithContent("my LINUX box is broken"))
	testutil.TestPost(t, app.DB, user.ID, other.ID, testutil.WithTitle("Linux elsewhere"))
	router := setupPostRouter(t, nil, app)

	total := func(path string) float64 {
		w := performRequest(router, "GET", path, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		return dataMap(t, parseResponse(t, w))["total"].(float64)
	}

	assert.Equal(t, float64(3), total("/posts"))
	assert.Equal(t, float64(1), total(fmt.Sprintf("/posts?category_id=%d", a.ID)))
	assert.Equal(t, float64(2), total(fmt.Sprintf("/posts?category_ids=%d,%d", a.ID, b.ID)))
	assert.Equal(t, float64(0), total("/posts?category_ids="))
	assert.Equal(t, float64(3), total("/posts?search=linux"))
	assert.Equal(t, float64(2), total("/categories/help/posts?search=linux"))

	w := performRequest(router, "GET", "/posts?category_ids=1,x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = performRequest(router, "GET", "/categories/missing/posts", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCategoryHandler_Tree(t *testing.T) {
	app := setupApp(t)
	parent := testutil.TestCategory(t, app.DB, testutil.WithSlug("general"))
	testutil.TestCategory(t, app.DB, testutil.WithSlug("news"), testutil.WithParent(parent.ID))
	router := setupPostRouter(t, nil, app)

	w := performRequest(router, "GET", "/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	nodes, ok := parseResponse(t, w).Data.([]interface{})
	require.True(t, ok)
	require.Len(t, nodes, 1)
	children := nodes[0].(map[string]interface{})["children"].([]interface{})
	assert.Len(t, children, 1)

	w = performRequest(router, "GET", "/categories/general", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = performRequest(router, "GET", "/categories/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPostHandler_CreateGetUpdateDelete(t *testing.T) {
	app := setupApp(t)
	user := testutil.TestUser(t, app.DB)
	other := testutil.TestUser(t, app.DB)
	cat := testutil.TestCategory(t, app.DB)
	router := setupPostRouter(t, user, app)

	w := performRequest(router, "POST", "/posts", dto.CreatePostRequest{CategoryID: cat.ID, Title: "Hello", Content: "World"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	postID := int64(dataMap(t, parseResponse(t, w))["id"].(float64))

	w = performRequest(router, "POST", "/posts", map[string]interface{}{"category_id": cat.ID, "title": "", "content": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "POST", "/posts", dto.CreatePostRequest{CategoryID: 99999, Title: "t", Content: "c"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(router, "GET", fmt.Sprintf("/posts/%d", postID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := dataMap(t, parseResponse(t, w))
	assert.Equal(t, float64(1), detail["post"].(map[string]interface{})["view_count"])
	assert.Empty(t, detail["replies"])

	title := "Edited"
	w = performRequest(router, "PUT", fmt.Sprintf("/posts/%d", postID), dto.UpdatePostRequest{Title: &title})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Edited", dataMap(t, parseResponse(t, w))["title"])

	otherRouter := setupPostRouter(t, other, app)
	w = performRequest(otherRouter, "DELETE", fmt.Sprintf("/posts/%d", postID), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = performRequest(router, "DELETE", fmt.Sprintf("/posts/%d", postID), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = performRequest(router, "GET", fmt.Sprintf("/posts/%d", postID), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = performRequest(router, "GET", "/posts/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPostHandler_Unauthenticated(t *testing.T) {
	app := setupApp(t)
	router := setupPostRouter(t, nil, app)

	w := performRequest(router, "POST", "/posts", dto.CreatePostRequest{CategoryID: 1, Title: "t", Content: "c"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPostHandler_RecentActivity(t *testing.T) {
	app := setupApp(t)
	user := testutil.TestUser(t, app.DB)
	cat := testutil.TestCategory(t, app.DB)
	for i := 0; i < 3; i++ {
		testutil.TestPost(t, app.DB, user.ID, cat.ID)
	}
	router := setupPostRouter(t, nil, app)

	w := performRequest(router, "GET", "/activity/recent?limit=2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, parseResponse(t, w).Data, 2)
}

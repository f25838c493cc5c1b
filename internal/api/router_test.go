package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/forum_server/config"
	"github.com/qs3c/forum_server/internal/api/handler"
	"github.com/qs3c/forum_server/internal/model"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/pkg/storage"
	"github.com/qs3c/forum_server/internal/pkg/validate"
	"github.com/qs3c/forum_server/internal/service"
	"github.com/qs3c/forum_server/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := validate.RegisterGin(); err != nil {
		panic(err)
	}
}

func setupEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		JWT:    config.JWTConfig{Secret: "router-test-secret", ExpireHours: 1},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"http://localhost:5173"},
			AllowedMethods: []string{"GET", "POST"},
			AllowedHeaders: []string{"Content-Type", "Authorization"},
		},
		Forum:     config.ForumConfig{DefaultPageSize: 20, MaxPostImages: 3},
		RateLimit: config.RateLimitConfig{AuthPerMinute: 60, AuthBurst: 3},
	}

	stores := service.NewStores(db)
	tx := service.NewGormTransactor(db)
	categories := service.NewCategoryService(stores.Categories)
	posts := service.NewPostService(stores, tx, categories, nil, &cfg.Forum)
	uploads := service.NewUploadService(storage.NewMemory("http://cdn.test"), stores.Users, &cfg.Forum)
	auth := service.NewAuthService(stores, tx, nil, nil, cfg)

	handlers := Handlers{
		Auth:     handler.NewAuthHandler(auth, ""),
		Category: handler.NewCategoryHandler(categories, posts, cfg.Forum.DefaultPageSize),
		Post:     handler.NewPostHandler(posts, cfg.Forum.DefaultPageSize),
		Reply:    handler.NewReplyHandler(service.NewReplyService(stores, tx, nil)),
		User:     handler.NewUserHandler(service.NewUserService(stores.Users, posts), uploads),
		Upload:   handler.NewUploadHandler(uploads),
		Admin:    handler.NewAdminHandler(service.NewModerationService(stores, tx), cfg.Forum.DefaultPageSize),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(handlers, auth, logger, cfg).Setup(), db
}

func do(t *testing.T, engine http.Handler, method, path, token string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp response.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

func login(t *testing.T, engine http.Handler, username string) string {
	t.Helper()
	w, resp := do(t, engine, "POST", "/api/v1/login", "", map[string]string{"username": username, "password": testutil.TestPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return resp.Data.(map[string]interface{})["session_token"].(string)
}

func TestRouter_NotFoundAndMethodNotAllowed(t *testing.T) {
	engine, _ := setupEngine(t)

	w, resp := do(t, engine, "GET", "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.CodeResourceNotFound, resp.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w, resp = do(t, engine, "PATCH", "/api/v1/categories", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, response.CodeMethodNotAllowed, resp.Code)
}

func TestRouter_Preflight(t *testing.T) {
	engine, _ := setupEngine(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/posts", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_PostAndReplyFlow(t *testing.T) {
	engine, db := setupEngine(t)
	testutil.TestUser(t, db, testutil.WithUsername("writer"))
	parent := testutil.TestCategory(t, db, testutil.WithSlug("general"))
	leaf := testutil.TestCategory(t, db, testutil.WithSlug("news"), testutil.WithParent(parent.ID))

	token := login(t, engine, "writer")

	w, _ := do(t, engine, "POST", "/api/v1/posts", "", map[string]interface{}{"category_id": leaf.ID, "title": "t", "content": "c"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, engine, "POST", "/api/v1/posts", token, map[string]interface{}{"category_id": parent.ID, "title": "t", "content": "c"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp := do(t, engine, "POST", "/api/v1/posts", token, map[string]interface{}{"category_id": leaf.ID, "title": "Hello", "content": "World"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	postID := int64(resp.Data.(map[string]interface{})["id"].(float64))

	w, resp = do(t, engine, "POST", "/api/v1/replies", token, map[string]interface{}{"post_id": postID, "content": "root"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	rootID := int64(resp.Data.(map[string]interface{})["id"].(float64))

	w, _ = do(t, engine, "POST", "/api/v1/replies", token, map[string]interface{}{"post_id": postID, "content": "child", "parent_reply_id": rootID})
	require.Equal(t, http.StatusCreated, w.Code)

	w, resp = do(t, engine, "GET", fmt.Sprintf("/api/v1/posts/%d", postID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := resp.Data.(map[string]interface{})
	assert.Equal(t, float64(2), detail["post"].(map[string]interface{})["reply_count"])
	roots := detail["replies"].([]interface{})
	require.Len(t, roots, 1)
	assert.Len(t, roots[0].(map[string]interface{})["children"], 1)

	w, resp = do(t, engine, "GET", "/api/v1/categories/general/posts", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), resp.Data.(map[string]interface{})["total"])

	// 锁帖后不能回复
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", postID).Update("is_locked", true).Error)
	w, resp = do(t, engine, "POST", "/api/v1/replies", token, map[string]interface{}{"post_id": postID, "content": "late"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "This post is locked", resp.Message)

	var n int64
	require.NoError(t, db.Model(&model.Reply{}).Where("post_id = ?", postID).Count(&n).Error)
	assert.Equal(t, int64(2), n)
}

func TestRouter_AdminRequiresModerator(t *testing.T) {
	engine, db := setupEngine(t)
	testutil.TestUser(t, db, testutil.WithUsername("plain"))
	testutil.TestUser(t, db, testutil.WithUsername("mod"), testutil.WithModerator())
	target := testutil.TestUser(t, db)

	w, _ := do(t, engine, "GET", "/api/v1/admin/stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = do(t, engine, "GET", "/api/v1/admin/stats", login(t, engine, "plain"), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	modToken := login(t, engine, "mod")
	w, _ = do(t, engine, "POST", fmt.Sprintf("/api/v1/admin/users/%d/ban", target.ID), modToken, map[string]string{"reason": "spam"})
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = do(t, engine, "PUT", fmt.Sprintf("/api/v1/admin/users/%d/moderator", target.ID), modToken, map[string]bool{"is_moderator": true})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouter_MeAndLoginRateLimit(t *testing.T) {
	engine, _ := setupEngine(t)

	w, resp := do(t, engine, "GET", "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, resp.Data.(map[string]interface{})["authenticated"])

	// burst 为 3，之后的请求被限流
	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		w, _ := do(t, engine, "POST", "/api/v1/login", "", map[string]string{"username": "ghost", "password": "password123"})
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

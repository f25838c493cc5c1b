package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/forum_server/config"
	"github.com/qs3c/forum_server/internal/api/middleware"
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

// testApp 基于内存库的完整服务集合
type testApp struct {
	DB         *gorm.DB
	Cfg        *config.Config
	Store      *storage.Memory
	Auth       *service.AuthService
	Categories *service.CategoryService
	Posts      *service.PostService
	Replies    *service.ReplyService
	Moderation *service.ModerationService
	Users      *service.UserService
	Uploads    *service.UploadService
}

func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:      "test-secret-key",
			ExpireHours: 24,
		},
		Forum: config.ForumConfig{
			DefaultPageSize: 20,
			MaxPageSize:     50,
			MaxPostImages:   3,
			MaxUploadSize:   1 << 20,
			AvatarSize:      32,
		},
	}

	stores := service.NewStores(db)
	tx := service.NewGormTransactor(db)
	store := storage.NewMemory("http://cdn.test")
	categories := service.NewCategoryService(stores.Categories)
	posts := service.NewPostService(stores, tx, categories, nil, &cfg.Forum)

	return &testApp{
		DB:         db,
		Cfg:        cfg,
		Store:      store,
		Auth:       service.NewAuthService(stores, tx, nil, nil, cfg),
		Categories: categories,
		Posts:      posts,
		Replies:    service.NewReplyService(stores, tx, nil),
		Moderation: service.NewModerationService(stores, tx),
		Users:      service.NewUserService(stores.Users, posts),
		Uploads:    service.NewUploadService(store, stores.Users, &cfg.Forum),
	}
}

// asUser 模拟已通过认证的请求
func asUser(user *model.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, user.ID)
		c.Set(middleware.UserKey, user)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		jsonBytes, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(jsonBytes)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err)
	return resp
}

// dataMap 把 data 字段转为 map
func dataMap(t *testing.T, resp response.Response) map[string]interface{} {
	t.Helper()
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", resp.Data)
	return data
}

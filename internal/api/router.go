package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/forum_server/config"
	"github.com/qs3c/forum_server/internal/api/handler"
	"github.com/qs3c/forum_server/internal/api/middleware"
	"github.com/qs3c/forum_server/internal/pkg/response"
	"github.com/qs3c/forum_server/internal/service"
)

// Handlers 路由用到的全部 handler
type Handlers struct {
	Auth     *handler.AuthHandler
	Category *handler.CategoryHandler
	Post     *handler.PostHandler
	Reply    *handler.ReplyHandler
	User     *handler.UserHandler
	Upload   *handler.UploadHandler
	Admin    *handler.AdminHandler
}

type Router struct {
	handlers Handlers
	identity service.IdentityProvider
	limiter  *middleware.IPRateLimiter
	logger   *slog.Logger
	cfg      *config.Config
}

func NewRouter(handlers Handlers, identity service.IdentityProvider, logger *slog.Logger, cfg *config.Config) *Router {
	return &Router{
		handlers: handlers,
		identity: identity,
		limiter:  middleware.NewIPRateLimiter(cfg.RateLimit.AuthPerMinute, cfg.RateLimit.AuthBurst),
		logger:   logger,
		cfg:      cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(middleware.RequestLogger(r.logger))
	engine.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		slog.Error("panic recovered", "request_id", middleware.GetRequestID(c), "error", err)
		response.ServerError(c, "")
		c.Abort()
	}))
	engine.Use(middleware.CORS(r.cfg.CORS))

	engine.NoRoute(func(c *gin.Context) {
		response.NotFoundError(c, "")
	})
	engine.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowedError(c)
	})

	h := r.handlers
	auth := middleware.Auth(r.identity)
	optionalAuth := middleware.OptionalAuth(r.identity)
	rateLimit := middleware.RateLimit(r.limiter)

	api := engine.Group("/api/v1")
	{
		// 公开接口 - 认证
		api.POST("/register", rateLimit, h.Auth.Register)
		api.POST("/login", rateLimit, h.Auth.Login)
		api.POST("/logout", h.Auth.Logout)
		api.GET("/me", optionalAuth, h.User.Me)
		api.GET("/auth/github", h.Auth.GithubAuth)
		api.GET("/auth/github/callback", h.Auth.GithubCallback)

		// 公开接口 - 分类与帖子
		api.GET("/categories", h.Category.List)
		api.GET("/categories/:slug", h.Category.Get)
		api.GET("/categories/:slug/posts", h.Category.Posts)
		api.GET("/posts", h.Post.List)
		api.GET("/posts/:id", h.Post.Get)
		api.GET("/replies", h.Reply.List)
		api.GET("/activity/recent", h.Post.RecentActivity)
		api.GET("/users/:id", h.User.PublicProfile)

		// 需要认证的接口
		authenticated := api.Group("")
		authenticated.Use(auth)
		{
			authenticated.POST("/posts", h.Post.Create)
			authenticated.PUT("/posts/:id", h.Post.Update)
			authenticated.DELETE("/posts/:id", h.Post.Delete)

			authenticated.POST("/replies", h.Reply.Create)
			authenticated.PUT("/replies/:id", h.Reply.Update)
			authenticated.DELETE("/replies/:id", h.Reply.Delete)

			user := authenticated.Group("/user")
			{
				user.GET("/profile", h.User.GetProfile)
				user.PUT("/profile", h.User.UpdateProfile)
				user.POST("/avatar", h.User.UploadAvatar)
			}

			authenticated.POST("/uploads/images", h.Upload.Images)
		}

		// 后台：版主及以上
		admin := api.Group("/admin")
		admin.Use(auth, middleware.RequireModerator())
		{
			admin.GET("/users", h.Admin.ListUsers)
			admin.GET("/actions", h.Admin.ListActions)
			admin.GET("/stats", h.Admin.Stats)
			admin.POST("/users/:id/ban", h.Admin.Ban)
			admin.POST("/users/:id/unban", h.Admin.Unban)
			admin.PUT("/users/:id/moderator", h.Admin.SetModerator)
			admin.DELETE("/posts/:id", h.Admin.DeletePost)
			admin.DELETE("/replies/:id", h.Admin.DeleteReply)
		}
	}

	return engine
}

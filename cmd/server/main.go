package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qs3c/forum_server/config"
	"github.com/qs3c/forum_server/internal/api"
	"github.com/qs3c/forum_server/internal/api/handler"
	"github.com/qs3c/forum_server/internal/database"
	"github.com/qs3c/forum_server/internal/pkg/cron"
	"github.com/qs3c/forum_server/internal/pkg/logger"
	"github.com/qs3c/forum_server/internal/pkg/oauth"
	"github.com/qs3c/forum_server/internal/pkg/storage"
	"github.com/qs3c/forum_server/internal/pkg/throttle"
	"github.com/qs3c/forum_server/internal/pkg/validate"
	"github.com/qs3c/forum_server/internal/service"
)

func main() {
	// 加载配置
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.Init(cfg.Log, cfg.Server.Mode)
	if err := validate.RegisterGin(); err != nil {
		fatal("failed to register validators", err)
	}

	// 初始化数据库
	db, err := database.Open(&cfg.Database, cfg.Server.Mode != "release")
	if err != nil {
		fatal("failed to connect database", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			fatal("failed to migrate database", err)
		}
	}

	// 初始化 Redis，只用于限流和 OAuth state
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		fatal("failed to connect redis", err)
	}
	defer rdb.Close()
	log.Info("redis connected", "addr", fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port))

	// 初始化对象存储
	store, err := storage.New(&cfg.Storage)
	if err != nil {
		fatal("failed to init storage", err)
	}

	postCooldown := throttle.NewCooldown(rdb, "post", cfg.Forum.PostCooldown)
	replyCooldown := throttle.NewCooldown(rdb, "reply", cfg.Forum.ReplyCooldown)
	github := oauth.NewGithubOAuth(cfg.OAuth.Github)
	states := oauth.NewStateStore(rdb)

	// 初始化 Service
	stores := service.NewStores(db)
	tx := service.NewGormTransactor(db)
	categoryService := service.NewCategoryService(stores.Categories)
	postService := service.NewPostService(stores, tx, categoryService, postCooldown, &cfg.Forum)
	replyService := service.NewReplyService(stores, tx, replyCooldown)
	moderationService := service.NewModerationService(stores, tx)
	authService := service.NewAuthService(stores, tx, github, states, cfg)
	userService := service.NewUserService(stores.Users, postService)
	uploadService := service.NewUploadService(store, stores.Users, &cfg.Forum)

	// 初始化 Handler
	handlers := api.Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg.OAuth.Github.FrontendURL),
		Category: handler.NewCategoryHandler(categoryService, postService, cfg.Forum.DefaultPageSize),
		Post:     handler.NewPostHandler(postService, cfg.Forum.DefaultPageSize),
		Reply:    handler.NewReplyHandler(replyService),
		User:     handler.NewUserHandler(userService, uploadService),
		Upload:   handler.NewUploadHandler(uploadService),
		Admin:    handler.NewAdminHandler(moderationService, cfg.Forum.DefaultPageSize),
	}
	// 后台清理过期会话
	if cfg.Server.SessionCleanupInterval > 0 {
		sweeper := cron.NewService(authService, cfg.Server.SessionCleanupInterval)
		sweeper.Start()
		defer sweeper.Stop()
	}

	engine := api.NewRouter(handlers, authService, log, cfg).Setup()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr, "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.Info("shutting down server")
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info("server exited")
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

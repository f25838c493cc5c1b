package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/qs3c/forum_server/config"
	"github.com/qs3c/forum_server/internal/database"
	"github.com/qs3c/forum_server/internal/pkg/logger"
	"github.com/qs3c/forum_server/internal/service"
)

var (
	dryRun = flag.Bool("dry-run", true, "Dry run mode, only count expired sessions")
)

func main() {
	flag.Parse()

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
	log.Info("starting cleanup task", "dry_run", *dryRun)

	// 连接数据库
	db, err := database.Open(&cfg.Database, false)
	if err != nil {
		log.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	}()

	stores := service.NewStores(db)
	authService := service.NewAuthService(stores, service.NewGormTransactor(db), nil, nil, cfg)

	start := time.Now()
	n, err := authService.PurgeExpiredSessions(*dryRun)
	if err != nil {
		log.Error("failed to purge expired sessions", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		log.Info("expired sessions found (dry run, nothing deleted)", "count", n, "elapsed", time.Since(start))
		log.Info("run with -dry-run=false to delete them")
		return
	}
	log.Info("expired sessions deleted", "count", n, "elapsed", time.Since(start))
}

// Package logger 构建全局 slog 日志：开发模式彩色文本，生产模式 JSON。
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"

	"github.com/qs3c/forum_server/config"
)

// New 根据配置创建 logger，mode 为 server.mode
func New(cfg config.LogConfig, mode string) *slog.Logger {
	return newWithWriter(os.Stdout, cfg, mode)
}

// Init 创建 logger 并设为 slog 默认实例
func Init(cfg config.LogConfig, mode string) *slog.Logger {
	l := New(cfg, mode)
	slog.SetDefault(l)
	return l
}

func newWithWriter(w io.Writer, cfg config.LogConfig, mode string) *slog.Logger {
	level := ParseLevel(cfg.Level)

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = "json"
		if mode != "release" {
			format = "text"
		}
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	} else {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    mode == "release",
		})
	}
	return slog.New(handler)
}

// ParseLevel 未知值按 info 处理
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

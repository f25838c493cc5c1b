// Package throttle 基于 Redis SET NX 的发帖冷却控制。
package throttle

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "forum:cooldown:"

// Cooldown 同一 key 在 window 内只允许一次
type Cooldown struct {
	rdb    *redis.Client
	scope  string
	window time.Duration
}

// NewCooldown rdb 为 nil 或 window <= 0 时不做限制
func NewCooldown(rdb *redis.Client, scope string, window time.Duration) *Cooldown {
	return &Cooldown{rdb: rdb, scope: scope, window: window}
}

// Allow 占用冷却窗口，窗口内重复调用返回 false
func (c *Cooldown) Allow(ctx context.Context, key string) (bool, error) {
	if c == nil || c.rdb == nil || c.window <= 0 {
		return true, nil
	}
	ok, err := c.rdb.SetNX(ctx, c.key(key), 1, c.window).Result()
	if err != nil {
		return false, fmt.Errorf("cooldown %s: %w", c.scope, err)
	}
	return ok, nil
}

// Reset 释放冷却窗口，写入失败时调用
func (c *Cooldown) Reset(ctx context.Context, key string) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Del(ctx, c.key(key)).Err()
}

func (c *Cooldown) key(key string) string {
	return keyPrefix + c.scope + ":" + key
}

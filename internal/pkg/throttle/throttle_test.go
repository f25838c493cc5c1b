package throttle

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestCooldown_Allow(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	c := NewCooldown(rdb, "post", 30*time.Second)
	ctx := context.Background()

	ok, err := c.Allow(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Allow(ctx, "1")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Allow(ctx, "2")
	require.NoError(t, err)
	assert.True(t, ok, "other users are independent")

	mr.FastForward(31 * time.Second)
	ok, err = c.Allow(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCooldown_Reset(t *testing.T) {
	_, rdb := setupTestRedis(t)
	c := NewCooldown(rdb, "reply", time.Minute)
	ctx := context.Background()

	_, _ = c.Allow(ctx, "9")
	require.NoError(t, c.Reset(ctx, "9"))

	ok, err := c.Allow(ctx, "9")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCooldown_Disabled(t *testing.T) {
	ctx := context.Background()

	var nilCooldown *Cooldown
	ok, err := nilCooldown.Allow(ctx, "1")
	require.NoError(t, err)
	assert.True(t, ok)

	_, rdb := setupTestRedis(t)
	c := NewCooldown(rdb, "post", 0)
	for i := 0; i < 3; i++ {
		ok, err := c.Allow(ctx, "1")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestCooldown_RedisDown(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	c := NewCooldown(rdb, "post", time.Minute)
	mr.Close()

	_, err := c.Allow(context.Background(), "1")
	assert.Error(t, err)
}

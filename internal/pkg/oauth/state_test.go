package oauth

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
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestStateStore_IssueConsume(t *testing.T) {
	_, rdb := setupTestRedis(t)
	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.Issue(ctx, "http://localhost:5173/forum")
	require.NoError(t, err)
	assert.Len(t, state, 64)

	returnTo, err := store.Consume(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173/forum", returnTo)

	_, err = store.Consume(ctx, state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateStore_Expired(t *testing.T) {
	mr, rdb := setupTestRedis(t)
	store := NewStateStore(rdb)
	ctx := context.Background()

	state, err := store.Issue(ctx, "")
	require.NoError(t, err)

	mr.FastForward(stateTTL + time.Second)

	_, err = store.Consume(ctx, state)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateStore_EmptyOrUnknown(t *testing.T) {
	_, rdb := setupTestRedis(t)
	store := NewStateStore(rdb)
	ctx := context.Background()

	_, err := store.Consume(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = store.Consume(ctx, "nope")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateStore_Unique(t *testing.T) {
	_, rdb := setupTestRedis(t)
	store := NewStateStore(rdb)
	ctx := context.Background()

	states := make(map[string]bool)
	for i := 0; i < 50; i++ {
		state, err := store.Issue(ctx, "")
		require.NoError(t, err)
		assert.False(t, states[state], "duplicate state generated")
		states[state] = true
	}
}

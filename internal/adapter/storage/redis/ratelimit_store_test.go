package redis_test

import (
	"context"
	"testing"
	"time"

	"pago-gateway/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitStore_Allow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewRateLimitStore(client)
	ctx := context.Background()

	t.Run("allows requests within limit", func(t *testing.T) {
		for i := int64(1); i <= 3; i++ {
			result, err := store.Allow(ctx, "verify:1.2.3.4", 3, time.Hour)
			require.NoError(t, err)
			assert.True(t, result.Allowed, "request %d should be allowed", i)
			assert.Equal(t, int64(3), result.Limit)
			assert.Equal(t, 3-i, result.Remaining)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		result, err := store.Allow(ctx, "verify:1.2.3.4", 3, time.Hour)
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, int64(0), result.Remaining)
	})

	t.Run("different keys are independent", func(t *testing.T) {
		result, err := store.Allow(ctx, "checkout:1.2.3.4", 5, time.Hour)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, int64(4), result.Remaining)
	})

	t.Run("counter keys carry a ttl", func(t *testing.T) {
		_, err := store.Allow(ctx, "session:5.6.7.8", 1, time.Minute)
		require.NoError(t, err)
		for _, k := range mr.Keys() {
			assert.Greater(t, mr.TTL(k), time.Duration(0), k)
		}
	})

	t.Run("sets correct ResetAt", func(t *testing.T) {
		result, err := store.Allow(ctx, "requests:agent-1", 10, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Greater(t, result.ResetAt, time.Now().Unix()-1)
	})
}

func TestRateLimitStore_WindowExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := redis.NewRateLimitStore(client)
	ctx := context.Background()
	key := "session:9.9.9.9"

	_, err := store.Allow(ctx, key, 1, time.Hour)
	require.NoError(t, err)
	result, err := store.Allow(ctx, key, 1, time.Hour)
	require.NoError(t, err)
	assert.False(t, result.Allowed)

	// The counter lives at most one window plus a second.
	mr.FastForward(time.Hour + 2*time.Second)
	assert.Empty(t, mr.Keys())
}

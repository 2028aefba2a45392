package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set FREQDECK_TEST_REDIS_ADDR (e.g. localhost:6379) to run against a real server
func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("FREQDECK_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("FREQDECK_TEST_REDIS_ADDR not set")
	}

	client, err := DialRedis(context.Background(), addr, "", 0)
	require.NoError(t, err)

	prefix := fmt.Sprintf("freqdeck-test-%d", time.Now().UnixNano())
	store := NewRedisStore(client, prefix, nil)
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := client.Keys(ctx, prefix+":*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		store.Close()
	})
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	pair := Pair{From: "hr", To: "es"}

	_, ok, err := store.Get(ctx, pair, "dan")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Put(ctx, pair, "dan", "día"))
	require.NoError(t, store.Put(ctx, pair, "dan", "jornada"))

	got, ok, err := store.Get(ctx, pair, "dan")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "día", got)

	_, ok, err = store.Get(ctx, Pair{From: "es", To: "hr"}, "día")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStoreKey(t *testing.T) {
	store := NewRedisStore(nil, "", nil)
	assert.Equal(t, "freqdeck:translations:hr_es", store.Key(Pair{From: "hr", To: "es"}))
}

func TestDialRedisUnreachable(t *testing.T) {
	_, err := DialRedis(context.Background(), "127.0.0.1:1", "", 0)
	assert.ErrorIs(t, err, ErrCacheIO)
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*PageCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewFromClient(client, "test:"), mr
}

func TestPageCacheRoundTrip(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	_, found, err := cache.Get(ctx, "villa:kathu")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, "villa:kathu", []byte(`{"slug":"kathu"}`), time.Hour))
	payload, found, err := cache.Get(ctx, "villa:kathu")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"slug":"kathu"}`, string(payload))
	assert.True(t, mr.Exists("test:villa:kathu"))
	assert.Equal(t, time.Hour, mr.TTL("test:villa:kathu"))

	mr.FastForward(2 * time.Hour)
	_, found, err = cache.Get(ctx, "villa:kathu")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestPageCachePurge(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	for _, key := range []string{"villa:a", "villa:b", "scoop:a", "home"} {
		require.NoError(t, cache.Set(ctx, key, []byte("{}"), time.Hour))
	}
	require.NoError(t, mr.Set("other:villa:a", "keep"))

	removed, err := cache.Purge(ctx, "villa:")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.False(t, mr.Exists("test:villa:a"))
	assert.True(t, mr.Exists("test:scoop:a"))

	removed, err = cache.Purge(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.True(t, mr.Exists("other:villa:a"))
}

func TestPageCacheErrorsWhenDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	_, _, err := cache.Get(context.Background(), "home")
	assert.Error(t, err)
	assert.Error(t, cache.Ping(context.Background()))
}

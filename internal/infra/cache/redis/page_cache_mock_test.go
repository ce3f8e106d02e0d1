package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCacheSurfacesServerErrors(t *testing.T) {
	client, mock := redismock.NewClientMock()
	cache := NewFromClient(client, "vf:")
	ctx := context.Background()

	mock.ExpectGet("vf:scoop:phuket").SetErr(errors.New("LOADING dataset"))
	_, found, err := cache.Get(ctx, "scoop:phuket")
	require.Error(t, err)
	assert.False(t, found)

	mock.ExpectSet("vf:home", []byte("{}"), time.Minute).SetErr(errors.New("OOM"))
	assert.Error(t, cache.Set(ctx, "home", []byte("{}"), time.Minute))

	mock.ExpectPing().SetErr(errors.New("dial tcp: refused"))
	assert.ErrorContains(t, cache.Ping(ctx), "redis ping failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}

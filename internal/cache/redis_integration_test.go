//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/IgnacioIbaigorria/gestion-app-sub000/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	ctx := context.Background()
	c, err := tcRedis.RunContainer(ctx, testcontainers.WithImage("redis:7-alpine"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	url, err := c.ConnectionString(ctx)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(ctx, url)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisBackend(t *testing.T) {
	ctx := context.Background()
	rdb := startRedis(t)
	store := New(NewRedisBackend(rdb), time.Minute)
	assert.Equal(t, "redis", store.Backend())
	require.NoError(t, store.Ping(ctx))

	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{Name: "Drinks"}}, nil
	}
	for i := 0; i < 2; i++ {
		got, err := Fetch(ctx, store, KeyCategories, load)
		require.NoError(t, err)
		assert.Equal(t, "Drinks", got[0].Name)
	}
	assert.Equal(t, 1, calls)

	ttl, err := rdb.TTL(ctx, defaultNamespace+KeyCategories).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	store.Invalidate(ctx, KeyCategories)
	_, err = Fetch(ctx, store, KeyCategories, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRedisPurgeKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	rdb := startRedis(t)
	store := New(NewRedisBackend(rdb), time.Minute)

	require.NoError(t, rdb.LPush(ctx, "jobs:reconcile", "x").Err())
	for i := 0; i < 450; i++ {
		store.Set(ctx, KeyTags+":"+string(rune('a'+i%26))+string(rune('a'+i/26)), item{Name: "t"})
	}
	store.InvalidateAll(ctx)

	keys, err := rdb.Keys(ctx, defaultNamespace+"*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
	n, err := rdb.LLen(ctx, "jobs:reconcile").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

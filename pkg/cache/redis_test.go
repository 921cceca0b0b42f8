package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiva/tripwise/config"
	"github.com/shiva/tripwise/internal/model"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisDistanceCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisDistanceCache(client, ttl, "v1"), mr
}

func TestRedisDistanceCache_SetGet(t *testing.T) {
	c, mr := newTestRedisCache(t, 10*time.Minute)
	ctx := context.Background()

	want := model.Resolution{DistanceKm: 1739.4, Source: model.SourceGreatCircle}
	require.NoError(t, c.Set(ctx, "bangalore|delhi", want))

	got, ok, err := c.Get(ctx, "bangalore|delhi")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)

	assert.True(t, mr.Exists("distance:v1:bangalore|delhi"))
	assert.Equal(t, 10*time.Minute, mr.TTL("distance:v1:bangalore|delhi"))
	assert.Equal(t, "redis", c.Name())
}

func TestRedisDistanceCache_Miss(t *testing.T) {
	c, _ := newTestRedisCache(t, time.Minute)

	_, ok, err := c.Get(context.Background(), "goa|pune")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDistanceCache_Expiry(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "goa|pune", model.Resolution{DistanceKm: 370, Source: model.SourceGreatCircle}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "goa|pune")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisDistanceCache_CorruptEntryIsDropped(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	require.NoError(t, mr.Set("distance:v1:a|b", "{not json"))

	_, ok, err := c.Get(context.Background(), "a|b")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("distance:v1:a|b"))
}

func TestRedisDistanceCache_NamespacesAreIsolated(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	old := NewRedisDistanceCache(client, time.Minute, "catalog-a")
	current := NewRedisDistanceCache(client, time.Minute, "catalog-b")

	require.NoError(t, old.Set(ctx, "delhi|mumbai", model.Resolution{DistanceKm: 1415, Source: model.SourceTable}))

	_, ok, err := current.Get(ctx, "delhi|mumbai")
	require.NoError(t, err)
	assert.False(t, ok, "entry written under another catalog must not be read")

	_, ok, err = old.Get(ctx, "delhi|mumbai")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisDistanceCache_ServerDown(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	mr.Close()

	ctx := context.Background()
	_, _, err := c.Get(ctx, "delhi|mumbai")
	assert.Error(t, err)
	assert.Error(t, c.Set(ctx, "delhi|mumbai", model.Resolution{DistanceKm: 1415, Source: model.SourceTable}))
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Host: mr.Host(), Port: port, PoolSize: 2})
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, HealthCheck(context.Background(), client))

	mr.Close()
	assert.Error(t, HealthCheck(context.Background(), client))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	mr.Close()

	_, err = NewRedisClient(context.Background(), config.RedisConfig{Host: "127.0.0.1", Port: port})
	assert.Error(t, err)
}

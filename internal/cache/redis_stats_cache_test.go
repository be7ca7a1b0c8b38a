package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/grievance-service/internal/domain"
)

func newRedisCache(t *testing.T) (*RedisStatsCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStatsCache(client, "test", time.Minute), mr
}

func TestRedisStatsCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	gen, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Zero(t, gen)

	_, ok, err := c.Load(ctx, gen)
	require.NoError(t, err)
	assert.False(t, ok)

	stats := domain.NewStatistics()
	stats.Total = 2
	stats.ByPriority[domain.PriorityHigh] = 2
	stats.RecentTrend["2024-03-15"] = 2
	require.NoError(t, c.Save(ctx, gen, stats))
	assert.True(t, mr.Exists("test:stats:0"))

	got, ok, err := c.Load(ctx, gen)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 2, got.ByPriority[domain.PriorityHigh])
	assert.Equal(t, 2, got.RecentTrend["2024-03-15"])

	require.NoError(t, c.Invalidate(ctx))
	next, err := c.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)

	_, ok, err = c.Load(ctx, next)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStatsCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	require.NoError(t, c.Save(ctx, 0, domain.NewStatistics()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Load(ctx, 0)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStatsCacheCorruptPayload(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	require.NoError(t, mr.Set("test:stats:0", "not-json"))
	_, _, err := c.Load(ctx, 0)
	assert.Error(t, err)
}

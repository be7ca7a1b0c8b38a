package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicdesk/grievance-service/internal/domain"
)

func TestMemoryStatsCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatsCache()

	gen, err := c.Generation(ctx)
	require.NoError(t, err)

	_, ok, err := c.Load(ctx, gen)
	require.NoError(t, err)
	assert.False(t, ok)

	stats := domain.NewStatistics()
	stats.Total = 3
	require.NoError(t, c.Save(ctx, gen, stats))

	got, ok, err := c.Load(ctx, gen)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Total)

	require.NoError(t, c.Invalidate(ctx))
	_, ok, _ = c.Load(ctx, gen)
	assert.False(t, ok)

	next, _ := c.Generation(ctx)
	assert.Equal(t, gen+1, next)
}

func TestMemoryStatsCacheDropsStaleSave(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryStatsCache()

	gen, _ := c.Generation(ctx)
	// a write lands while the aggregate is being computed
	require.NoError(t, c.Invalidate(ctx))

	stale := domain.NewStatistics()
	stale.Total = 1
	require.NoError(t, c.Save(ctx, gen, stale))

	current, _ := c.Generation(ctx)
	_, ok, _ := c.Load(ctx, current)
	assert.False(t, ok)
	_, ok, _ = c.Load(ctx, gen)
	assert.False(t, ok)
}

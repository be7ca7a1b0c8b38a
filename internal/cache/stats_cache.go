package cache

import (
	"context"
	"sync"

	"github.com/civicdesk/grievance-service/internal/domain"
)

// StatsCache memoizes the statistics aggregate per generation. Every write to
// the grievance store bumps the generation, so a value computed against an
// older generation is never served once a newer write has been observed.
type StatsCache interface {
	Generation(ctx context.Context) (uint64, error)
	Load(ctx context.Context, gen uint64) (*domain.Statistics, bool, error)
	Save(ctx context.Context, gen uint64, stats *domain.Statistics) error
	Invalidate(ctx context.Context) error
}

// MemoryStatsCache keeps the aggregate in process memory.
type MemoryStatsCache struct {
	mu       sync.RWMutex
	gen      uint64
	stats    *domain.Statistics
	statsGen uint64
}

// NewMemoryStatsCache returns an empty in-process cache.
func NewMemoryStatsCache() *MemoryStatsCache {
	return &MemoryStatsCache{}
}

func (c *MemoryStatsCache) Generation(context.Context) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen, nil
}

func (c *MemoryStatsCache) Load(_ context.Context, gen uint64) (*domain.Statistics, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.stats == nil || c.statsGen != gen || c.gen != gen {
		return nil, false, nil
	}
	return c.stats, true, nil
}

// Save publishes stats only if no invalidation happened since gen was read.
func (c *MemoryStatsCache) Save(_ context.Context, gen uint64, stats *domain.Statistics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.stats = stats
	c.statsGen = gen
	return nil
}

func (c *MemoryStatsCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.stats = nil
	return nil
}

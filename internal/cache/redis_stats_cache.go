package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/civicdesk/grievance-service/internal/domain"
)

const defaultKeyPrefix = "grievance"

// RedisStatsCache shares the aggregate between service instances. The
// generation lives in a counter key; stats are stored per generation and
// expire after ttl.
type RedisStatsCache struct {
	client redis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewRedisStatsCache wires the cache to a redis client.
func NewRedisStatsCache(client redis.Cmdable, prefix string, ttl time.Duration) *RedisStatsCache {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisStatsCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisStatsCache) generationKey() string {
	return c.prefix + ":stats:generation"
}

func (c *RedisStatsCache) statsKey(gen uint64) string {
	return c.prefix + ":stats:" + strconv.FormatUint(gen, 10)
}

func (c *RedisStatsCache) Generation(ctx context.Context) (uint64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read stats generation: %w", err)
	}
	return gen, nil
}

func (c *RedisStatsCache) Load(ctx context.Context, gen uint64) (*domain.Statistics, bool, error) {
	raw, err := c.client.Get(ctx, c.statsKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached stats: %w", err)
	}

	stats := domain.NewStatistics()
	if err := json.Unmarshal(raw, stats); err != nil {
		return nil, false, fmt.Errorf("decode cached stats: %w", err)
	}
	return stats, true, nil
}

// Save stores stats under gen. A stale gen is harmless: readers only look up
// the current generation's key.
func (c *RedisStatsCache) Save(ctx context.Context, gen uint64, stats *domain.Statistics) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	return c.client.Set(ctx, c.statsKey(gen), raw, c.ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, c.generationKey()).Err()
}

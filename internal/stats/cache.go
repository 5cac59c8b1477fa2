package stats

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// CacheKey is the key the statistic is stored under
const CacheKey = "MOVES_REMAINING"

// MemoryCache keeps the statistic in process memory
type MemoryCache struct {
	mu    sync.RWMutex
	value string
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{}
}

func (c *MemoryCache) Get(ctx context.Context) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value, nil
}

func (c *MemoryCache) Set(ctx context.Context, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	return nil
}

// RedisCache shares the statistic between service instances
type RedisCache struct {
	rdb *redis.Client
	key string
}

// NewRedisCache stores the statistic under CacheKey
func NewRedisCache(rdb *redis.Client) *RedisCache {
	return &RedisCache{rdb: rdb, key: CacheKey}
}

func (c *RedisCache) Get(ctx context.Context) (string, error) {
	v, err := c.rdb.Get(ctx, c.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return v, err
}

// Set stores value without expiry; it is overwritten by the next refresh
func (c *RedisCache) Set(ctx context.Context, value string) error {
	return c.rdb.Set(ctx, c.key, value, 0).Err()
}

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"urlshortener/internal/types"
)

const keyPrefix = "url:"

func key(shortCode string) string {
	return keyPrefix + shortCode
}

// Cache is the Redis-backed mapping cache.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache builds a client with short timeouts so an unreachable server
// degrades requests to cache misses instead of stalling them. It does not dial;
// go-redis connects on first use and redials after failures.
func NewRedisCache(addr, password string, db int, ttl time.Duration) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		MaxRetries:   1,
	})
	return NewCache(rdb, ttl)
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context, shortCode string) (*types.Mapping, error) {
	data, err := c.rdb.Get(ctx, key(shortCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, types.ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w: %w", shortCode, types.ErrCacheUnavailable, err)
	}

	var m types.Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w: %w", shortCode, types.ErrCacheUnavailable, err)
	}
	return &m, nil
}

func (c *Cache) Set(ctx context.Context, shortCode string, m *types.Mapping) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", shortCode, err)
	}
	if err := c.rdb.Set(ctx, key(shortCode), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w: %w", shortCode, types.ErrCacheUnavailable, err)
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/allegro/bigcache"

	"urlshortener/internal/types"
)

// LocalCache keeps mappings in process memory. Suitable for a single node.
type LocalCache struct {
	bc *bigcache.BigCache
}

func NewLocalCache(lifeWindow time.Duration) (*LocalCache, error) {
	if lifeWindow <= 0 {
		lifeWindow = 24 * time.Hour
	}
	bc, err := bigcache.NewBigCache(bigcache.Config{
		Shards:             64,
		LifeWindow:         lifeWindow,
		CleanWindow:        5 * time.Minute,
		MaxEntriesInWindow: 10000,
		MaxEntrySize:       512,
		HardMaxCacheSize:   64,
		Verbose:            false,
	})
	if err != nil {
		return nil, fmt.Errorf("init bigcache: %w", err)
	}
	return &LocalCache{bc: bc}, nil
}

func (l *LocalCache) Get(_ context.Context, shortCode string) (*types.Mapping, error) {
	data, err := l.bc.Get(key(shortCode))
	if err != nil {
		// bigcache only fails a Get for absent entries
		return nil, types.ErrCacheMiss
	}

	var m types.Mapping
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode cached %s: %w: %w", shortCode, types.ErrCacheUnavailable, err)
	}
	return &m, nil
}

func (l *LocalCache) Set(_ context.Context, shortCode string, m *types.Mapping) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", shortCode, err)
	}
	if err := l.bc.Set(key(shortCode), data); err != nil {
		return fmt.Errorf("bigcache set %s: %w: %w", shortCode, types.ErrCacheUnavailable, err)
	}
	return nil
}

func (l *LocalCache) Delete(_ context.Context, shortCode string) error {
	return l.bc.Delete(key(shortCode))
}

// Close drops every entry.
func (l *LocalCache) Close() error {
	return l.bc.Reset()
}

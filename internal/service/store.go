package service

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"urlshortener/internal/types"
)

// Store is the durable record of accounts, mappings and daily click logs.
type Store interface {
	FindAccount(ctx context.Context, username string) (types.Account, error)
	SaveMapping(ctx context.Context, m *types.Mapping) error
	FindMappingByCode(ctx context.Context, code string) (*types.Mapping, error)
	FindMappingByCodeAndOwner(ctx context.Context, code, owner string) (*types.Mapping, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	// IncrementClickCount must add one click atomically and return the new total.
	IncrementClickCount(ctx context.Context, mappingID string) (int64, error)
	// RecordClick must atomically create the day's log with count 1 or add one to it.
	RecordClick(ctx context.Context, mappingID string, day types.Date) (types.ClickLog, error)
	// ListClickLogs returns logs newest day first.
	ListClickLogs(ctx context.Context, mappingID string) ([]types.ClickLog, error)
}

// ClickCounter is implemented by stores that can apply IncrementClickCount and
// RecordClick in one transaction. The Shortener prefers it when available.
type ClickCounter interface {
	CountClick(ctx context.Context, mappingID string, day types.Date) (int64, types.ClickLog, error)
}

// Cache is a non-authoritative copy of mappings keyed by short code.
// Get returns types.ErrCacheMiss for absent entries.
type Cache interface {
	Get(ctx context.Context, shortCode string) (*types.Mapping, error)
	Set(ctx context.Context, shortCode string, m *types.Mapping) error
}

type noCache struct{}

func (noCache) Get(context.Context, string) (*types.Mapping, error) {
	return nil, types.ErrCacheMiss
}

func (noCache) Set(context.Context, string, *types.Mapping) error {
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"urlshortener/internal/shortcode"
	"urlshortener/internal/types"
)

const DefaultRetention = 30 * 24 * time.Hour

type Options struct {
	// Retention is added to the creation time to compute the expiry. Zero means no expiry.
	Retention time.Duration
	// Location decides which calendar day a click belongs to. Defaults to UTC.
	Location  *time.Location
	Clock     types.Clock
	Generator *shortcode.Generator
}

// Shortener creates mappings, resolves codes and keeps click counters.
// It holds no state of its own beyond injected collaborators.
type Shortener struct {
	store     Store
	cache     Cache
	generator *shortcode.Generator
	clock     types.Clock
	retention time.Duration
	location  *time.Location
}

func NewShortener(store Store, cache Cache, opts Options) *Shortener {
	if cache == nil {
		cache = noCache{}
	}
	if opts.Clock == nil {
		opts.Clock = types.RealClock{}
	}
	if opts.Generator == nil {
		opts.Generator = shortcode.NewGenerator()
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Shortener{
		store:     store,
		cache:     cache,
		generator: opts.Generator,
		clock:     opts.Clock,
		retention: opts.Retention,
		location:  opts.Location,
	}
}

func (s *Shortener) CreateShortURL(ctx context.Context, originalURL, customCode, owner string) (*types.Mapping, error) {
	if _, err := s.store.FindAccount(ctx, owner); err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("owner %q: %w", owner, types.ErrUnknownOwner)
		}
		return nil, storeError("find account", err)
	}

	if err := validateURL(originalURL); err != nil {
		return nil, err
	}

	code, err := s.generator.Generate(ctx, customCode, s.store.ExistsByCode)
	if err != nil {
		return nil, storeError("generate code", err)
	}

	now := s.clock.Now().UTC()
	m := &types.Mapping{
		OriginalURL: originalURL,
		ShortCode:   code,
		CreatedAt:   now,
		Owner:       owner,
	}
	if s.retention > 0 {
		exp := now.Add(s.retention)
		m.ExpiresAt = &exp
	}

	if err := s.store.SaveMapping(ctx, m); err != nil {
		return nil, storeError("save mapping", err)
	}

	if err := s.cache.Set(ctx, code, m); err != nil {
		slog.Warn("Failed to warm up cache", "code", code, "error", err)
	}

	slog.Info("short url created", "code", code, "owner", owner, "custom", customCode != "" && customCode == code)
	return m, nil
}

// ResolveAndRecordClick returns the mapping for code and counts one click on it.
// Every successful call is a click, whether it serves a redirect or an info lookup.
func (s *Shortener) ResolveAndRecordClick(ctx context.Context, code string) (*types.Mapping, error) {
	if code == "" {
		return nil, fmt.Errorf("short code is required: %w", types.ErrInvalidInput)
	}

	m, err := s.cache.Get(ctx, code)
	if err != nil {
		if !errors.Is(err, types.ErrCacheMiss) {
			slog.Warn("Cache error", "code", code, "error", err)
		}
		m, err = s.store.FindMappingByCode(ctx, code)
		if err != nil {
			return nil, storeError("find mapping", err)
		}
	}

	count, err := s.countClick(ctx, m.ID, types.DateOf(s.clock.Now().In(s.location)))
	if err != nil {
		return nil, err
	}
	m.ClickCount = count

	if err := s.cache.Set(ctx, code, m); err != nil {
		slog.Warn("Failed to refresh cache", "code", code, "error", err)
	}

	return m, nil
}

func (s *Shortener) countClick(ctx context.Context, mappingID string, day types.Date) (int64, error) {
	if cc, ok := s.store.(ClickCounter); ok {
		count, _, err := cc.CountClick(ctx, mappingID, day)
		if err != nil {
			return 0, storeError("count click", err)
		}
		return count, nil
	}

	count, err := s.store.IncrementClickCount(ctx, mappingID)
	if err != nil {
		return 0, storeError("increment clicks", err)
	}
	if _, err := s.store.RecordClick(ctx, mappingID, day); err != nil {
		return 0, storeError("record click", err)
	}
	return count, nil
}

// GetClickStats lists daily clicks, newest first. A code owned by someone else
// is reported exactly like a missing one.
func (s *Shortener) GetClickStats(ctx context.Context, code, caller string) ([]types.ClickStat, error) {
	m, err := s.store.FindMappingByCodeAndOwner(ctx, code, caller)
	if err != nil {
		return nil, storeError("find mapping", err)
	}

	logs, err := s.store.ListClickLogs(ctx, m.ID)
	if err != nil {
		return nil, storeError("list click logs", err)
	}

	stats := make([]types.ClickStat, 0, len(logs))
	for _, l := range logs {
		stats = append(stats, types.ClickStat{
			ShortCode:  m.ShortCode,
			ClickCount: l.Count,
			Date:       l.Date,
		})
	}
	return stats, nil
}

// storeError keeps domain errors intact and marks everything else as a store outage.
func storeError(op string, err error) error {
	for _, known := range []error{
		types.ErrNotFound,
		types.ErrCodeConflict,
		types.ErrInvalidInput,
		types.ErrUnknownOwner,
		types.ErrGenerationExhausted,
		types.ErrStoreUnavailable,
		context.Canceled,
	} {
		if errors.Is(err, known) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, types.ErrStoreUnavailable, err)
}

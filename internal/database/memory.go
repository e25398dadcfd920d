package database

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"urlshortener/internal/types"
)

type logKey struct {
	mappingID string
	day       string
}

// MemoryStore keeps everything in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]types.Account
	byCode   map[string]*types.Mapping
	byID     map[string]*types.Mapping
	logs     map[logKey]types.ClickLog
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]types.Account),
		byCode:   make(map[string]*types.Mapping),
		byID:     make(map[string]*types.Mapping),
		logs:     make(map[logKey]types.ClickLog),
	}
}

func (s *MemoryStore) CreateAccount(ctx context.Context, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[username]; !ok {
		s.accounts[username] = types.Account{Username: username, CreatedAt: time.Now().UTC()}
	}
	return nil
}

func (s *MemoryStore) FindAccount(ctx context.Context, username string) (types.Account, error) {
	if err := ctx.Err(); err != nil {
		return types.Account{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[username]
	if !ok {
		return types.Account{}, fmt.Errorf("account %s: %w", username, types.ErrNotFound)
	}
	return acc, nil
}

func (s *MemoryStore) SaveMapping(ctx context.Context, m *types.Mapping) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byCode[m.ShortCode]; ok {
		return fmt.Errorf("save mapping %s: %w", m.ShortCode, types.ErrCodeConflict)
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	stored := m.Clone()
	s.byCode[m.ShortCode] = stored
	s.byID[m.ID] = stored
	return nil
}

func (s *MemoryStore) FindMappingByCode(ctx context.Context, code string) (*types.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byCode[code]
	if !ok {
		return nil, fmt.Errorf("mapping %s: %w", code, types.ErrNotFound)
	}
	return m.Clone(), nil
}

func (s *MemoryStore) FindMappingByCodeAndOwner(ctx context.Context, code, owner string) (*types.Mapping, error) {
	m, err := s.FindMappingByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if m.Owner != owner {
		return nil, fmt.Errorf("mapping %s: %w", code, types.ErrNotFound)
	}
	return m, nil
}

func (s *MemoryStore) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byCode[code]
	return ok, nil
}

func (s *MemoryStore) IncrementClickCount(ctx context.Context, mappingID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[mappingID]
	if !ok {
		return 0, fmt.Errorf("mapping %s: %w", mappingID, types.ErrNotFound)
	}
	m.ClickCount++
	return m.ClickCount, nil
}

func (s *MemoryStore) RecordClick(ctx context.Context, mappingID string, day types.Date) (types.ClickLog, error) {
	if err := ctx.Err(); err != nil {
		return types.ClickLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[mappingID]; !ok {
		return types.ClickLog{}, fmt.Errorf("mapping %s: %w", mappingID, types.ErrNotFound)
	}
	k := logKey{mappingID: mappingID, day: day.String()}
	log, ok := s.logs[k]
	if !ok {
		log = types.ClickLog{MappingID: mappingID, Date: day}
	}
	log.Count++
	s.logs[k] = log
	return log, nil
}

// CountClick applies both counters under one lock.
func (s *MemoryStore) CountClick(ctx context.Context, mappingID string, day types.Date) (int64, types.ClickLog, error) {
	if err := ctx.Err(); err != nil {
		return 0, types.ClickLog{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[mappingID]
	if !ok {
		return 0, types.ClickLog{}, fmt.Errorf("mapping %s: %w", mappingID, types.ErrNotFound)
	}
	k := logKey{mappingID: mappingID, day: day.String()}
	log, ok := s.logs[k]
	if !ok {
		log = types.ClickLog{MappingID: mappingID, Date: day}
	}
	m.ClickCount++
	log.Count++
	s.logs[k] = log
	return m.ClickCount, log, nil
}

func (s *MemoryStore) FindClickLog(ctx context.Context, mappingID string, day types.Date) (types.ClickLog, error) {
	if err := ctx.Err(); err != nil {
		return types.ClickLog{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.logs[logKey{mappingID: mappingID, day: day.String()}]
	if !ok {
		return types.ClickLog{}, fmt.Errorf("click log %s on %s: %w", mappingID, day, types.ErrNotFound)
	}
	return log, nil
}

func (s *MemoryStore) SaveClickLog(ctx context.Context, log types.ClickLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if log.Count < 0 {
		return fmt.Errorf("click log count %d: %w", log.Count, types.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	k := logKey{mappingID: log.MappingID, day: log.Date.String()}
	if existing, ok := s.logs[k]; ok && existing.Count >= log.Count {
		return nil
	}
	s.logs[k] = log
	return nil
}

func (s *MemoryStore) ListClickLogs(ctx context.Context, mappingID string) ([]types.ClickLog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	logs := []types.ClickLog{}
	for k, log := range s.logs {
		if k.mappingID == mappingID {
			logs = append(logs, log)
		}
	}
	sort.Slice(logs, func(i, j int) bool {
		return logs[j].Date.Before(logs[i].Date)
	})
	return logs, nil
}

func (s *MemoryStore) ListAccounts(ctx context.Context) ([]types.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	accounts := make([]types.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accounts = append(accounts, acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Username < accounts[j].Username })
	return accounts, nil
}

func (s *MemoryStore) ListMappings(ctx context.Context) ([]types.Mapping, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	mappings := make([]types.Mapping, 0, len(s.byCode))
	for _, m := range s.byCode {
		mappings = append(mappings, *m.Clone())
	}
	sort.Slice(mappings, func(i, j int) bool {
		if mappings[i].CreatedAt.Equal(mappings[j].CreatedAt) {
			return mappings[i].ShortCode < mappings[j].ShortCode
		}
		return mappings[i].CreatedAt.Before(mappings[j].CreatedAt)
	})
	return mappings, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close() error {
	return nil
}

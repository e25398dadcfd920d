package database_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urlshortener/internal/types"
)

type store interface {
	CreateAccount(ctx context.Context, username string) error
	FindAccount(ctx context.Context, username string) (types.Account, error)
	SaveMapping(ctx context.Context, m *types.Mapping) error
	FindMappingByCode(ctx context.Context, code string) (*types.Mapping, error)
	FindMappingByCodeAndOwner(ctx context.Context, code, owner string) (*types.Mapping, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	IncrementClickCount(ctx context.Context, mappingID string) (int64, error)
	RecordClick(ctx context.Context, mappingID string, day types.Date) (types.ClickLog, error)
	CountClick(ctx context.Context, mappingID string, day types.Date) (int64, types.ClickLog, error)
	FindClickLog(ctx context.Context, mappingID string, day types.Date) (types.ClickLog, error)
	SaveClickLog(ctx context.Context, log types.ClickLog) error
	ListClickLogs(ctx context.Context, mappingID string) ([]types.ClickLog, error)
	ListAccounts(ctx context.Context) ([]types.Account, error)
	ListMappings(ctx context.Context) ([]types.Mapping, error)
}

func newMapping(code, owner string) *types.Mapping {
	created := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	exp := created.AddDate(0, 0, 30)
	return &types.Mapping{
		OriginalURL: "https://example.com/" + code,
		ShortCode:   code,
		CreatedAt:   created,
		ExpiresAt:   &exp,
		Owner:       owner,
	}
}

func runStoreSuite(t *testing.T, newStore func(t *testing.T) store) {
	t.Run("accounts", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.FindAccount(ctx, "alice")
		assert.ErrorIs(t, err, types.ErrNotFound)

		require.NoError(t, s.CreateAccount(ctx, "alice"))
		require.NoError(t, s.CreateAccount(ctx, "alice"))

		acc, err := s.FindAccount(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", acc.Username)

		accounts, err := s.ListAccounts(ctx)
		require.NoError(t, err)
		assert.Len(t, accounts, 1)
	})

	t.Run("save and find mapping", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))

		m := newMapping("custom123", "alice")
		require.NoError(t, s.SaveMapping(ctx, m))
		assert.NotEmpty(t, m.ID)

		got, err := s.FindMappingByCode(ctx, "custom123")
		require.NoError(t, err)
		assert.Equal(t, m.ID, got.ID)
		assert.Equal(t, m.OriginalURL, got.OriginalURL)
		assert.Equal(t, "alice", got.Owner)
		assert.Equal(t, int64(0), got.ClickCount)
		assert.True(t, m.CreatedAt.Equal(got.CreatedAt))
		require.NotNil(t, got.ExpiresAt)
		assert.True(t, m.ExpiresAt.Equal(*got.ExpiresAt))

		exists, err := s.ExistsByCode(ctx, "custom123")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = s.ExistsByCode(ctx, "nope")
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = s.FindMappingByCode(ctx, "nope")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("mapping without expiry", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))

		m := newMapping("forever", "alice")
		m.ExpiresAt = nil
		require.NoError(t, s.SaveMapping(ctx, m))

		got, err := s.FindMappingByCode(ctx, "forever")
		require.NoError(t, err)
		assert.Nil(t, got.ExpiresAt)
	})

	t.Run("duplicate code conflicts", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))
		require.NoError(t, s.CreateAccount(ctx, "bob"))

		require.NoError(t, s.SaveMapping(ctx, newMapping("dup", "alice")))
		err := s.SaveMapping(ctx, newMapping("dup", "bob"))
		assert.ErrorIs(t, err, types.ErrCodeConflict)

		got, err := s.FindMappingByCode(ctx, "dup")
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Owner)
	})

	t.Run("owner scoped lookup", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))
		require.NoError(t, s.SaveMapping(ctx, newMapping("mine", "alice")))

		_, err := s.FindMappingByCodeAndOwner(ctx, "mine", "alice")
		require.NoError(t, err)

		_, err = s.FindMappingByCodeAndOwner(ctx, "mine", "bob")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("increment click count", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))
		m := newMapping("count", "alice")
		require.NoError(t, s.SaveMapping(ctx, m))

		n, err := s.IncrementClickCount(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		n, err = s.IncrementClickCount(ctx, m.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		got, err := s.FindMappingByCode(ctx, "count")
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ClickCount)

		_, err = s.IncrementClickCount(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("record click per day", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))
		m := newMapping("daily", "alice")
		require.NoError(t, s.SaveMapping(ctx, m))

		day1 := types.NewDate(2026, 10, 18)
		day2 := types.NewDate(2026, 10, 19)

		_, err := s.FindClickLog(ctx, m.ID, day1)
		assert.ErrorIs(t, err, types.ErrNotFound)

		log, err := s.RecordClick(ctx, m.ID, day1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), log.Count)
		assert.Equal(t, "2026-10-18", log.Date.String())

		for i := 0; i < 3; i++ {
			log, err = s.RecordClick(ctx, m.ID, day2)
			require.NoError(t, err)
		}
		assert.Equal(t, int64(3), log.Count)

		found, err := s.FindClickLog(ctx, m.ID, day2)
		require.NoError(t, err)
		assert.Equal(t, int64(3), found.Count)

		logs, err := s.ListClickLogs(ctx, m.ID)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, "2026-10-19", logs[0].Date.String())
		assert.Equal(t, int64(3), logs[0].Count)
		assert.Equal(t, "2026-10-18", logs[1].Date.String())
		assert.Equal(t, int64(1), logs[1].Count)
	})

	t.Run("no logs is empty", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))
		m := newMapping("quiet", "alice")
		require.NoError(t, s.SaveMapping(ctx, m))

		logs, err := s.ListClickLogs(ctx, m.ID)
		require.NoError(t, err)
		assert.NotNil(t, logs)
		assert.Empty(t, logs)
	})

	t.Run("save click log never lowers count", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))
		m := newMapping("imported", "alice")
		require.NoError(t, s.SaveMapping(ctx, m))
		day := types.NewDate(2026, 1, 1)

		require.NoError(t, s.SaveClickLog(ctx, types.ClickLog{MappingID: m.ID, Date: day, Count: 7}))
		require.NoError(t, s.SaveClickLog(ctx, types.ClickLog{MappingID: m.ID, Date: day, Count: 3}))

		log, err := s.FindClickLog(ctx, m.ID, day)
		require.NoError(t, err)
		assert.Equal(t, int64(7), log.Count)

		err = s.SaveClickLog(ctx, types.ClickLog{MappingID: m.ID, Date: day, Count: -1})
		assert.ErrorIs(t, err, types.ErrInvalidInput)
	})

	t.Run("list mappings", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))
		require.NoError(t, s.SaveMapping(ctx, newMapping("b", "alice")))
		require.NoError(t, s.SaveMapping(ctx, newMapping("a", "alice")))

		mappings, err := s.ListMappings(ctx)
		require.NoError(t, err)
		require.Len(t, mappings, 2)
		assert.Equal(t, "a", mappings[0].ShortCode)
		assert.Equal(t, "b", mappings[1].ShortCode)
	})

	t.Run("count click moves both counters", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))
		m := newMapping("paired", "alice")
		require.NoError(t, s.SaveMapping(ctx, m))
		day := types.NewDate(2026, 10, 19)

		for i := 1; i <= 3; i++ {
			n, log, err := s.CountClick(ctx, m.ID, day)
			require.NoError(t, err)
			assert.Equal(t, int64(i), n)
			assert.Equal(t, int64(i), log.Count)
			assert.Equal(t, "2026-10-19", log.Date.String())
		}

		got, err := s.FindMappingByCode(ctx, "paired")
		require.NoError(t, err)
		assert.Equal(t, int64(3), got.ClickCount)

		missing := "00000000-0000-0000-0000-000000000000"
		_, _, err = s.CountClick(ctx, missing, day)
		assert.ErrorIs(t, err, types.ErrNotFound)
		_, err = s.FindClickLog(ctx, missing, day)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("concurrent clicks are not lost", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		require.NoError(t, s.CreateAccount(ctx, "alice"))
		m := newMapping("hot", "alice")
		require.NoError(t, s.SaveMapping(ctx, m))
		day := types.NewDate(2026, 10, 19)

		const n = 50
		var wg sync.WaitGroup
		errs := make(chan error, 2*n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := s.IncrementClickCount(ctx, m.ID); err != nil {
					errs <- err
				}
				if _, err := s.RecordClick(ctx, m.ID, day); err != nil {
					errs <- err
				}
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := s.FindMappingByCode(ctx, "hot")
		require.NoError(t, err)
		assert.Equal(t, int64(n), got.ClickCount)

		log, err := s.FindClickLog(ctx, m.ID, day)
		require.NoError(t, err)
		assert.Equal(t, int64(n), log.Count)
	})
}

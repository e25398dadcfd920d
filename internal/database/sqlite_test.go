package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"urlshortener/internal/database"
)

func newSQLiteStore(t *testing.T) *database.Database {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shortener.db")
	db, err := database.Open(context.Background(), "file:"+path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) store {
		return newSQLiteStore(t)
	})
}

func TestSQLiteStore_MigrationsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shortener.db")
	ctx := context.Background()

	first, err := database.ConnectSQLite(ctx, "file:"+path)
	require.NoError(t, err)
	require.NoError(t, first.CreateAccount(ctx, "alice"))
	require.NoError(t, first.Close())

	second, err := database.ConnectSQLite(ctx, "file:"+path)
	require.NoError(t, err)
	defer second.Close()

	_, err = second.FindAccount(ctx, "alice")
	require.NoError(t, err)
}

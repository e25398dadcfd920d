package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed migrations/sqlite/*.sql
var sqliteMigrationsFS embed.FS

// ConnectSQLite opens a local SQLite file or a remote libSQL (Turso) database.
func ConnectSQLite(ctx context.Context, url string) (*Database, error) {
	driverName := "sqlite"
	dsn := url
	if strings.HasPrefix(url, "libsql://") || strings.HasPrefix(url, "wss://") || strings.HasPrefix(url, "https://") {
		driverName = "libsql"
	} else {
		dsn = withPragmas(url)
	}

	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driverName, err)
	}
	if driverName == "sqlite" {
		// one writer keeps SQLite free of SQLITE_BUSY under concurrent clicks
		db.SetMaxOpenConns(1)
	}

	lite := &Database{db: db}
	if err := lite.runSQLiteMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return lite, nil
}

func withPragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func (d *Database) runSQLiteMigrations() error {
	src, err := iofs.New(sqliteMigrationsFS, "migrations/sqlite")
	if err != nil {
		return err
	}

	driver, err := migratesqlite.WithInstance(d.db.DB, &migratesqlite.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return err
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("sqlite migrations: %w", err)
	}

	slog.Info("Database migrations applied successfully", "dialect", "sqlite")
	return nil
}

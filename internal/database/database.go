package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"urlshortener/internal/types"
)

const mappingColumns = "id, original_url, short_code, click_count, created_at, expires_at, owner"

// Database is the SQL store shared by the Postgres and SQLite dialects.
// Queries are written with ? placeholders and rebound per driver.
type Database struct {
	db *sqlx.DB
}

// Open picks the driver from the URL scheme and applies migrations.
func Open(ctx context.Context, url string) (*Database, error) {
	switch {
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return ConnectPostgres(ctx, url)
	default:
		return ConnectSQLite(ctx, url)
	}
}

func (d *Database) q(query string) string {
	return d.db.Rebind(query)
}

func (d *Database) CreateAccount(ctx context.Context, username string) error {
	_, err := d.db.ExecContext(ctx,
		d.q("INSERT INTO accounts (username, created_at) VALUES (?, ?) ON CONFLICT (username) DO NOTHING"),
		username, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("create account %s: %w", username, err)
	}
	return nil
}

func (d *Database) FindAccount(ctx context.Context, username string) (types.Account, error) {
	var acc types.Account
	err := d.db.GetContext(ctx, &acc, d.q("SELECT username, created_at FROM accounts WHERE username = ?"), username)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Account{}, fmt.Errorf("account %s: %w", username, types.ErrNotFound)
	}
	if err != nil {
		return types.Account{}, fmt.Errorf("find account %s: %w", username, err)
	}
	return acc, nil
}

func (d *Database) ListAccounts(ctx context.Context) ([]types.Account, error) {
	accounts := []types.Account{}
	if err := d.db.SelectContext(ctx, &accounts, "SELECT username, created_at FROM accounts ORDER BY username"); err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// SaveMapping inserts m, assigning an ID when it has none.
func (d *Database) SaveMapping(ctx context.Context, m *types.Mapping) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	_, err := d.db.ExecContext(ctx,
		d.q("INSERT INTO mappings ("+mappingColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)"),
		m.ID, m.OriginalURL, m.ShortCode, m.ClickCount, m.CreatedAt, m.ExpiresAt, m.Owner)
	if isUniqueViolation(err) {
		return fmt.Errorf("save mapping %s: %w", m.ShortCode, types.ErrCodeConflict)
	}
	if err != nil {
		return fmt.Errorf("save mapping %s: %w", m.ShortCode, err)
	}
	return nil
}

func (d *Database) FindMappingByCode(ctx context.Context, code string) (*types.Mapping, error) {
	return d.findMapping(ctx, "SELECT "+mappingColumns+" FROM mappings WHERE short_code = ?", code)
}

func (d *Database) FindMappingByCodeAndOwner(ctx context.Context, code, owner string) (*types.Mapping, error) {
	return d.findMapping(ctx, "SELECT "+mappingColumns+" FROM mappings WHERE short_code = ? AND owner = ?", code, owner)
}

func (d *Database) findMapping(ctx context.Context, query string, args ...any) (*types.Mapping, error) {
	var m types.Mapping
	err := d.db.GetContext(ctx, &m, d.q(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("mapping %v: %w", args[0], types.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find mapping %v: %w", args[0], err)
	}
	return &m, nil
}

func (d *Database) ListMappings(ctx context.Context) ([]types.Mapping, error) {
	mappings := []types.Mapping{}
	if err := d.db.SelectContext(ctx, &mappings, "SELECT "+mappingColumns+" FROM mappings ORDER BY created_at, short_code"); err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return mappings, nil
}

func (d *Database) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := d.db.GetContext(ctx, &exists, d.q("SELECT EXISTS (SELECT 1 FROM mappings WHERE short_code = ?)"), code)
	if err != nil {
		return false, fmt.Errorf("check code %s: %w", code, err)
	}
	return exists, nil
}

// IncrementClickCount adds one click in a single statement and returns the new total.
func (d *Database) IncrementClickCount(ctx context.Context, mappingID string) (int64, error) {
	var count int64
	err := d.db.GetContext(ctx, &count,
		d.q("UPDATE mappings SET click_count = click_count + 1 WHERE id = ? RETURNING click_count"), mappingID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("mapping %s: %w", mappingID, types.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("increment clicks %s: %w", mappingID, err)
	}
	return count, nil
}

// RecordClick creates the day's log with count 1 or bumps the existing one.
func (d *Database) RecordClick(ctx context.Context, mappingID string, day types.Date) (types.ClickLog, error) {
	var log types.ClickLog
	err := d.db.GetContext(ctx, &log, d.q(`INSERT INTO click_logs (mapping_id, day, count) VALUES (?, ?, 1)
		ON CONFLICT (mapping_id, day) DO UPDATE SET count = click_logs.count + 1
		RETURNING mapping_id, day, count`), mappingID, day)
	if err != nil {
		return types.ClickLog{}, fmt.Errorf("record click %s on %s: %w", mappingID, day, err)
	}
	return log, nil
}

// CountClick bumps the mapping total and the day's log in one transaction,
// so a failure between the two leaves neither applied.
func (d *Database) CountClick(ctx context.Context, mappingID string, day types.Date) (int64, types.ClickLog, error) {
	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, types.ClickLog{}, fmt.Errorf("count click %s: %w", mappingID, err)
	}
	defer tx.Rollback()

	var count int64
	err = tx.GetContext(ctx, &count,
		d.q("UPDATE mappings SET click_count = click_count + 1 WHERE id = ? RETURNING click_count"), mappingID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, types.ClickLog{}, fmt.Errorf("mapping %s: %w", mappingID, types.ErrNotFound)
	}
	if err != nil {
		return 0, types.ClickLog{}, fmt.Errorf("increment clicks %s: %w", mappingID, err)
	}

	var log types.ClickLog
	err = tx.GetContext(ctx, &log, d.q(`INSERT INTO click_logs (mapping_id, day, count) VALUES (?, ?, 1)
		ON CONFLICT (mapping_id, day) DO UPDATE SET count = click_logs.count + 1
		RETURNING mapping_id, day, count`), mappingID, day)
	if err != nil {
		return 0, types.ClickLog{}, fmt.Errorf("record click %s on %s: %w", mappingID, day, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, types.ClickLog{}, fmt.Errorf("commit click %s: %w", mappingID, err)
	}
	return count, log, nil
}

func (d *Database) FindClickLog(ctx context.Context, mappingID string, day types.Date) (types.ClickLog, error) {
	var log types.ClickLog
	err := d.db.GetContext(ctx, &log,
		d.q("SELECT mapping_id, day, count FROM click_logs WHERE mapping_id = ? AND day = ?"), mappingID, day)
	if errors.Is(err, sql.ErrNoRows) {
		return types.ClickLog{}, fmt.Errorf("click log %s on %s: %w", mappingID, day, types.ErrNotFound)
	}
	if err != nil {
		return types.ClickLog{}, fmt.Errorf("find click log %s on %s: %w", mappingID, day, err)
	}
	return log, nil
}

// SaveClickLog upserts a log row. An existing count is never lowered.
func (d *Database) SaveClickLog(ctx context.Context, log types.ClickLog) error {
	if log.Count < 0 {
		return fmt.Errorf("click log count %d: %w", log.Count, types.ErrInvalidInput)
	}
	_, err := d.db.ExecContext(ctx, d.q(`INSERT INTO click_logs (mapping_id, day, count) VALUES (?, ?, ?)
		ON CONFLICT (mapping_id, day) DO UPDATE SET count =
			CASE WHEN excluded.count > click_logs.count THEN excluded.count ELSE click_logs.count END`),
		log.MappingID, log.Date, log.Count)
	if err != nil {
		return fmt.Errorf("save click log %s on %s: %w", log.MappingID, log.Date, err)
	}
	return nil
}

// ListClickLogs returns the mapping's logs, newest day first.
func (d *Database) ListClickLogs(ctx context.Context, mappingID string) ([]types.ClickLog, error) {
	logs := []types.ClickLog{}
	err := d.db.SelectContext(ctx, &logs,
		d.q("SELECT mapping_id, day, count FROM click_logs WHERE mapping_id = ? ORDER BY day DESC"), mappingID)
	if err != nil {
		return nil, fmt.Errorf("list click logs %s: %w", mappingID, err)
	}
	return logs, nil
}

func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *Database) Close() error {
	return d.db.Close()
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		code := liteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	// libsql reports constraint failures as plain text
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

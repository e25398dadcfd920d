package database

import "context"

func Truncate(ctx context.Context, d *Database) error {
	_, err := d.db.ExecContext(ctx, "TRUNCATE click_logs, mappings, accounts")
	return err
}

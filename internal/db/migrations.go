package db

import (
	"context"
	"fmt"
)

// legacyColumns lists columns added after the first schema revision.
var legacyColumns = []struct {
	table, column, definition string
}{
	{"snapshots", "beats_json", "TEXT"},
	{"snapshots", "tags_json", "TEXT NOT NULL DEFAULT '{}'"},
}

// migrateLegacyColumns adds any column missing from a database created by an
// older schema revision.
func (db *DB) migrateLegacyColumns() error {
	for _, c := range legacyColumns {
		exists, err := db.hasColumn(c.table, c.column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		query := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", c.table, c.column, c.definition)
		if _, err := db.ExecContext(context.Background(), query); err != nil {
			return fmt.Errorf("failed to add column %s.%s: %w", c.table, c.column, err)
		}
	}

	return nil
}

// migrateMasteryTimestamps makes mastery timestamps unique. Duplicates left by
// older revisions are collapsed onto the earliest row first.
func (db *DB) migrateMasteryTimestamps() error {
	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	statements := []string{
		`DELETE FROM mastery_snapshots
		 WHERE id NOT IN (SELECT MIN(id) FROM mastery_snapshots GROUP BY timestamp)`,
		`DROP INDEX IF EXISTS idx_mastery_snapshots_timestamp`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_mastery_snapshots_timestamp_unique
		 ON mastery_snapshots(timestamp)`,
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(context.Background(), stmt); err != nil {
			return fmt.Errorf("failed to migrate mastery timestamps: %w", err)
		}
	}

	return tx.Commit()
}

func (db *DB) hasColumn(table, column string) (bool, error) {
	var count int
	err := db.QueryRowContext(context.Background(),
		"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?", table, column,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to inspect table %s: %w", table, err)
	}
	return count > 0, nil
}

package db

import (
	"context"
	"fmt"
	"time"

	"github.com/j-veylop/lc-dashboard-tui/internal/logger"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// InsertMasterySnapshot appends a mastery snapshot. A zero timestamp is
// replaced with the current time.
func (db *DB) InsertMasterySnapshot(snapshot *models.MasterySnapshot) error {
	query := `
		INSERT INTO mastery_snapshots (
			timestamp, strong, learning, weak, leech, unknown, total
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	if snapshot.Timestamp == 0 {
		snapshot.Timestamp = time.Now().UnixMilli()
	}

	result, err := db.ExecContext(context.Background(), query,
		snapshot.Timestamp,
		snapshot.Strong,
		snapshot.Learning,
		snapshot.Weak,
		snapshot.Leech,
		snapshot.Unknown,
		snapshot.Total,
	)
	if err != nil {
		return fmt.Errorf("failed to insert mastery snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		snapshot.ID = id
	}

	return nil
}

// InsertMasterySnapshotIfAbsent stores a mastery snapshot unless one with the
// same timestamp exists, and reports whether it was stored. The check and the
// insert are a single statement.
func (db *DB) InsertMasterySnapshotIfAbsent(snapshot *models.MasterySnapshot) (bool, error) {
	query := `
		INSERT INTO mastery_snapshots (
			timestamp, strong, learning, weak, leech, unknown, total
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(timestamp) DO NOTHING
	`

	if snapshot.Timestamp == 0 {
		snapshot.Timestamp = time.Now().UnixMilli()
	}

	result, err := db.ExecContext(context.Background(), query,
		snapshot.Timestamp,
		snapshot.Strong,
		snapshot.Learning,
		snapshot.Weak,
		snapshot.Leech,
		snapshot.Unknown,
		snapshot.Total,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert mastery snapshot: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert mastery snapshot: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	if id, err := result.LastInsertId(); err == nil {
		snapshot.ID = id
	}
	return true, nil
}

// GetMasteryHistory returns mastery snapshots taken at or after sinceMs,
// oldest first. Pass 0 for the full history.
func (db *DB) GetMasteryHistory(sinceMs int64) ([]models.MasterySnapshot, error) {
	query := `
		SELECT id, timestamp, strong, learning, weak, leech, unknown, total
		FROM mastery_snapshots
		` + sqlSinceClause + `
		` + sqlOrderAscending

	rows, err := db.QueryContext(context.Background(), query, sinceMs)
	if err != nil {
		return nil, fmt.Errorf("failed to query mastery history: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var snapshots []models.MasterySnapshot
	for rows.Next() {
		var s models.MasterySnapshot
		err := rows.Scan(
			&s.ID,
			&s.Timestamp,
			&s.Strong,
			&s.Learning,
			&s.Weak,
			&s.Leech,
			&s.Unknown,
			&s.Total,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan mastery snapshot: %w", err)
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

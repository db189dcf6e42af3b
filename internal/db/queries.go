package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/lc-dashboard-tui/internal/logger"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// InsertProgressSnapshot appends a progress snapshot. A zero timestamp is
// replaced with the current time.
func (db *DB) InsertProgressSnapshot(snapshot *models.ProgressSnapshot) error {
	query := `
		INSERT INTO snapshots (
			timestamp, total_easy, total_medium, total_hard, tags_json, beats_json
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	if snapshot.Timestamp == 0 {
		snapshot.Timestamp = time.Now().UnixMilli()
	}

	tags := snapshot.TagsJSON
	if tags == "" {
		tags = "{}"
	}

	beats, err := encodeBeats(snapshot.Beats)
	if err != nil {
		return fmt.Errorf("failed to encode beats: %w", err)
	}

	result, err := db.ExecContext(context.Background(), query,
		snapshot.Timestamp,
		snapshot.Easy,
		snapshot.Medium,
		snapshot.Hard,
		tags,
		beats,
	)
	if err != nil {
		return fmt.Errorf("failed to insert progress snapshot: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		snapshot.ID = id
	}

	return nil
}

// GetProgressHistory returns progress snapshots taken at or after sinceMs,
// oldest first. Pass 0 for the full history.
func (db *DB) GetProgressHistory(sinceMs int64) ([]models.ProgressSnapshot, error) {
	query := `
		SELECT id, timestamp, total_easy, total_medium, total_hard, tags_json, beats_json
		FROM snapshots
		` + sqlSinceClause + `
		` + sqlOrderAscending

	rows, err := db.QueryContext(context.Background(), query, sinceMs)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress history: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var snapshots []models.ProgressSnapshot
	for rows.Next() {
		s, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	return snapshots, rows.Err()
}

// LatestProgressSnapshot returns the most recent progress snapshot, or
// ErrNotFound when none is stored.
func (db *DB) LatestProgressSnapshot() (*models.ProgressSnapshot, error) {
	query := `
		SELECT id, timestamp, total_easy, total_medium, total_hard, tags_json, beats_json
		FROM snapshots
		ORDER BY timestamp DESC, id DESC
		LIMIT 1
	`

	s, err := scanProgress(db.QueryRowContext(context.Background(), query))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// GetStats summarizes both snapshot tables.
func (db *DB) GetStats() (*models.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM snapshots),
			(SELECT COUNT(*) FROM mastery_snapshots),
			(SELECT MIN(timestamp) FROM snapshots),
			(SELECT MAX(timestamp) FROM snapshots)
	`

	var stats models.Stats
	var first, last sql.NullInt64
	err := db.QueryRowContext(context.Background(), query).Scan(
		&stats.ProgressCount,
		&stats.MasteryCount,
		&first,
		&last,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query stats: %w", err)
	}

	if first.Valid {
		stats.FirstSnapshot = time.UnixMilli(first.Int64).UTC()
	}
	if last.Valid {
		stats.LastSnapshot = time.UnixMilli(last.Int64).UTC()
		stats.LastCollection = stats.LastSnapshot
	}

	return &stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (models.ProgressSnapshot, error) {
	var s models.ProgressSnapshot
	var tags, beats sql.NullString

	err := row.Scan(
		&s.ID,
		&s.Timestamp,
		&s.Easy,
		&s.Medium,
		&s.Hard,
		&tags,
		&beats,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("failed to scan progress snapshot: %w", err)
	}

	s.TagsJSON = tags.String
	s.Beats = decodeBeats(beats)
	return s, nil
}

func encodeBeats(beats map[string]float64) (sql.NullString, error) {
	if beats == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(beats)
	if err != nil {
		return sql.NullString{}, err
	}
	return nullString(string(data)), nil
}

// decodeBeats tolerates malformed rows; beats are supplementary.
func decodeBeats(raw sql.NullString) map[string]float64 {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	var beats map[string]float64
	if err := json.Unmarshal([]byte(raw.String), &beats); err != nil {
		logger.Warn("failed to decode beats", "error", err)
		return nil
	}
	return beats
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

package db

import "errors"

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// SQL query fragments used across multiple functions
const (
	// sqlSinceClause filters a snapshot table by epoch-millisecond timestamp
	sqlSinceClause = "WHERE timestamp >= ?"
	// sqlOrderAscending orders snapshots oldest first with a stable ID tiebreak
	sqlOrderAscending = "ORDER BY timestamp ASC, id ASC"
)

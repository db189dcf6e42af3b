// Package models defines data structures and domain types.
package models

import "time"

// Difficulty names as reported by the upstream API, lower-cased.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// ProgressSnapshot is one point-in-time read of accepted problem counts.
type ProgressSnapshot struct {
	ID        int64
	Timestamp int64 // epoch milliseconds
	Easy      int
	Medium    int
	Hard      int
	// TagsJSON holds the raw skill breakdown (tagProblemCounts) as returned upstream.
	TagsJSON string
	// Beats maps a lower-cased difficulty to the user's beats percentage. Nil when unknown.
	Beats map[string]float64
}

// Total returns the number of accepted problems across all difficulties.
func (p ProgressSnapshot) Total() int {
	return p.Easy + p.Medium + p.Hard
}

// Time returns the snapshot timestamp as a UTC time.
func (p ProgressSnapshot) Time() time.Time {
	return time.UnixMilli(p.Timestamp).UTC()
}

// DifficultyTargets holds the number of problems per difficulty in a curriculum.
type DifficultyTargets struct {
	Easy   int
	Medium int
	Hard   int
}

// Sum returns the curriculum size.
func (d DifficultyTargets) Sum() int {
	return d.Easy + d.Medium + d.Hard
}

// Top150Targets is the difficulty split of the Top Interview 150 list.
var Top150Targets = DifficultyTargets{Easy: 40, Medium: 92, Hard: 18}

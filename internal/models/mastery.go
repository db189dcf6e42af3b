package models

import "time"

// MasterySnapshot classifies previously seen problems into spaced-repetition buckets.
type MasterySnapshot struct {
	ID        int64
	Timestamp int64 // epoch milliseconds
	Strong    int
	Learning  int
	Weak      int
	Leech     int
	Unknown   int
	Total     int
}

// Reviewed returns the number of classified items, excluding unknown.
func (m MasterySnapshot) Reviewed() int {
	return m.Strong + m.Learning + m.Weak + m.Leech
}

// Time returns the snapshot timestamp as a UTC time.
func (m MasterySnapshot) Time() time.Time {
	return time.UnixMilli(m.Timestamp).UTC()
}

// Package aggregate turns raw progress and mastery snapshots into the derived
// series the dashboard renders: a unified day axis, gap-filled chart series,
// daily activity, milestone predictions and ranked skills.
//
// Every function here is pure. Callers pass already-loaded snapshots and a
// reference time, and the same inputs always produce the same output.
package aggregate

import (
	"maps"
	"slices"
	"time"
)

// DayMillis is the length of one calendar day in milliseconds.
const DayMillis int64 = 24 * 60 * 60 * 1000

// DateKey returns midnight UTC of the day containing ts (epoch milliseconds).
func DateKey(ts int64) int64 {
	t := time.UnixMilli(ts).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
}

// TodayKey returns the DateKey for now.
func TodayKey(now time.Time) int64 {
	return DateKey(now.UnixMilli())
}

// FormatDate renders a DateKey as a short month/day label, e.g. "Jan 2".
func FormatDate(key int64) string {
	return time.UnixMilli(key).UTC().Format("Jan 2")
}

// Label renders a DateKey relative to today: "today", "yesterday", or a month/day label.
func Label(key, today int64) string {
	switch key {
	case today:
		return "today"
	case today - DayMillis:
		return "yesterday"
	default:
		return FormatDate(key)
	}
}

// bucket keeps, per DateKey, the item with the strictly larger timestamp.
// Equal timestamps fall back to the larger ID so the result does not depend on input order.
func bucket[T any](items []T, stamp func(T) (ts, id int64)) map[int64]T {
	out := make(map[int64]T, len(items))
	for _, item := range items {
		ts, id := stamp(item)
		key := DateKey(ts)
		cur, ok := out[key]
		if !ok {
			out[key] = item
			continue
		}
		curTs, curID := stamp(cur)
		if ts > curTs || (ts == curTs && id > curID) {
			out[key] = item
		}
	}
	return out
}

func sortedKeys[T any](m map[int64]T) []int64 {
	return slices.Sorted(maps.Keys(m))
}

// previousKey returns the latest key strictly before day.
func previousKey(keys []int64, day int64) (int64, bool) {
	idx, _ := slices.BinarySearch(keys, day)
	if idx == 0 {
		return 0, false
	}
	return keys[idx-1], true
}

package aggregate

import "github.com/j-veylop/lc-dashboard-tui/internal/models"

// BuildAxis returns one DateKey per day from the earliest to the latest
// timestamp across both series, inclusive. It returns nil when both are empty.
func BuildAxis(progress []models.ProgressSnapshot, mastery []models.MasterySnapshot) []int64 {
	var minTs, maxTs int64
	seen := false

	observe := func(ts int64) {
		if !seen {
			minTs, maxTs = ts, ts
			seen = true
			return
		}
		minTs = min(minTs, ts)
		maxTs = max(maxTs, ts)
	}

	for _, s := range progress {
		observe(s.Timestamp)
	}
	for _, s := range mastery {
		observe(s.Timestamp)
	}

	if !seen {
		return nil
	}

	start, end := DateKey(minTs), DateKey(maxTs)
	axis := make([]int64, 0, (end-start)/DayMillis+1)
	for key := start; key <= end; key += DayMillis {
		axis = append(axis, key)
	}
	return axis
}

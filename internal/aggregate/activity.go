package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// WeekDays is the length of the weekly activity window.
const WeekDays = 7

// Activity returns one entry per day for the trailing window ending today,
// most recent first. A day only reports a delta when it has a snapshot of its
// own; the delta is taken against the latest earlier day with a snapshot.
func Activity(buckets map[int64]models.ProgressSnapshot, now time.Time, days int) []models.DailyActivity {
	if days <= 0 {
		return nil
	}

	keys := sortedKeys(buckets)
	today := TodayKey(now)

	out := make([]models.DailyActivity, 0, days)
	for i := range days {
		day := today - int64(i)*DayMillis
		activity := dailyDelta(keys, buckets, day)
		activity.Label = Label(day, today)
		out = append(out, activity)
	}
	return out
}

// Weekly sums the trailing seven days of activity.
func Weekly(buckets map[int64]models.ProgressSnapshot, now time.Time) models.WeeklyActivity {
	var week models.WeeklyActivity
	for _, a := range Activity(buckets, now, WeekDays) {
		week.Easy += a.Easy
		week.Medium += a.Medium
		week.Hard += a.Hard
		week.Total += a.Total
	}
	return week
}

func dailyDelta(keys []int64, buckets map[int64]models.ProgressSnapshot, day int64) models.DailyActivity {
	activity := models.DailyActivity{DateKey: day}

	cur, ok := buckets[day]
	if !ok {
		return activity
	}
	activity.HasSnapshot = true

	prevKey, ok := previousKey(keys, day)
	if !ok {
		return activity
	}
	prev := buckets[prevKey]

	activity.Easy = cur.Easy - prev.Easy
	activity.Medium = cur.Medium - prev.Medium
	activity.Hard = cur.Hard - prev.Hard
	activity.Total = activity.Easy + activity.Medium + activity.Hard
	return activity
}

// Heatmap sums the positive changes in total between consecutive snapshots
// per day over the trailing window ending today, oldest first, with an
// intensity level per day. A dip followed by a recovery on the same day
// counts the recovery in full.
func Heatmap(snapshots []models.ProgressSnapshot, now time.Time, days int) []models.HeatmapDay {
	if days <= 0 {
		return nil
	}

	sorted := slices.Clone(snapshots)
	slices.SortFunc(sorted, func(a, b models.ProgressSnapshot) int {
		return cmp.Or(cmp.Compare(a.Timestamp, b.Timestamp), cmp.Compare(a.ID, b.ID))
	})

	gains := make(map[int64]int)
	for i := 1; i < len(sorted); i++ {
		if delta := sorted[i].Total() - sorted[i-1].Total(); delta > 0 {
			gains[DateKey(sorted[i].Timestamp)] += delta
		}
	}

	today := TodayKey(now)

	out := make([]models.HeatmapDay, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := today - int64(i)*DayMillis
		count := gains[day]
		out = append(out, models.HeatmapDay{DateKey: day, Count: count, Level: HeatLevel(count)})
	}
	return out
}

// HeatLevel buckets a daily count into intensity levels 0-4.
func HeatLevel(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 1:
		return 1
	case count <= 3:
		return 2
	case count <= 5:
		return 3
	default:
		return 4
	}
}

package aggregate

import "github.com/j-veylop/lc-dashboard-tui/internal/models"

// ProgressSeries maps the axis onto progress buckets. Days without a snapshot
// of their own get nil counts; nothing is zeroed or carried forward.
func ProgressSeries(axis []int64, buckets map[int64]models.ProgressSnapshot) []models.ChartPoint {
	points := make([]models.ChartPoint, 0, len(axis))
	for _, key := range axis {
		point := models.ChartPoint{DateKey: key, Label: FormatDate(key)}
		if s, ok := buckets[key]; ok {
			easy, medium, hard := s.Easy, s.Medium, s.Hard
			point.Easy, point.Medium, point.Hard = &easy, &medium, &hard
		}
		points = append(points, point)
	}
	return points
}

// MasterySeries maps the axis onto mastery buckets. Days without a snapshot
// repeat the most recent earlier snapshot verbatim, or an all-zero snapshot
// stamped with the day when none exists yet.
func MasterySeries(axis []int64, buckets map[int64]models.MasterySnapshot) []models.MasteryPoint {
	points := make([]models.MasteryPoint, 0, len(axis))

	var last models.MasterySnapshot
	haveLast := false

	for _, key := range axis {
		if s, ok := buckets[key]; ok {
			last, haveLast = s, true
			points = append(points, models.MasteryPoint{DateKey: key, MasterySnapshot: s})
			continue
		}

		filled := models.MasterySnapshot{Timestamp: key}
		if haveLast {
			filled = last
		}
		points = append(points, models.MasteryPoint{DateKey: key, MasterySnapshot: filled, Filled: true})
	}
	return points
}

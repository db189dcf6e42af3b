package models

import "time"

// TimeRange represents the selected history time range.
type TimeRange int

const (
	// TimeRange7Days shows the last 7 days.
	TimeRange7Days TimeRange = iota
	// TimeRange30Days shows the last 30 days.
	TimeRange30Days
	// TimeRange90Days shows the last 90 days.
	TimeRange90Days
	// TimeRangeAllTime shows all available historical data.
	TimeRangeAllTime
)

// String returns the display name for a time range.
func (t TimeRange) String() string {
	switch t {
	case TimeRange7Days:
		return "7 Days"
	case TimeRange30Days:
		return "30 Days"
	case TimeRange90Days:
		return "90 Days"
	case TimeRangeAllTime:
		return "All Time"
	default:
		return "Unknown"
	}
}

// Days returns the number of days for the time range (0 = unlimited).
func (t TimeRange) Days() int {
	switch t {
	case TimeRange7Days:
		return 7
	case TimeRange30Days:
		return 30
	case TimeRange90Days:
		return 90
	case TimeRangeAllTime:
		return 0
	default:
		return 30
	}
}

// Next cycles to the next time range.
func (t TimeRange) Next() TimeRange {
	return (t + 1) % 4
}

// HistoryWindow is the chart data for a time range.
type HistoryWindow struct {
	Range   TimeRange
	Chart   []ChartPoint
	Mastery []MasteryPoint
	Heatmap []HeatmapDay
}

// HasData returns true if the window contains any chart points.
func (h *HistoryWindow) HasData() bool {
	return h != nil && len(h.Chart) > 0
}

// Span returns the first and last day covered by the window.
func (h *HistoryWindow) Span() (first, last time.Time) {
	if !h.HasData() {
		return time.Time{}, time.Time{}
	}
	first = time.UnixMilli(h.Chart[0].DateKey).UTC()
	last = time.UnixMilli(h.Chart[len(h.Chart)-1].DateKey).UTC()
	return first, last
}

// Stats summarizes what is stored.
type Stats struct {
	ProgressCount  int
	MasteryCount   int
	FirstSnapshot  time.Time
	LastSnapshot   time.Time
	LastCollection time.Time
}

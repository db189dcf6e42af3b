package models

import "time"

// ChartPoint is one day on the unified date axis of the progress chart.
// A nil count means the day has no snapshot of its own.
type ChartPoint struct {
	DateKey int64
	Label   string
	Easy    *int
	Medium  *int
	Hard    *int
}

// HasData reports whether the day carries a recorded snapshot.
func (c ChartPoint) HasData() bool {
	return c.Easy != nil
}

// MasteryPoint is one day of the gap-filled mastery series.
type MasteryPoint struct {
	DateKey int64
	MasterySnapshot
	// Filled is set when the day has no snapshot of its own and the values were
	// carried forward from an earlier day (or zeroed when there is none).
	Filled bool
}

// DailyActivity is the change in accepted counts on a single calendar day.
type DailyActivity struct {
	DateKey     int64
	Label       string
	Easy        int
	Medium      int
	Hard        int
	Total       int
	HasSnapshot bool
}

// WeeklyActivity sums daily deltas over the trailing seven days.
type WeeklyActivity struct {
	Easy   int
	Medium int
	Hard   int
	Total  int
}

// SkillPoint is a ranked skill tag.
type SkillPoint struct {
	Name  string
	Value int
}

// HeatmapDay is one cell of the activity heatmap.
type HeatmapDay struct {
	DateKey int64
	Count   int
	Level   int
}

// Dashboard is the full derived view over the stored history.
type Dashboard struct {
	GeneratedAt time.Time

	Current       *ProgressSnapshot
	LatestMastery *MasterySnapshot
	Targets       DifficultyTargets

	Chart    []ChartPoint
	Mastery  []MasteryPoint
	Activity []DailyActivity
	Weekly   WeeklyActivity
	Heatmap  []HeatmapDay
	Skills   []SkillPoint

	ProgressPrediction *time.Time
	MasteryPrediction  *time.Time

	ProgressPercent float64
	MasteryPercent  float64
}

// HasData reports whether any progress snapshot was available.
func (d *Dashboard) HasData() bool {
	return d != nil && d.Current != nil
}

// HasMastery reports whether mastery data was available.
func (d *Dashboard) HasMastery() bool {
	return d != nil && d.LatestMastery != nil
}

package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// Display defaults.
const (
	DefaultActivityDays = 5
	CompactActivityDays = 2
	DefaultHeatmapDays  = 365
)

// Options configures Build. Zero values fall back to the defaults.
type Options struct {
	RegressionWindow int
	MinPoints        int
	HorizonDays      int
	TopSkills        int
	ActivityDays     int
	HeatmapDays      int
	Targets          models.DifficultyTargets
}

// DefaultOptions returns the standard dashboard options.
func DefaultOptions() Options {
	return Options{
		RegressionWindow: DefaultRegressionWindow,
		MinPoints:        DefaultMinPoints,
		HorizonDays:      DefaultHorizonDays,
		TopSkills:        DefaultTopSkills,
		ActivityDays:     DefaultActivityDays,
		HeatmapDays:      DefaultHeatmapDays,
		Targets:          models.Top150Targets,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RegressionWindow <= 0 {
		o.RegressionWindow = d.RegressionWindow
	}
	if o.MinPoints <= 0 {
		o.MinPoints = d.MinPoints
	}
	if o.HorizonDays <= 0 {
		o.HorizonDays = d.HorizonDays
	}
	if o.TopSkills <= 0 {
		o.TopSkills = d.TopSkills
	}
	if o.ActivityDays <= 0 {
		o.ActivityDays = d.ActivityDays
	}
	if o.HeatmapDays <= 0 {
		o.HeatmapDays = d.HeatmapDays
	}
	if o.Targets.Sum() <= 0 {
		o.Targets = d.Targets
	}
	return o
}

func (o Options) predict() PredictOptions {
	return PredictOptions{Window: o.RegressionWindow, MinPoints: o.MinPoints, HorizonDays: o.HorizonDays}
}

// Build derives the dashboard from the full snapshot history. Without any
// progress snapshot it returns a dashboard that reports no data. Mastery data
// is optional and only affects the mastery fields.
func Build(progress []models.ProgressSnapshot, mastery []models.MasterySnapshot, now time.Time, opts Options) *models.Dashboard {
	opts = opts.withDefaults()

	d := &models.Dashboard{GeneratedAt: now, Targets: opts.Targets}
	if len(progress) == 0 {
		return d
	}

	progressBuckets := BucketProgress(progress)
	axis := BuildAxis(progress, mastery)

	current := latestProgress(progress)
	d.Current = &current
	d.Chart = ProgressSeries(axis, progressBuckets)
	d.Activity = Activity(progressBuckets, now, opts.ActivityDays)
	d.Weekly = Weekly(progressBuckets, now)
	d.Heatmap = Heatmap(progress, now, opts.HeatmapDays)
	d.Skills = RankSkills(current.TagsJSON, opts.TopSkills)

	target := opts.Targets.Sum()
	d.ProgressPrediction = PredictMilestone(dailyTotals(progressBuckets), float64(target), now, opts.predict())
	d.ProgressPercent = percent(current.Total(), target)

	if len(mastery) == 0 {
		return d
	}

	masteryBuckets := BucketMastery(mastery)
	latest := latestMastery(mastery)
	d.LatestMastery = &latest
	d.Mastery = MasterySeries(axis, masteryBuckets)

	if reviewed := latest.Reviewed(); reviewed > 0 {
		d.MasteryPrediction = PredictMilestone(dailyStrong(masteryBuckets), float64(reviewed), now, opts.predict())
		d.MasteryPercent = percent(latest.Strong, reviewed)
	}

	return d
}

// Window trims the dashboard's day series to the trailing range, ending at
// the last day of the axis.
func Window(d *models.Dashboard, tr models.TimeRange) *models.HistoryWindow {
	w := &models.HistoryWindow{Range: tr}
	if !d.HasData() {
		return w
	}

	w.Chart = d.Chart
	w.Mastery = d.Mastery
	w.Heatmap = d.Heatmap

	days := tr.Days()
	if days <= 0 || len(d.Chart) == 0 {
		return w
	}

	cutoff := d.Chart[len(d.Chart)-1].DateKey - int64(days-1)*DayMillis
	w.Chart = trimChart(d.Chart, cutoff)
	w.Mastery = trimMastery(d.Mastery, cutoff)
	return w
}

func trimChart(points []models.ChartPoint, cutoff int64) []models.ChartPoint {
	idx, _ := slices.BinarySearchFunc(points, cutoff, func(p models.ChartPoint, key int64) int {
		return cmp.Compare(p.DateKey, key)
	})
	return points[idx:]
}

func trimMastery(points []models.MasteryPoint, cutoff int64) []models.MasteryPoint {
	idx, _ := slices.BinarySearchFunc(points, cutoff, func(p models.MasteryPoint, key int64) int {
		return cmp.Compare(p.DateKey, key)
	})
	return points[idx:]
}

func dailyTotals(buckets map[int64]models.ProgressSnapshot) []float64 {
	keys := sortedKeys(buckets)
	values := make([]float64, len(keys))
	for i, key := range keys {
		values[i] = float64(buckets[key].Total())
	}
	return values
}

func dailyStrong(buckets map[int64]models.MasterySnapshot) []float64 {
	keys := sortedKeys(buckets)
	values := make([]float64, len(keys))
	for i, key := range keys {
		values[i] = float64(buckets[key].Strong)
	}
	return values
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return min(100, float64(part)/float64(whole)*100)
}

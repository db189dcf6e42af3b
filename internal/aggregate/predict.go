package aggregate

import (
	"math"
	"time"
)

// Prediction defaults.
const (
	DefaultRegressionWindow = 14
	DefaultMinPoints        = 3
	DefaultHorizonDays      = 730
)

// PredictOptions tunes PredictMilestone.
type PredictOptions struct {
	Window      int
	MinPoints   int
	HorizonDays int
}

func (o PredictOptions) withDefaults() PredictOptions {
	if o.Window <= 0 {
		o.Window = DefaultRegressionWindow
	}
	if o.MinPoints <= 0 {
		o.MinPoints = DefaultMinPoints
	}
	if o.HorizonDays <= 0 {
		o.HorizonDays = DefaultHorizonDays
	}
	return o
}

// PredictMilestone projects the day a series of daily values reaches target,
// using a least-squares line over the trailing window. It returns nil when
// there are too few points, the target is already met, the trend is flat or
// falling, or the projected date lies beyond the horizon.
func PredictMilestone(values []float64, target float64, now time.Time, opts PredictOptions) *time.Time {
	opts = opts.withDefaults()

	window := values
	if len(window) > opts.Window {
		window = window[len(window)-opts.Window:]
	}
	if len(window) < opts.MinPoints {
		return nil
	}

	current := window[len(window)-1]
	if current >= target {
		return nil
	}

	slope := Slope(window)
	if slope <= 0 {
		return nil
	}

	days := math.Ceil((target - current) / slope)
	if days > float64(opts.HorizonDays) {
		return nil
	}

	date := time.UnixMilli(TodayKey(now)).UTC().AddDate(0, 0, int(days))
	return &date
}

// Slope returns the ordinary least-squares slope of values against their index.
func Slope(values []float64) float64 {
	n := float64(len(values))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumX2 float64
	for i, y := range values {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumX2 += x * x
	}

	return (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
}

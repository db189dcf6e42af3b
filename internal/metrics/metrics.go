// Package metrics exposes collection and progress metrics for Prometheus.
package metrics

import (
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// Goal label values for days_to_goal.
const (
	GoalProgress = "progress"
	GoalMastery  = "mastery"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets custom buckets for the collection duration histogram.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithRegistry registers metrics on the given registry instead of a private one.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Manager owns the metric collectors.
type Manager struct {
	namespace        string
	histogramBuckets []float64
	registry         *prometheus.Registry

	snapshotsCollected prometheus.Counter
	collectErrors      prometheus.Counter
	masteryImports     prometheus.Counter
	collectDuration    prometheus.Histogram

	problemsSolved  *prometheus.GaugeVec
	masteryStrong   prometheus.Gauge
	progressPercent prometheus.Gauge
	masteryPercent  prometheus.Gauge
	daysToGoal      *prometheus.GaugeVec
}

// NewManager creates a metrics manager on a private registry unless one is supplied.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "lcd",
		histogramBuckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.registry == nil {
		m.registry = prometheus.NewRegistry()
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.snapshotsCollected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "snapshots_collected_total",
		Help:      "Total number of progress snapshots collected and stored",
	})

	m.collectErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "collect_errors_total",
		Help:      "Total number of failed collection runs",
	})

	m.masteryImports = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "mastery_imports_total",
		Help:      "Total number of mastery snapshots imported",
	})

	m.collectDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "collect_duration_seconds",
		Help:      "Duration of collection runs including retries",
		Buckets:   m.histogramBuckets,
	})

	m.problemsSolved = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "problems_solved",
		Help:      "Accepted problems in the latest snapshot by difficulty",
	}, []string{"difficulty"})

	m.masteryStrong = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "mastery_strong",
		Help:      "Strong items in the latest mastery snapshot",
	})

	m.progressPercent = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "progress_percent",
		Help:      "Share of the target curriculum solved",
	})

	m.masteryPercent = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "mastery_percent",
		Help:      "Share of reviewed items classified strong",
	})

	m.daysToGoal = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      "days_to_goal",
		Help:      "Predicted days until the goal is reached, -1 without a prediction",
	}, []string{"goal"})
}

// Registry returns the registry the metrics are registered on.
func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler for this manager's registry.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SnapshotCollected records a successful collection run.
func (m *Manager) SnapshotCollected(d time.Duration) {
	m.snapshotsCollected.Inc()
	m.collectDuration.Observe(d.Seconds())
}

// CollectFailed records a failed collection run.
func (m *Manager) CollectFailed(d time.Duration) {
	m.collectErrors.Inc()
	m.collectDuration.Observe(d.Seconds())
}

// MasteryImported records imported mastery snapshots.
func (m *Manager) MasteryImported(n int) {
	if n > 0 {
		m.masteryImports.Add(float64(n))
	}
}

// ObserveDashboard updates the gauges from a freshly built dashboard.
func (m *Manager) ObserveDashboard(d *models.Dashboard, now time.Time) {
	if d.HasData() {
		m.problemsSolved.WithLabelValues(models.DifficultyEasy).Set(float64(d.Current.Easy))
		m.problemsSolved.WithLabelValues(models.DifficultyMedium).Set(float64(d.Current.Medium))
		m.problemsSolved.WithLabelValues(models.DifficultyHard).Set(float64(d.Current.Hard))
		m.progressPercent.Set(d.ProgressPercent)
	}
	if d.HasMastery() {
		m.masteryStrong.Set(float64(d.LatestMastery.Strong))
		m.masteryPercent.Set(d.MasteryPercent)
	}

	m.daysToGoal.WithLabelValues(GoalProgress).Set(daysUntil(d.ProgressPrediction, now))
	m.daysToGoal.WithLabelValues(GoalMastery).Set(daysUntil(d.MasteryPrediction, now))
}

func daysUntil(target *time.Time, now time.Time) float64 {
	if target == nil {
		return -1
	}
	return math.Max(0, math.Ceil(target.Sub(now).Hours()/24))
}

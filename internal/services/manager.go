// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"
	"github.com/google/uuid"

	"github.com/j-veylop/lc-dashboard-tui/internal/aggregate"
	"github.com/j-veylop/lc-dashboard-tui/internal/config"
	"github.com/j-veylop/lc-dashboard-tui/internal/db"
	"github.com/j-veylop/lc-dashboard-tui/internal/logger"
	"github.com/j-veylop/lc-dashboard-tui/internal/metrics"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
	"github.com/j-veylop/lc-dashboard-tui/internal/services/leetcode"
	"github.com/j-veylop/lc-dashboard-tui/internal/services/mastery"
)

type (
	// DashboardUpdatedEvent is emitted after the dashboard was recomputed.
	DashboardUpdatedEvent struct {
		Dashboard *models.Dashboard
	}

	// CollectingEvent is emitted when a collection run starts.
	CollectingEvent struct {
		RunID string
	}

	// SnapshotCollectedEvent is emitted when a snapshot was fetched and stored.
	SnapshotCollectedEvent struct {
		Snapshot *models.ProgressSnapshot
		Duration time.Duration
	}

	// MasteryImportedEvent is emitted after a mastery file was processed.
	MasteryImportedEvent struct {
		Result mastery.Result
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// Service names carried by ErrorEvent.
const (
	ServiceLeetCode = "leetcode"
	ServiceMastery  = "mastery"
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (DashboardUpdatedEvent) isServiceEvent()  {}
func (CollectingEvent) isServiceEvent()        {}
func (SnapshotCollectedEvent) isServiceEvent() {}
func (MasteryImportedEvent) isServiceEvent()   {}
func (ErrorEvent) isServiceEvent()             {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	subscribers []chan<- ServiceEvent
	closed      bool

	database  *db.DB
	collector *leetcode.Service
	mastery   *mastery.Service
	metrics   *metrics.Manager
	server    *metrics.Server

	stopChan  chan struct{}
	closeOnce sync.Once

	refreshMu sync.Mutex
	dashMu    sync.RWMutex
	dashboard *models.Dashboard

	options  aggregate.Options
	notifyOn bool
	notify   func(title, body string) error
	now      func() time.Time
}

// NewManager creates a new service manager. Polling only starts when
// credentials are configured.
func NewManager(cfg *config.Config) (*Manager, error) {
	client := leetcode.NewClient(leetcode.Credentials{
		Cookie:   cfg.LeetCodeCookie,
		CSRF:     cfg.LeetCodeCSRF,
		Username: cfg.LeetCodeUsername,
		UserSlug: cfg.LeetCodeUserSlug,
	}, nil)

	return newManager(cfg, client)
}

func newManager(cfg *config.Config, collector leetcode.Collector) (*Manager, error) {
	m := &Manager{
		stopChan: make(chan struct{}),
		metrics:  metrics.NewManager(),
		options: aggregate.Options{
			RegressionWindow: cfg.RegressionWindow,
			HorizonDays:      cfg.PredictionHorizon,
			TopSkills:        cfg.TopSkills,
		},
		notifyOn: cfg.NotificationsEnabled,
		notify:   desktopNotify,
		now:      time.Now,
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if _, err := m.RefreshDashboard(); err != nil {
		_ = m.database.Close()
		return nil, err
	}

	if cfg.MasteryImportPath != "" {
		m.mastery, err = mastery.New(cfg.MasteryImportPath, m.database)
		if err != nil {
			_ = m.database.Close()
			return nil, fmt.Errorf("failed to start mastery import: %w", err)
		}
	}

	if cfg.MetricsAddr != "" {
		m.server = metrics.NewServer(cfg.MetricsAddr, m.metrics)
		if err := m.server.Start(); err != nil {
			logger.Warn("metrics server disabled", "addr", cfg.MetricsAddr, "error", err)
			m.server = nil
		}
	}

	m.collector = leetcode.New(collector, m.database, leetcode.Config{
		PollInterval: cfg.CollectInterval,
		Manual:       !cfg.HasCredentials(),
	})

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	// A nil channel never fires, so a missing mastery service is ignored.
	var masteryEvents <-chan mastery.Event
	if m.mastery != nil {
		masteryEvents = m.mastery.Events()
	}

	for {
		select {
		case event := <-m.collector.Events():
			m.handleCollectEvent(event)

		case event := <-masteryEvents:
			m.handleMasteryEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

func (m *Manager) handleCollectEvent(event leetcode.Event) {
	switch event.Type {
	case leetcode.EventCollecting:
		m.broadcast(CollectingEvent{RunID: event.RunID})

	case leetcode.EventSnapshotCollected:
		m.metrics.SnapshotCollected(event.Duration)
		m.broadcast(SnapshotCollectedEvent{Snapshot: event.Snapshot, Duration: event.Duration})
		m.refreshFromEvent(ServiceLeetCode)

	case leetcode.EventCollectError:
		m.metrics.CollectFailed(event.Duration)
		m.broadcast(ErrorEvent{Service: ServiceLeetCode, Error: event.Error})
	}
}

func (m *Manager) handleMasteryEvent(event mastery.Event) {
	switch event.Type {
	case mastery.EventImported:
		m.metrics.MasteryImported(event.Result.Imported)
		m.broadcast(MasteryImportedEvent{Result: event.Result})
		if event.Result.Imported > 0 {
			m.refreshFromEvent(ServiceMastery)
		}

	case mastery.EventError:
		m.broadcast(ErrorEvent{Service: ServiceMastery, Error: event.Error})
	}
}

func (m *Manager) refreshFromEvent(service string) {
	if _, err := m.RefreshDashboard(); err != nil {
		m.broadcast(ErrorEvent{Service: service, Error: err})
	}
}

// RefreshDashboard reloads the full history, rebuilds the dashboard and
// broadcasts it. Concurrent refreshes run one at a time so the stored
// dashboard always reflects the latest load.
func (m *Manager) RefreshDashboard() (*models.Dashboard, error) {
	m.refreshMu.Lock()
	defer m.refreshMu.Unlock()

	progress, err := m.database.GetProgressHistory(0)
	if err != nil {
		return nil, err
	}
	masteryHistory, err := m.database.GetMasteryHistory(0)
	if err != nil {
		return nil, err
	}

	now := m.now()
	dashboard := aggregate.Build(progress, masteryHistory, now, m.options)

	m.dashMu.Lock()
	previous := m.dashboard
	m.dashboard = dashboard
	m.dashMu.Unlock()

	m.metrics.ObserveDashboard(dashboard, now)
	m.checkNotifications(previous, dashboard)
	m.broadcast(DashboardUpdatedEvent{Dashboard: dashboard})

	return dashboard, nil
}

// checkNotifications compares consecutive dashboards. The first load never notifies.
func (m *Manager) checkNotifications(previous, current *models.Dashboard) {
	if !m.notifyOn || !previous.HasData() || !current.HasData() {
		return
	}

	if gained := current.Current.Total() - previous.Current.Total(); gained > 0 {
		m.sendNotification(
			fmt.Sprintf("+%d problems solved", gained),
			fmt.Sprintf("%d of %d solved (%.0f%%)", current.Current.Total(), current.Targets.Sum(), current.ProgressPercent),
		)
	}

	if previous.ProgressPercent < 100 && current.ProgressPercent >= 100 {
		m.sendNotification("Goal reached", "Every problem in the target list is solved.")
	}
}

func (m *Manager) sendNotification(title, body string) {
	id := uuid.NewString()
	if err := m.notify(title, body); err != nil {
		logger.Warn("notification failed", "id", id, "title", title, "error", err)
		return
	}
	logger.Debug("notification sent", "id", id, "title", title)
}

func desktopNotify(title, body string) error {
	return beeep.Notify(title, body, "")
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return
	}

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, WaitForEvent(ch)
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return event
	}
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Dashboard returns the cached dashboard.
func (m *Manager) Dashboard() *models.Dashboard {
	m.dashMu.RLock()
	defer m.dashMu.RUnlock()
	return m.dashboard
}

// History returns the chart series trimmed to the time range.
func (m *Manager) History(tr models.TimeRange) *models.HistoryWindow {
	return aggregate.Window(m.Dashboard(), tr)
}

// CollectNow triggers a collection. The dashboard refresh follows from the
// resulting event.
func (m *Manager) CollectNow(ctx context.Context) (*models.ProgressSnapshot, error) {
	return m.collector.CollectNow(ctx)
}

// ImportMastery imports a mastery file. Without a running watcher the
// dashboard is refreshed directly.
func (m *Manager) ImportMastery(path string) (mastery.Result, error) {
	if m.mastery != nil {
		return m.mastery.Import(path)
	}

	result, err := mastery.ImportFile(m.database, path)
	if err != nil {
		return result, err
	}
	m.metrics.MasteryImported(result.Imported)
	if result.Imported > 0 {
		if _, err := m.RefreshDashboard(); err != nil {
			return result, err
		}
	}
	return result, nil
}

// GetStats returns storage statistics.
func (m *Manager) GetStats() (*models.Stats, error) {
	return m.database.GetStats()
}

// LastCollection returns the time and error of the most recent collection attempt.
func (m *Manager) LastCollection() (time.Time, error) {
	_, at, err := m.collector.Last()
	return at, err
}

// CollectInterval returns the polling interval.
func (m *Manager) CollectInterval() time.Duration {
	return m.collector.Interval()
}

// MetricsAddr returns the metrics listen address, or "" when disabled.
func (m *Manager) MetricsAddr() string {
	if m.server == nil {
		return ""
	}
	return m.server.Addr()
}

// Metrics returns the metrics manager.
func (m *Manager) Metrics() *metrics.Manager {
	return m.metrics
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	var errs []error

	m.closeOnce.Do(func() {
		close(m.stopChan)

		m.mu.Lock()
		m.closed = true
		for _, sub := range m.subscribers {
			close(sub)
		}
		m.subscribers = nil
		m.mu.Unlock()

		if err := m.collector.Close(); err != nil {
			errs = append(errs, err)
		}

		if m.mastery != nil {
			if err := m.mastery.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if m.server != nil {
			if err := m.server.Close(); err != nil {
				errs = append(errs, err)
			}
		}

		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	})

	return errors.Join(errs...)
}

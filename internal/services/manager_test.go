package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/j-veylop/lc-dashboard-tui/internal/config"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
	"github.com/j-veylop/lc-dashboard-tui/internal/services/leetcode"
)

type fakeCollector struct {
	mu        sync.Mutex
	snapshots []models.ProgressSnapshot
	err       error
}

func (f *fakeCollector) Collect(_ context.Context, now time.Time) (*models.ProgressSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	if len(f.snapshots) == 0 {
		return nil, errors.New("no snapshot queued")
	}
	s := f.snapshots[0]
	f.snapshots = f.snapshots[1:]
	s.Timestamp = now.UnixMilli()
	return &s, nil
}

type notification struct {
	title string
	body  string
}

type recorder struct {
	mu   sync.Mutex
	sent []notification
}

func (r *recorder) notify(title, body string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, notification{title: title, body: body})
	return nil
}

func (r *recorder) titles() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	titles := make([]string, len(r.sent))
	for i, n := range r.sent {
		titles[i] = n.title
	}
	return titles
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DatabasePath:      filepath.Join(dir, "history.db"),
		MasteryImportPath: filepath.Join(dir, "import", "mastery.json"),
		CollectInterval:   time.Hour,
	}
}

func newTestManager(t *testing.T, collector leetcode.Collector) (*Manager, *recorder) {
	t.Helper()
	cfg := testConfig(t)
	cfg.NotificationsEnabled = true

	mgr, err := newManager(cfg, collector)
	if err != nil {
		t.Fatalf("newManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	rec := &recorder{}
	mgr.notify = rec.notify
	return mgr, rec
}

// waitFor drains events until match returns true.
func waitFor(t *testing.T, ch <-chan ServiceEvent, match func(ServiceEvent) bool) ServiceEvent {
	t.Helper()
	timeout := time.After(5 * time.Second)
	for {
		select {
		case event, ok := <-ch:
			if !ok {
				t.Fatal("event channel closed")
			}
			if match(event) {
				return event
			}
		case <-timeout:
			t.Fatal("timeout waiting for event")
			return nil
		}
	}
}

func isDashboardWith(check func(*models.Dashboard) bool) func(ServiceEvent) bool {
	return func(e ServiceEvent) bool {
		ev, ok := e.(DashboardUpdatedEvent)
		return ok && check(ev.Dashboard)
	}
}

func TestNewManager(t *testing.T) {
	mgr, err := NewManager(testConfig(t))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
	if mgr.Metrics() == nil {
		t.Error("Metrics should be initialized")
	}
	if d := mgr.Dashboard(); d == nil || d.HasData() {
		t.Errorf("Dashboard = %+v, want empty dashboard", d)
	}
	if mgr.MetricsAddr() != "" {
		t.Errorf("MetricsAddr = %q, want empty", mgr.MetricsAddr())
	}
	if mgr.CollectInterval() != time.Hour {
		t.Errorf("CollectInterval = %v, want 1h", mgr.CollectInterval())
	}
}

func TestNewManager_InvalidDatabasePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig(t)
	cfg.DatabasePath = filepath.Join(blocker, "history.db")

	if _, err := NewManager(cfg); err == nil {
		t.Error("expected error for unusable database path")
	}
}

func TestManager_CollectNowWithoutCredentials(t *testing.T) {
	mgr, err := NewManager(testConfig(t))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	defer mgr.Close()

	ch, _ := mgr.Subscribe()

	if _, err := mgr.CollectNow(context.Background()); !errors.Is(err, leetcode.ErrMissingCredentials) {
		t.Fatalf("CollectNow error = %v, want ErrMissingCredentials", err)
	}

	event := waitFor(t, ch, func(e ServiceEvent) bool {
		_, ok := e.(ErrorEvent)
		return ok
	}).(ErrorEvent)
	if event.Service != "leetcode" {
		t.Errorf("Service = %q, want leetcode", event.Service)
	}

	_, lastErr := mgr.LastCollection()
	if !errors.Is(lastErr, leetcode.ErrMissingCredentials) {
		t.Errorf("LastCollection error = %v", lastErr)
	}
}

func TestManager_CollectNowRefreshesDashboard(t *testing.T) {
	collector := &fakeCollector{snapshots: []models.ProgressSnapshot{
		{Easy: 10, Medium: 5, Hard: 1, TagsJSON: "{}"},
	}}
	mgr, _ := newTestManager(t, collector)
	ch, _ := mgr.Subscribe()

	if _, err := mgr.CollectNow(context.Background()); err != nil {
		t.Fatalf("CollectNow failed: %v", err)
	}

	waitFor(t, ch, func(e ServiceEvent) bool {
		_, ok := e.(CollectingEvent)
		return ok
	})
	waitFor(t, ch, func(e ServiceEvent) bool {
		_, ok := e.(SnapshotCollectedEvent)
		return ok
	})
	waitFor(t, ch, isDashboardWith((*models.Dashboard).HasData))

	d := mgr.Dashboard()
	if d.Current.Easy != 10 || d.Current.Medium != 5 || d.Current.Hard != 1 {
		t.Errorf("Current = %+v", d.Current)
	}

	stats, err := mgr.GetStats()
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.ProgressCount != 1 {
		t.Errorf("ProgressCount = %d, want 1", stats.ProgressCount)
	}
}

func TestManager_NotifiesOnNewSolves(t *testing.T) {
	collector := &fakeCollector{snapshots: []models.ProgressSnapshot{
		{Easy: 10, Medium: 5, Hard: 1},
		{Easy: 12, Medium: 6, Hard: 1},
	}}
	mgr, rec := newTestManager(t, collector)
	ch, _ := mgr.Subscribe()

	for want := 16; want <= 19; want += 3 {
		if _, err := mgr.CollectNow(context.Background()); err != nil {
			t.Fatalf("CollectNow failed: %v", err)
		}
		waitFor(t, ch, isDashboardWith(func(d *models.Dashboard) bool {
			return d.HasData() && d.Current.Total() == want
		}))
	}

	titles := rec.titles()
	if len(titles) != 1 || titles[0] != "+3 problems solved" {
		t.Errorf("notifications = %v, want [+3 problems solved]", titles)
	}
}

func TestManager_CheckNotifications(t *testing.T) {
	mgr, rec := newTestManager(t, &fakeCollector{})

	dash := func(total int, pct float64) *models.Dashboard {
		return &models.Dashboard{
			Current:         &models.ProgressSnapshot{Easy: total},
			Targets:         models.Top150Targets,
			ProgressPercent: pct,
		}
	}

	mgr.checkNotifications(nil, dash(10, 10))
	if len(rec.titles()) != 0 {
		t.Fatalf("first load should not notify, got %v", rec.titles())
	}

	mgr.checkNotifications(dash(149, 99.3), dash(150, 100))
	titles := rec.titles()
	if len(titles) != 2 || titles[0] != "+1 problems solved" || titles[1] != "Goal reached" {
		t.Errorf("notifications = %v", titles)
	}

	mgr.checkNotifications(dash(150, 100), dash(151, 100))
	if got := rec.titles(); len(got) != 3 {
		t.Errorf("goal should only be reported once, got %v", got)
	}

	mgr.notifyOn = false
	mgr.checkNotifications(dash(151, 100), dash(160, 100))
	if got := rec.titles(); len(got) != 3 {
		t.Errorf("disabled notifications still sent: %v", got)
	}
}

func TestManager_ConcurrentRefreshesStoreLatest(t *testing.T) {
	mgr, _ := newTestManager(t, &fakeCollector{})
	ch, _ := mgr.Subscribe()

	const rounds = 10
	base := time.Now().Add(-time.Hour).UnixMilli()

	var wg sync.WaitGroup
	for i := range rounds {
		snapshot := &models.ProgressSnapshot{Timestamp: base + int64(i)*1000, Easy: i + 1}
		if err := mgr.Database().InsertProgressSnapshot(snapshot); err != nil {
			t.Fatalf("InsertProgressSnapshot failed: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := mgr.RefreshDashboard(); err != nil {
				t.Errorf("RefreshDashboard failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := mgr.Dashboard().Current.Easy; got != rounds {
		t.Errorf("final dashboard Easy = %d, want %d", got, rounds)
	}

	last := 0
	for {
		select {
		case e := <-ch:
			ev, ok := e.(DashboardUpdatedEvent)
			if !ok || !ev.Dashboard.HasData() {
				continue
			}
			if easy := ev.Dashboard.Current.Easy; easy < last {
				t.Errorf("dashboard went backwards: %d after %d", easy, last)
			} else {
				last = easy
			}
		default:
			if last != rounds {
				t.Errorf("last broadcast Easy = %d, want %d", last, rounds)
			}
			return
		}
	}
}

func TestManager_ImportMasteryTimestamplessFileOnce(t *testing.T) {
	mgr, _ := newTestManager(t, &fakeCollector{})

	path := filepath.Join(t.TempDir(), "drop.json")
	if err := os.WriteFile(path, []byte(`{"counts": {"strong": 2, "weak": 2}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	for range 2 {
		if _, err := mgr.ImportMastery(path); err != nil {
			t.Fatalf("ImportMastery failed: %v", err)
		}
	}

	history, err := mgr.Database().GetMasteryHistory(0)
	if err != nil {
		t.Fatalf("GetMasteryHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected 1 mastery snapshot, got %d", len(history))
	}
}

func TestManager_ImportMastery(t *testing.T) {
	mgr, _ := newTestManager(t, &fakeCollector{})
	ch, _ := mgr.Subscribe()

	if err := mgr.Database().InsertProgressSnapshot(&models.ProgressSnapshot{Easy: 3}); err != nil {
		t.Fatalf("InsertProgressSnapshot failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "drop.json")
	payload := `{"timestamp": 1700000000000, "counts": {"strong": 4, "learning": 2, "weak": 1, "leech": 1, "unknown": 2, "total": 10}}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	result, err := mgr.ImportMastery(path)
	if err != nil {
		t.Fatalf("ImportMastery failed: %v", err)
	}
	if result.Imported != 1 {
		t.Errorf("Imported = %d, want 1", result.Imported)
	}

	waitFor(t, ch, func(e ServiceEvent) bool {
		ev, ok := e.(MasteryImportedEvent)
		return ok && ev.Result.Imported == 1
	})
	waitFor(t, ch, isDashboardWith((*models.Dashboard).HasMastery))

	d := mgr.Dashboard()
	if d.LatestMastery.Strong != 4 {
		t.Errorf("Strong = %d, want 4", d.LatestMastery.Strong)
	}
	if d.MasteryPercent != 50 {
		t.Errorf("MasteryPercent = %v, want 50", d.MasteryPercent)
	}
}

func TestManager_ImportMasteryWithoutWatcher(t *testing.T) {
	cfg := testConfig(t)
	cfg.MasteryImportPath = ""

	mgr, err := newManager(cfg, &fakeCollector{})
	if err != nil {
		t.Fatalf("newManager failed: %v", err)
	}
	defer mgr.Close()

	if err := mgr.Database().InsertProgressSnapshot(&models.ProgressSnapshot{Easy: 1}); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "drop.json")
	if err := os.WriteFile(path, []byte(`{"timestamp": 1700000000000, "counts": {"strong": 1}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.ImportMastery(path); err != nil {
		t.Fatalf("ImportMastery failed: %v", err)
	}
	if !mgr.Dashboard().HasMastery() {
		t.Error("dashboard should be refreshed synchronously")
	}

	if _, err := mgr.ImportMastery(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestManager_History(t *testing.T) {
	mgr, _ := newTestManager(t, &fakeCollector{})

	day := int64(24 * time.Hour / time.Millisecond)
	for i := range 40 {
		if err := mgr.Database().InsertProgressSnapshot(&models.ProgressSnapshot{
			Timestamp: 1700000000000 + int64(i)*day,
			Easy:      i,
		}); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := mgr.RefreshDashboard(); err != nil {
		t.Fatalf("RefreshDashboard failed: %v", err)
	}

	if got := len(mgr.History(models.TimeRange7Days).Chart); got != 7 {
		t.Errorf("7 day window has %d points", got)
	}
	if got := len(mgr.History(models.TimeRangeAllTime).Chart); got != 40 {
		t.Errorf("all time window has %d points", got)
	}
}

func TestManager_MetricsServer(t *testing.T) {
	cfg := testConfig(t)
	cfg.MetricsAddr = "127.0.0.1:0"

	mgr, err := newManager(cfg, &fakeCollector{})
	if err != nil {
		t.Fatalf("newManager failed: %v", err)
	}
	defer mgr.Close()

	if mgr.MetricsAddr() == "" || mgr.MetricsAddr() == cfg.MetricsAddr {
		t.Errorf("MetricsAddr = %q, want bound address", mgr.MetricsAddr())
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr, _ := newTestManager(t, &fakeCollector{})

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	mgr.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("Channel should be closed")
	}
}

func TestManager_BroadcastAfterClose(t *testing.T) {
	mgr, _ := newTestManager(t, &fakeCollector{})
	ch, _ := mgr.Subscribe()

	if err := mgr.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	mgr.broadcast(ErrorEvent{Service: "test"})

	if _, ok := <-ch; ok {
		t.Error("subscriber should be closed")
	}
	if err := mgr.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- CollectingEvent{RunID: "run"}

	if msg := WaitForEvent(ch)(); msg != (CollectingEvent{RunID: "run"}) {
		t.Errorf("msg = %v", msg)
	}

	close(ch)
	if msg := WaitForEvent(ch)(); msg != nil {
		t.Errorf("closed channel msg = %v, want nil", msg)
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = DashboardUpdatedEvent{}
	var _ ServiceEvent = CollectingEvent{}
	var _ ServiceEvent = SnapshotCollectedEvent{}
	var _ ServiceEvent = MasteryImportedEvent{}
	var _ ServiceEvent = ErrorEvent{}
}

package app

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
	"github.com/j-veylop/lc-dashboard-tui/internal/services"
	"github.com/j-veylop/lc-dashboard-tui/internal/services/leetcode"
	"github.com/j-veylop/lc-dashboard-tui/internal/services/mastery"
)

type stubTab struct {
	name    string
	width   int
	height  int
	updates int
}

func (s *stubTab) Init() tea.Cmd { return nil }

func (s *stubTab) Update(tea.Msg) (Tab, tea.Cmd) {
	s.updates++
	return s, nil
}

func (s *stubTab) View() string { return "stub:" + s.name }

func (s *stubTab) SetSize(width, height int) { s.width, s.height = width, height }

func (s *stubTab) ShortHelp() []key.Binding {
	return []key.Binding{key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stub"))}
}

func (s *stubTab) FullHelp() [][]key.Binding { return nil }

func newStubTabs() []*stubTab {
	return []*stubTab{{name: "dashboard"}, {name: "history"}, {name: "skills"}, {name: "info"}}
}

func asTabs(stubs []*stubTab) []Tab {
	tabs := make([]Tab, len(stubs))
	for i, s := range stubs {
		tabs[i] = s
	}
	return tabs
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// drain executes a command and any batched children, returning all messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, drain(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil)
	if model == nil {
		t.Fatal("NewModel returned nil")
	}
	if model.state == nil {
		t.Error("State should be initialized")
	}
	if model.activeTab != TabDashboard {
		t.Error("Default tab should be Dashboard")
	}
	if len(model.tabs) != 4 {
		t.Errorf("Should have 4 tab placeholders, got %d", len(model.tabs))
	}
	if model.tabNames[TabSkills] != "Skills" {
		t.Errorf("tabNames = %v", model.tabNames)
	}
}

func TestModel_Init(t *testing.T) {
	model := NewModel(nil)
	if model.Init() == nil {
		t.Error("Init returned nil command")
	}
	notifs := model.state.GetNotifications()
	if len(notifs) != 1 || notifs[0].ID != LoadingNotificationID {
		t.Error("Init should show a loading notification")
	}
}

func TestModel_Update_WindowSize(t *testing.T) {
	model := NewModel(nil)
	stubs := newStubTabs()
	model.SetTabs(asTabs(stubs))

	newModel, _ := model.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	m, ok := newModel.(*Model)
	if !ok {
		t.Fatal("Update returned wrong model type")
	}
	if m.GetWidth() != 100 || m.GetHeight() != 50 {
		t.Errorf("size = %dx%d, want 100x50", m.GetWidth(), m.GetHeight())
	}
	if !m.IsReady() {
		t.Error("Model should be ready after WindowSizeMsg")
	}
	for _, s := range stubs {
		if s.width != 100 || s.height != 45 {
			t.Errorf("tab %s size = %dx%d, want 100x45", s.name, s.width, s.height)
		}
	}
}

func TestModel_TabKeys(t *testing.T) {
	model := NewModel(nil)
	model.SetTabs(asTabs(newStubTabs()))

	tests := []struct {
		key  rune
		want TabID
	}{
		{'2', TabHistory},
		{'3', TabSkills},
		{'4', TabInfo},
		{'1', TabDashboard},
	}
	for _, tt := range tests {
		model.Update(runeKey(tt.key))
		if model.GetActiveTab() != tt.want {
			t.Errorf("key %c: active = %v, want %v", tt.key, model.GetActiveTab(), tt.want)
		}
	}

	model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.GetActiveTab() != TabHistory {
		t.Errorf("tab: active = %v, want History", model.GetActiveTab())
	}

	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	model.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if model.GetActiveTab() != TabInfo {
		t.Errorf("shift+tab should wrap to Info, got %v", model.GetActiveTab())
	}

	model.Update(TabSwitchMsg{Tab: TabSkills})
	if model.GetActiveTab() != TabSkills {
		t.Errorf("TabSwitchMsg: active = %v, want Skills", model.GetActiveTab())
	}
}

func TestModel_OnlyActiveTabReceivesMessages(t *testing.T) {
	model := NewModel(nil)
	stubs := newStubTabs()
	model.SetTabs(asTabs(stubs))

	model.Update(TickMsg{Time: time.Now()})
	if stubs[TabDashboard].updates != 1 {
		t.Errorf("dashboard updates = %d, want 1", stubs[TabDashboard].updates)
	}
	if stubs[TabHistory].updates != 0 {
		t.Error("inactive tabs should not receive messages")
	}
}

func TestModel_Update_Tick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(TickMsg{Time: time.Now()})
	if cmd == nil {
		t.Error("TickMsg should return a command (next tick)")
	}
}

func TestModel_View(t *testing.T) {
	model := NewModel(nil)

	if view := model.View(); !strings.Contains(view, "Loading...") {
		t.Error("View should show Loading when not ready")
	}

	model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	view := model.View()
	for _, name := range []string{"Dashboard", "History", "Skills", "Info"} {
		if !strings.Contains(view, name) {
			t.Errorf("navbar should show %s", name)
		}
	}
	if !strings.Contains(view, "Nothing to show yet") {
		t.Error("View should show placeholder text")
	}

	model.SetTabs(asTabs(newStubTabs()))
	if view := model.View(); !strings.Contains(view, "stub:dashboard") {
		t.Error("View should render the active tab")
	}
}

func TestModel_Help(t *testing.T) {
	model := NewModel(nil)
	model.SetTabs(asTabs(newStubTabs()))
	model.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	model.Update(ToggleHelpMsg{})
	if !model.showHelp {
		t.Fatal("showHelp should be true")
	}

	view := model.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Error("View should show help modal")
	}
	if !strings.Contains(view, "Collect from LeetCode") {
		t.Error("help should list the collect action")
	}

	model.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.GetActiveTab() != TabDashboard {
		t.Error("tab navigation should be ignored while help is open")
	}

	model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if model.showHelp {
		t.Error("Esc should close help")
	}

	model.handleKeyMsg(runeKey('?'))
	if !model.showHelp {
		t.Error("? should toggle help")
	}
}

func TestModel_Quit(t *testing.T) {
	model := NewModel(nil)
	cmd := model.handleKeyMsg(runeKey('q'))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestModel_Notifications(t *testing.T) {
	model := NewModel(nil)

	_, cmd := model.Update(AddNotificationMsg{
		Message:  "Test Note",
		Type:     NotificationInfo,
		Duration: time.Minute,
	})
	if cmd == nil {
		t.Error("timed notification should schedule its removal")
	}

	notifs := model.state.GetNotifications()
	if len(notifs) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifs))
	}

	model.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if view := model.View(); !strings.Contains(view, "Test Note") {
		t.Error("View should show notification")
	}

	model.Update(RemoveNotificationMsg{ID: notifs[0].ID})
	if len(model.state.GetNotifications()) != 0 {
		t.Error("RemoveNotificationMsg should remove the notification")
	}
}

func TestModel_DashboardLoaded(t *testing.T) {
	model := NewModel(nil)
	model.Init()

	d := &models.Dashboard{Current: &models.ProgressSnapshot{Easy: 1, Medium: 2, Hard: 3}}
	stats := &models.Stats{ProgressCount: 4}
	_, cmd := model.Update(DashboardLoadedMsg{Dashboard: d, Stats: stats})

	if model.state.GetDashboard() != d {
		t.Error("dashboard should be stored")
	}
	if model.state.GetStats().ProgressCount != 4 {
		t.Error("stats should be stored")
	}
	if model.state.IsInitialLoading() {
		t.Error("initial loading should be cleared")
	}
	if len(model.state.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
	for _, msg := range drain(cmd) {
		if _, ok := msg.(AddNotificationMsg); ok {
			t.Error("successful load should not notify")
		}
	}

	_, cmd = model.Update(DashboardLoadedMsg{Error: errors.New("disk gone")})
	if model.state.GetDashboard() != d {
		t.Error("failed load should keep the previous dashboard")
	}
	if !containsNotification(drain(cmd), NotificationError, "disk gone") {
		t.Error("failed load should produce an error notification")
	}
}

func TestModel_StatsLoaded(t *testing.T) {
	model := NewModel(nil)
	model.Update(StatsLoadedMsg{Stats: &models.Stats{MasteryCount: 3}})
	if model.state.GetStats().MasteryCount != 3 {
		t.Error("Stats should be updated")
	}

	model.Update(StatsLoadedMsg{Error: errors.New("x")})
	if model.state.GetStats().MasteryCount != 3 {
		t.Error("failed stats load should keep the previous stats")
	}
}

func TestModel_HandleServiceEvent(t *testing.T) {
	model := NewModel(nil)

	d := &models.Dashboard{}
	model.handleServiceEvent(services.DashboardUpdatedEvent{Dashboard: d})
	if model.state.GetDashboard() != d {
		t.Error("DashboardUpdatedEvent should store the dashboard")
	}

	model.handleServiceEvent(services.CollectingEvent{RunID: "run"})
	if !model.state.IsCollecting() {
		t.Error("CollectingEvent should mark collection as running")
	}

	snap := &models.ProgressSnapshot{Easy: 10, Medium: 5, Hard: 1}
	cmd := model.handleServiceEvent(services.SnapshotCollectedEvent{Snapshot: snap})
	if model.state.IsCollecting() {
		t.Error("SnapshotCollectedEvent should clear collecting")
	}
	if !containsNotification(drain(cmd), NotificationSuccess, "Collected: 16 solved (E10 M5 H1)") {
		t.Error("SnapshotCollectedEvent should produce a success toast")
	}
	if at, err := model.state.GetCollectionResult(); at.IsZero() || err != nil {
		t.Errorf("collection result = %v, %v", at, err)
	}

	cmd = model.handleServiceEvent(services.MasteryImportedEvent{Result: mastery.Result{Imported: 2, Skipped: 1}})
	if !containsNotification(drain(cmd), NotificationInfo, "Imported 2 mastery snapshot(s), 1 skipped") {
		t.Error("MasteryImportedEvent should produce an info toast")
	}

	model.handleServiceEvent(services.CollectingEvent{RunID: "run2"})
	cmd = model.handleServiceEvent(services.ErrorEvent{Service: services.ServiceLeetCode, Error: leetcode.ErrMissingCredentials})
	if model.state.IsCollecting() {
		t.Error("leetcode error should clear collecting")
	}
	if _, err := model.state.GetCollectionResult(); !errors.Is(err, leetcode.ErrMissingCredentials) {
		t.Errorf("collection error = %v", err)
	}
	if !containsNotification(drain(cmd), NotificationError, "[leetcode]") {
		t.Error("ErrorEvent should produce an error toast")
	}

	cmd = model.handleServiceEvent(services.ErrorEvent{Service: services.ServiceMastery, Error: errors.New("bad json")})
	if !containsNotification(drain(cmd), NotificationError, "[mastery] bad json") {
		t.Error("mastery ErrorEvent should produce an error toast")
	}
}

func TestModel_CollectResult(t *testing.T) {
	model := NewModel(nil)

	_, cmd := model.Update(CollectResultMsg{Error: fmt.Errorf("wrap: %w", leetcode.ErrCollectionInProgress)})
	if !containsNotification(drain(cmd), NotificationWarning, "already running") {
		t.Error("overlapping collection should warn")
	}

	_, cmd = model.Update(CollectResultMsg{Error: errors.New("other")})
	if containsNotification(drain(cmd), NotificationError, "other") {
		t.Error("other errors are reported through service events")
	}
}

func TestModel_LoadingMessages(t *testing.T) {
	model := NewModel(nil)
	model.state.SetLoading(ResourceInitial, false)

	model.Update(StartLoadingMsg{Resource: ResourceCollect})
	if !model.state.IsCollecting() {
		t.Error("collect loading should be set")
	}
	notifs := model.state.GetNotifications()
	if len(notifs) != 1 || !strings.Contains(notifs[0].Message, "Collecting") {
		t.Errorf("loading notification = %+v", notifs)
	}

	model.Update(StopLoadingMsg{Resource: ResourceCollect})
	if model.state.AnyLoading() {
		t.Error("nothing should be loading")
	}
	if len(model.state.GetNotifications()) != 0 {
		t.Error("loading notification should be cleared")
	}
}

func TestModel_RefreshWithoutServices(t *testing.T) {
	model := NewModel(nil)
	if cmds := model.handleRefresh(RefreshMsg{Resource: ResourceDashboard}); len(cmds) != 0 {
		t.Error("refresh without services should do nothing")
	}
	if cmd := model.handleKeyMsg(runeKey('c')); len(drain(cmd)) != 0 {
		t.Error("collect without services should do nothing")
	}
}

func TestModel_RefreshKey(t *testing.T) {
	model := NewModel(newTestServices(t))

	msgs := drain(model.handleKeyMsg(runeKey('r')))
	var started, loaded bool
	for _, msg := range msgs {
		switch msg := msg.(type) {
		case StartLoadingMsg:
			started = msg.Resource == ResourceDashboard
		case DashboardLoadedMsg:
			loaded = msg.Error == nil && msg.Dashboard != nil
		}
	}
	if !started || !loaded {
		t.Errorf("r should start loading and rebuild the dashboard, got %#v", msgs)
	}
}

func TestModel_CollectKey(t *testing.T) {
	model := NewModel(newTestServices(t))

	msgs := drain(model.handleKeyMsg(runeKey('c')))
	var started bool
	var result *CollectResultMsg
	for _, msg := range msgs {
		switch msg := msg.(type) {
		case StartLoadingMsg:
			started = msg.Resource == ResourceCollect
		case CollectResultMsg:
			result = &msg
		}
	}
	if !started {
		t.Error("c should start collect loading")
	}
	if result == nil || !errors.Is(result.Error, leetcode.ErrMissingCredentials) {
		t.Errorf("collect result = %+v", result)
	}

	model.state.SetLoading(ResourceCollect, true)
	msgs = drain(model.handleKeyMsg(runeKey('c')))
	if !containsNotification(msgs, NotificationWarning, "already running") {
		t.Error("c while collecting should warn")
	}
}

func TestModel_SubscriptionLoop(t *testing.T) {
	model := NewModel(nil)
	ch := make(chan services.ServiceEvent, 1)

	_, cmd := model.Update(SubscriptionEventMsg{Channel: ch})
	if cmd == nil {
		t.Fatal("subscription should start waiting for events")
	}

	ch <- services.CollectingEvent{RunID: "x"}
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("expected one message, got %d", len(msgs))
	}
	if _, cmd = model.Update(msgs[0]); cmd == nil {
		t.Error("service events should re-arm the subscription")
	}
	if !model.state.IsCollecting() {
		t.Error("CollectingEvent should be applied")
	}
}

func TestModel_ErrorMsg(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(ErrorMsg{Error: errors.New("boom"), Context: "import"})
	if !containsNotification(drain(cmd), NotificationError, "import: boom") {
		t.Error("ErrorMsg should produce an error notification")
	}
}

func TestModel_HandleSpinnerTick(t *testing.T) {
	model := NewModel(nil)
	_, cmd := model.Update(spinner.TickMsg{})
	if cmd == nil {
		t.Error("Spinner tick should return command")
	}
}

func TestTabID_String(t *testing.T) {
	tests := map[TabID]string{
		TabDashboard: "Dashboard",
		TabHistory:   "History",
		TabSkills:    "Skills",
		TabInfo:      "Info",
		TabID(999):   "Unknown",
	}
	for id, want := range tests {
		if got := id.String(); got != want {
			t.Errorf("TabID(%d).String() = %q, want %q", id, got, want)
		}
	}
}

func TestDefaultKeyMap(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ShortHelp()) == 0 {
		t.Error("ShortHelp empty")
	}
	if len(km.FullHelp()) != 4 {
		t.Errorf("FullHelp groups = %d, want 4", len(km.FullHelp()))
	}
	if !key.Matches(runeKey('c'), km.Collect) {
		t.Error("c should trigger collect")
	}
}

func containsNotification(msgs []tea.Msg, typ NotificationType, substr string) bool {
	for _, msg := range msgs {
		n, ok := msg.(AddNotificationMsg)
		if ok && n.Type == typ && strings.Contains(n.Message, substr) {
			return true
		}
	}
	return false
}

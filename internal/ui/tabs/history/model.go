// Package history provides the history tab with progress and mastery charts.
package history

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/lc-dashboard-tui/internal/app"
	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// Source provides windowed chart data.
type Source interface {
	History(tr models.TimeRange) *models.HistoryWindow
}

// keyMap defines the key bindings specific to the history tab.
type keyMap struct {
	ToggleRange key.Binding
	Up          key.Binding
	Down        key.Binding
}

// defaultKeyMap returns the default key bindings for the history tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ToggleRange: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "toggle time range"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// historyLoadedMsg is sent when a history window was computed.
type historyLoadedMsg struct {
	window *models.HistoryWindow
}

// Model represents the history tab state.
type Model struct {
	state    *app.State
	source   Source
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model

	timeRange   models.TimeRange
	window      *models.HistoryWindow
	seen        *models.Dashboard
	loading     bool
	lastRefresh time.Time
}

// New creates a new history model.
func New(state *app.State, source Source) *Model {
	return &Model{
		state:     state,
		source:    source,
		keys:      defaultKeyMap(),
		viewport:  viewport.New(0, 0),
		timeRange: models.TimeRange30Days,
	}
}

// Init initializes the history tab.
func (m *Model) Init() tea.Cmd {
	return m.reload()
}

func (m *Model) reload() tea.Cmd {
	if m.source == nil {
		return nil
	}
	m.loading = true
	m.seen = m.state.GetDashboard()
	source, tr := m.source, m.timeRange
	return func() tea.Msg {
		return historyLoadedMsg{window: source.History(tr)}
	}
}

// Update handles messages for the history tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case historyLoadedMsg:
		m.loading = false
		if msg.window == nil || msg.window.Range == m.timeRange {
			m.window = msg.window
			m.lastRefresh = time.Now()
		}

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))
	}

	// The window is derived from the dashboard, so any rebuild invalidates it.
	if !m.loading && m.state.GetDashboard() != m.seen {
		cmds = append(cmds, m.reload())
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.ToggleRange):
		m.timeRange = m.timeRange.Next()
		return m.reload()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
}

// TimeRange returns the selected range.
func (m *Model) TimeRange() models.TimeRange {
	return m.timeRange
}

// SetSize sets the available size for the history tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ToggleRange,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ToggleRange},
		{m.keys.Up, m.keys.Down},
	}
}

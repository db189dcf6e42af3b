// Package dashboard provides the main dashboard tab for the LeetCode dashboard TUI.
package dashboard

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/lc-dashboard-tui/internal/app"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the dashboard tab.
type keyMap struct {
	ScrollDown key.Binding
	ScrollUp   key.Binding
	PageDown   key.Binding
	PageUp     key.Binding
}

// defaultKeyMap returns the default key bindings for the dashboard tab.
func defaultKeyMap() keyMap {
	return keyMap{
		ScrollDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
	}
}

// Model represents the dashboard tab state.
type Model struct {
	state       *app.State
	spinner     components.LoadingSpinner
	keys        keyMap
	viewport    viewport.Model
	progressBar components.ProgressBar
	masteryBar  components.ProgressBar
	width       int
	height      int
}

// New creates a new dashboard model.
func New(state *app.State) *Model {
	return &Model{
		state:       state,
		spinner:     components.NewSpinner("Loading history..."),
		keys:        defaultKeyMap(),
		viewport:    viewport.New(0, 0),
		progressBar: components.NewProgressBar("Top 150"),
		masteryBar:  components.NewProgressBar("Mastery"),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Init(), m.syncBars())
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	cmds := []tea.Cmd{m.syncBars()}

	switch msg := msg.(type) {
	case components.AnimationTickMsg:
		var cmd tea.Cmd
		m.progressBar, cmd = m.progressBar.Update(msg)
		cmds = append(cmds, cmd)
		m.masteryBar, cmd = m.masteryBar.Update(msg)
		cmds = append(cmds, cmd)

	case tea.KeyMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// syncBars points both bars at the current dashboard percentages.
func (m *Model) syncBars() tea.Cmd {
	d := m.state.GetDashboard()
	if d == nil {
		return nil
	}
	return tea.Batch(
		m.progressBar.SetPercent(d.ProgressPercent),
		m.masteryBar.SetPercent(d.MasteryPercent),
	)
}

// SetSize sets the available size for the dashboard.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.ScrollDown,
		m.keys.ScrollUp,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.ScrollDown, m.keys.ScrollUp},
		{m.keys.PageDown, m.keys.PageUp},
	}
}

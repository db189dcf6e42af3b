package info

import (
	"fmt"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/lc-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/lc-dashboard-tui/internal/version"
)

// View renders the info tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderConfigCard(),
		m.renderDataCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Info")
	subtitle := styles.HelpStyle.Render("Configuration, stored data and build information")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) cardWidth() int {
	return max(50, min(m.width-6, 90))
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	cfg := m.config
	if cfg == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	credentials := styles.SuccessTextStyle.Render("configured")
	if !cfg.HasCredentials() {
		credentials = styles.WarningTextStyle.Render("missing (manual collection disabled)")
	}

	metricsAddr := cfg.MetricsAddr
	if metricsAddr == "" {
		metricsAddr = "disabled"
	}

	notifications := "off"
	if cfg.NotificationsEnabled {
		notifications = "on"
	}

	rows = append(rows,
		renderRow("Database", orNone(cfg.DatabasePath)),
		renderRow("Mastery Import", orNone(cfg.MasteryImportPath)),
		renderRow("Config File", orNone(cfg.ConfigFile)),
		renderRow("Log File", orNone(cfg.LogFile)),
		"",
		renderRow("Credentials", credentials),
		renderRow("Collect Every", cfg.CollectInterval.String()),
		renderRow("Metrics", metricsAddr),
		renderRow("Notifications", notifications),
		renderRow("Trend Window", fmt.Sprintf("%d days", cfg.RegressionWindow)),
		renderRow("Horizon", fmt.Sprintf("%d days", cfg.PredictionHorizon)),
	)

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderDataCard() string {
	rows := []string{styles.CardTitleStyle.Render("Stored Data"), ""}

	stats := m.state.GetStats()
	if stats == nil {
		rows = append(rows, styles.HelpStyle.Render("Loading statistics..."))
		return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	rows = append(rows,
		renderRow("Progress Snaps", humanize.Comma(int64(stats.ProgressCount))),
		renderRow("Mastery Snaps", humanize.Comma(int64(stats.MasteryCount))),
		renderRow("First Snapshot", humanTime(stats.FirstSnapshot)),
		renderRow("Last Snapshot", humanTime(stats.LastSnapshot)),
	)

	lastRun, lastErr := m.state.GetCollectionResult()
	if lastRun.IsZero() {
		lastRun = stats.LastCollection
	}
	rows = append(rows, renderRow("Last Collection", humanTime(lastRun)))
	if lastErr != nil {
		rows = append(rows, renderRow("Last Error", styles.ErrorTextStyle.Render(lastErr.Error())))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About " + version.Name),
		"",
		renderRow("Version", version.GetVersion()),
		renderRow("Build Date", version.GetDate()),
		renderRow("Git Commit", version.GetCommit()),
		renderRow("Go Version", runtime.Version()),
		renderRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderRow(label, value string) string {
	return styles.LabelStyle.Render(label+":") + " " + styles.ValueStyle.Render(value)
}

func humanTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return fmt.Sprintf("%s (%s)", humanize.Time(t), t.Local().Format("Jan 2, 2006 15:04"))
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

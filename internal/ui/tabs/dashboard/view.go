package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/styles"
)

const predictionLayout = "Jan 2, 2006"

// View renders the dashboard component.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height)
	}

	d := m.state.GetDashboard()
	cardWidth := max(m.width-6, 40)

	sections := []string{m.renderTitle()}
	if !d.HasData() {
		sections = append(sections, m.renderEmpty(cardWidth))
	} else {
		sections = append(sections,
			m.renderProgress(d, cardWidth),
			m.renderPredictions(d, cardWidth),
			m.renderActivity(d, cardWidth),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("LeetCode Dashboard")
	subtitle := styles.HelpStyle.Render("Top Interview 150 progress and review mastery")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderEmpty(width int) string {
	icon := lipgloss.NewStyle().Foreground(styles.Subtle).Render("○")
	rows := []string{
		cardHeader("Progress"),
		"",
		fmt.Sprintf("  %s %s", icon, styles.HelpStyle.Render("No snapshots recorded yet")),
		"",
		styles.InfoTextStyle.Render("  ╰─▶ Press c to collect from LeetCode"),
	}
	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderProgress(d *models.Dashboard, width int) string {
	inner := max(width-6, 20)
	barWidth := max(inner-28, 10)

	rows := []string{cardHeader("Progress"), ""}

	cur := d.Current
	rows = append(rows,
		difficultyRow("Easy", models.DifficultyEasy, cur.Easy, d.Targets.Easy, barWidth),
		difficultyRow("Medium", models.DifficultyMedium, cur.Medium, d.Targets.Medium, barWidth),
		difficultyRow("Hard", models.DifficultyHard, cur.Hard, d.Targets.Hard, barWidth),
		"",
		fmt.Sprintf("  %s %s",
			styles.LabelStyle.Render("Solved"),
			styles.ValueStyle.Bold(true).Render(fmt.Sprintf("%d / %d", cur.Total(), d.Targets.Sum())),
		),
		"",
		"  "+m.progressBar.View(inner),
	)

	if d.HasMastery() {
		lm := d.LatestMastery
		rows = append(rows,
			"  "+m.masteryBar.View(inner),
			"  "+styles.HelpStyle.Render(fmt.Sprintf("%d strong · %d learning · %d weak · %d leech",
				lm.Strong, lm.Learning, lm.Weak, lm.Leech)),
		)
	} else {
		rows = append(rows, "  "+styles.HelpStyle.Render("No mastery data imported"))
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func difficultyRow(label, difficulty string, value, target, barWidth int) string {
	name := styles.DifficultyStyle(difficulty).Width(8).Render(label)
	count := styles.ValueStyle.Width(10).Align(lipgloss.Right).Render(fmt.Sprintf("%d/%d", value, target))
	bar := components.RenderSolidBar(value, target, barWidth, styles.DifficultyColor(difficulty))
	return fmt.Sprintf("  %s %s %s", name, bar, count)
}

func (m *Model) renderPredictions(d *models.Dashboard, width int) string {
	rows := []string{
		cardHeader("Predictions"),
		"",
		predictionRow("Top 150", d.ProgressPrediction, d.ProgressPercent),
		predictionRow("Mastery", d.MasteryPrediction, d.MasteryPercent),
	}
	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func predictionRow(label string, at *time.Time, percent float64) string {
	return fmt.Sprintf("  %s %s", styles.LabelStyle.Render(label), FormatPrediction(at, percent))
}

// FormatPrediction renders a milestone date, or the reason there is none.
func FormatPrediction(at *time.Time, percent float64) string {
	switch {
	case percent >= 100:
		return styles.SuccessTextStyle.Render("goal reached")
	case at == nil:
		return styles.HelpStyle.Render("no prediction")
	default:
		return styles.InfoTextStyle.Render("on track for " + at.Format(predictionLayout))
	}
}

func (m *Model) renderActivity(d *models.Dashboard, width int) string {
	rows := []string{cardHeader("Recent Activity"), ""}

	for _, a := range d.Activity {
		label := styles.LabelStyle.Render(a.Label)
		delta := FormatDelta(a.Total, a.Easy, a.Medium, a.Hard)
		if a.Total > 0 {
			delta = styles.SuccessTextStyle.Render(delta)
		} else {
			delta = styles.HelpStyle.Render(delta)
		}
		rows = append(rows, fmt.Sprintf("  %s %s", label, delta))
	}

	w := d.Weekly
	rows = append(rows,
		"  "+lipgloss.NewStyle().Foreground(styles.Subtle).Render(strings.Repeat("─", max(width-10, 10))),
		fmt.Sprintf("  %s %s",
			styles.LabelStyle.Render("Last 7 days"),
			styles.ValueStyle.Bold(true).Render(FormatDelta(w.Total, w.Easy, w.Medium, w.Hard)),
		),
	)

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// FormatDelta renders a change in solved counts as "+N [E.. M.. H..]".
func FormatDelta(total, easy, medium, hard int) string {
	return fmt.Sprintf("+%d [E%d M%d H%d]", total, easy, medium, hard)
}

func cardHeader(title string) string {
	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	return fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render(title))
}

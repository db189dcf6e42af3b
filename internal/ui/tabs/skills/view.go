package skills

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/styles"
)

// View renders the skills tab.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return styles.DocStyle.
			Width(m.width).
			Height(m.height).
			Render(styles.HelpStyle.Render("Loading skills..."))
	}

	d := m.state.GetDashboard()
	cardWidth := max(m.width-6, 40)

	sections := []string{m.renderTitle()}
	if !d.HasData() {
		sections = append(sections, renderEmpty(cardWidth))
	} else {
		sections = append(sections,
			renderSkills(d.Skills, cardWidth),
			renderBeats(d.Current, cardWidth),
		)
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Skills")
	subtitle := styles.HelpStyle.Render("Problems solved per topic tag")

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func renderEmpty(width int) string {
	rows := []string{
		cardHeader("Top Skills"),
		"",
		styles.HelpStyle.Render("  No snapshots recorded yet"),
	}
	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderSkills(skills []models.SkillPoint, width int) string {
	rows := []string{cardHeader("Top Skills"), ""}

	if len(skills) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No skill breakdown in the latest snapshot"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	values := make([]float64, len(skills))
	labels := make([]string, len(skills))
	for i, s := range skills {
		values[i] = float64(s.Value)
		labels[i] = s.Name
	}

	chart := components.RenderBarChart(values, labels, max(width-8, 30), styles.Primary)
	for line := range strings.SplitSeq(chart, "\n") {
		rows = append(rows, "  "+line)
	}

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func renderBeats(cur *models.ProgressSnapshot, width int) string {
	rows := []string{cardHeader("Beats"), ""}

	if len(cur.Beats) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  Beats percentages unavailable"))
		return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	}

	barWidth := max(width-30, 10)
	rows = append(rows,
		beatsRow("Easy", models.DifficultyEasy, cur.Beats, barWidth),
		beatsRow("Medium", models.DifficultyMedium, cur.Beats, barWidth),
		beatsRow("Hard", models.DifficultyHard, cur.Beats, barWidth),
	)

	return styles.CardStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func beatsRow(label, difficulty string, beats map[string]float64, barWidth int) string {
	name := styles.DifficultyStyle(difficulty).Width(8).Render(label)

	pct, ok := beats[difficulty]
	if !ok {
		return fmt.Sprintf("  %s %s", name, styles.HelpStyle.Render("n/a"))
	}

	// Scaled to tenths of a percent.
	bar := components.RenderSolidBar(int(pct*10), 1000, barWidth, styles.DifficultyColor(difficulty))
	return fmt.Sprintf("  %s %s %s", name, bar, FormatBeats(pct))
}

// FormatBeats renders a beats percentage.
func FormatBeats(pct float64) string {
	return fmt.Sprintf("beats %.1f%%", pct)
}

func cardHeader(title string) string {
	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	return fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render(title))
}

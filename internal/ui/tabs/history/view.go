package history

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/lc-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/styles"
)

const chartHeight = 8

// View renders the history tab.
func (m *Model) View() string {
	if m.loading && m.window == nil {
		return m.renderLoading()
	}
	if !m.window.HasData() {
		return m.renderEmpty()
	}

	sections := []string{
		m.renderHeader(),
		m.renderProgressChart(),
		m.renderMasteryChart(),
		m.renderHeatmap(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) renderLoading() string {
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(styles.HelpStyle.Render("Loading history data..."))
}

func (m *Model) renderEmpty() string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.TitleStyle.Render("History"),
		"",
		styles.HelpStyle.Render("No historical data available yet."),
		styles.HelpStyle.Render("Data will appear as progress snapshots are recorded."),
	)
	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(content)
}

func (m *Model) renderHeader() string {
	title := styles.TitleStyle.Render("History")

	rangeStyle := lipgloss.NewStyle().
		Foreground(styles.Primary).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.Primary)

	rangeIndicator := rangeStyle.Render(fmt.Sprintf("[t] %s", m.timeRange.String()))

	header := lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", rangeIndicator)

	first, last := m.window.Span()
	subtitle := styles.HelpStyle.Render(fmt.Sprintf("Data: %s → %s (%d days)",
		first.Format("Jan 2, 2006"),
		last.Format("Jan 2, 2006"),
		len(m.window.Chart),
	))

	return lipgloss.JoinVertical(lipgloss.Left, header, subtitle, "")
}

func (m *Model) renderProgressChart() string {
	cardWidth := max(m.width-6, 40)
	rows := []string{cardHeader("Solved by Difficulty"), ""}

	chart := m.window.Chart
	easy := make([]*int, len(chart))
	medium := make([]*int, len(chart))
	hard := make([]*int, len(chart))
	for i, p := range chart {
		easy[i], medium[i], hard[i] = p.Easy, p.Medium, p.Hard
	}

	graph := components.RenderSeriesChart([]components.Series{
		{Label: "Easy", Values: components.NullableSeries(easy), Color: asciigraph.Cyan, Legend: styles.Easy},
		{Label: "Medium", Values: components.NullableSeries(medium), Color: asciigraph.Yellow, Legend: styles.Medium},
		{Label: "Hard", Values: components.NullableSeries(hard), Color: asciigraph.Red, Legend: styles.Hard},
	}, max(cardWidth-12, 30), chartHeight, "gaps are days without a snapshot")

	rows = append(rows, indent(graph)...)
	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderMasteryChart() string {
	cardWidth := max(m.width-6, 40)
	rows := []string{cardHeader("Mastery"), ""}

	points := m.window.Mastery
	if len(points) == 0 {
		rows = append(rows, styles.HelpStyle.Render("  No mastery data imported"))
	} else {
		strong := make([]float64, len(points))
		learning := make([]float64, len(points))
		weak := make([]float64, len(points))
		for i, p := range points {
			strong[i] = float64(p.Strong)
			learning[i] = float64(p.Learning)
			weak[i] = float64(p.Weak)
		}

		graph := components.RenderSeriesChart([]components.Series{
			{Label: "Strong", Values: strong, Color: asciigraph.Green, Legend: styles.Strong},
			{Label: "Learning", Values: learning, Color: asciigraph.Blue, Legend: styles.Learning},
			{Label: "Weak", Values: weak, Color: asciigraph.Orange, Legend: styles.Weak},
		}, max(cardWidth-12, 30), chartHeight, "")

		rows = append(rows, indent(graph)...)

		latest := points[len(points)-1]
		rows = append(rows, "", fmt.Sprintf("  Latest: %s strong of %d reviewed",
			lipgloss.NewStyle().Bold(true).Foreground(styles.Strong).Render(fmt.Sprintf("%d", latest.Strong)),
			latest.Reviewed(),
		))
	}

	rows = append(rows, "")

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderHeatmap() string {
	cardWidth := max(m.width-6, 40)
	rows := []string{cardHeader("Activity"), ""}

	days := m.window.Heatmap
	stripWidth := max(cardWidth-10, 20)

	rows = append(rows, indent(components.RenderHeatmap(days, stripWidth))...)

	visible := days
	if len(visible) > stripWidth {
		visible = visible[len(visible)-stripWidth:]
	}
	rows = append(rows,
		"",
		fmt.Sprintf("  %s   %s",
			components.RenderHeatmapLegend(),
			styles.HelpStyle.Render(fmt.Sprintf("%d active days", components.ActiveDays(visible))),
		),
		"",
	)

	return styles.CardStyle.Width(cardWidth).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func cardHeader(title string) string {
	icon := lipgloss.NewStyle().Foreground(styles.Primary).Render("◈")
	return fmt.Sprintf("%s %s", icon, styles.CardTitleStyle.Render(title))
}

func indent(block string) []string {
	var lines []string
	for line := range strings.SplitSeq(block, "\n") {
		lines = append(lines, "  "+line)
	}
	return lines
}

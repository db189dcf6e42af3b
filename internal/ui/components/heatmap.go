package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/styles"
)

const heatmapCell = "■"

// RenderHeatmap renders the trailing days of the heatmap as a one-line strip,
// oldest on the left, with month markers underneath.
func RenderHeatmap(days []models.HeatmapDay, width int) string {
	if len(days) == 0 || width <= 0 {
		return styles.HelpStyle.Render("No activity yet")
	}

	if len(days) > width {
		days = days[len(days)-width:]
	}

	var strip, months strings.Builder
	lastMonth := time.Month(0)
	pendingLabel := 0

	for _, d := range days {
		strip.WriteString(lipgloss.NewStyle().Foreground(styles.HeatmapColor(d.Level)).Render(heatmapCell))

		if pendingLabel > 0 {
			pendingLabel--
			continue
		}

		month := time.UnixMilli(d.DateKey).UTC().Month()
		if month != lastMonth {
			label := month.String()[:3]
			months.WriteString(label)
			pendingLabel = len(label) - 1
			lastMonth = month
			continue
		}
		months.WriteByte(' ')
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strip.String(),
		styles.HelpStyle.Render(strings.TrimRight(months.String(), " ")),
	)
}

// RenderHeatmapLegend renders the level scale.
func RenderHeatmapLegend() string {
	var b strings.Builder
	b.WriteString(styles.HelpStyle.Render("Less "))
	for level := range styles.HeatmapColors {
		b.WriteString(lipgloss.NewStyle().Foreground(styles.HeatmapColor(level)).Render(heatmapCell))
	}
	b.WriteString(styles.HelpStyle.Render(" More"))
	return b.String()
}

// ActiveDays counts heatmap days with at least one solve.
func ActiveDays(days []models.HeatmapDay) int {
	n := 0
	for _, d := range days {
		if d.Count > 0 {
			n++
		}
	}
	return n
}

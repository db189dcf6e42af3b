// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/lc-dashboard-tui/internal/ui/styles"
)

// Series is one line of a multi-series chart. NaN values are drawn as gaps.
type Series struct {
	Label  string
	Values []float64
	Color  asciigraph.AnsiColor
	Legend lipgloss.Color
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if !HasFinite(data) {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	width = max(width, 20)
	height = max(height, 3)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderSeriesChart plots several series on one axis with a legend below.
// Series without a single finite value are left out.
func RenderSeriesChart(series []Series, width, height int, caption string) string {
	var (
		data   [][]float64
		colors []asciigraph.AnsiColor
		legend []LegendItem
	)

	length := 0
	for _, s := range series {
		if !HasFinite(s.Values) {
			continue
		}
		data = append(data, s.Values)
		colors = append(colors, s.Color)
		legend = append(legend, LegendItem{Label: s.Label, Color: s.Legend})
		length = max(length, len(s.Values))
	}

	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Pad shorter series with gaps so all share the x axis
	for i, values := range data {
		if len(values) < length {
			padded := make([]float64, length)
			copy(padded, values)
			for j := len(values); j < length; j++ {
				padded[j] = math.NaN()
			}
			data[i] = padded
		}
	}

	width = max(width, 20)
	height = max(height, 3)

	graph := asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)

	return lipgloss.JoinVertical(lipgloss.Left, graph, "", RenderLegend(legend))
}

// NullableSeries converts optional counts to chart values, mapping nil to NaN.
func NullableSeries(values []*int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if v == nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = float64(*v)
	}
	return out
}

// HasFinite reports whether values contain at least one plottable point.
func HasFinite(values []float64) bool {
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

// RenderBarChart creates a simple horizontal bar chart.
func RenderBarChart(values []float64, labels []string, width int, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	// Find max value for scaling
	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-10, 10) // Leave room for label and value
	barStyle := lipgloss.NewStyle().Foreground(color)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := barStyle.Render(strings.Repeat("█", barLen))

		lines = append(lines, fmt.Sprintf("%*s │%s %.0f", maxLabelLen, label, bar, v))
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		maxVal = max(maxVal, v)
	}
	if maxVal == 0 {
		maxVal = 1
	}

	// Sample values to fit width
	var result strings.Builder
	step := max(float64(len(values))/float64(width), 1)

	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		normalized := int((val / maxVal) * float64(len(sparkChars)-1))
		normalized = max(0, min(normalized, len(sparkChars)-1))
		result.WriteRune(sparkChars[normalized])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

// Package styles defines the visual styling for the application.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/lc-dashboard-tui/internal/models"
)

// Color definitions for the dashboard theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("205") // Pink
	Secondary = lipgloss.Color("63")  // Purple
	Subtle    = lipgloss.Color("240") // Gray

	// Difficulty colors
	Easy   = lipgloss.Color("#00B8A3")
	Medium = lipgloss.Color("#FFC01E")
	Hard   = lipgloss.Color("#FF375F")

	// Mastery bucket colors
	Strong   = lipgloss.Color("42")
	Learning = lipgloss.Color("39")
	Weak     = lipgloss.Color("214")
	Leech    = lipgloss.Color("196")

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark   = lipgloss.Color("235")
	BgLight  = lipgloss.Color("237")
	BgAccent = lipgloss.Color("236")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// HeatmapColors maps a heatmap level (0-4) to a color.
	HeatmapColors = [5]lipgloss.Color{
		lipgloss.Color("237"),
		lipgloss.Color("#0e4429"),
		lipgloss.Color("#006d32"),
		lipgloss.Color("#26a641"),
		lipgloss.Color("#39d353"),
	}

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// ProgressLabelStyle styles progress bar labels.
var ProgressLabelStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Width(20)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// LabelStyle styles key-value labels.
var LabelStyle = lipgloss.NewStyle().
	Width(18).
	Foreground(TextMuted)

// ValueStyle styles key-value values.
var ValueStyle = lipgloss.NewStyle().
	Foreground(TextPrimary)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// ProgressHighStyle for percentages of 75 and above.
var ProgressHighStyle = lipgloss.NewStyle().
	Foreground(Success)

// ProgressMediumStyle for percentages between 40 and 75.
var ProgressMediumStyle = lipgloss.NewStyle().
	Foreground(Warning)

// ProgressLowStyle for percentages below 40.
var ProgressLowStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// GetProgressStyle returns the style for a completion percentage.
func GetProgressStyle(percent float64) lipgloss.Style {
	switch {
	case percent >= 75:
		return ProgressHighStyle
	case percent >= 40:
		return ProgressMediumStyle
	default:
		return ProgressLowStyle
	}
}

// DifficultyColor returns the color for a lower-cased difficulty name.
func DifficultyColor(difficulty string) lipgloss.Color {
	switch difficulty {
	case models.DifficultyEasy:
		return Easy
	case models.DifficultyMedium:
		return Medium
	case models.DifficultyHard:
		return Hard
	default:
		return TextSecondary
	}
}

// DifficultyStyle returns a bold style in the difficulty's color.
func DifficultyStyle(difficulty string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(DifficultyColor(difficulty)).Bold(true)
}

// HeatmapColor returns the color for a heatmap level, clamped to 0-4.
func HeatmapColor(level int) lipgloss.Color {
	level = max(0, min(level, len(HeatmapColors)-1))
	return HeatmapColors[level]
}

// CenterHorizontal centers content horizontally within a given width.
func CenterHorizontal(content string, width int) string {
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(content)
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}

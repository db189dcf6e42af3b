package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/lc-dashboard-tui/internal/logger"
	"github.com/j-veylop/lc-dashboard-tui/internal/ui/styles"
)

const (
	gradientFrom = "#5c5c5c"
	gradientTo   = "#51cf66"
)

// AnimationTickMsg advances progress bar animations.
type AnimationTickMsg time.Time

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*50, func(t time.Time) tea.Msg {
		return AnimationTickMsg(t)
	})
}

// ProgressBar renders a completion bar that eases towards its target.
type ProgressBar struct {
	progress       progress.Model
	label          string
	isAnimating    bool
	targetPercent  float64
	currentPercent float64
}

// NewProgressBar creates a progress bar with the completion gradient.
func NewProgressBar(label string) ProgressBar {
	p := progress.New(
		progress.WithScaledGradient(gradientFrom, gradientTo),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)

	return ProgressBar{progress: p, label: label}
}

// Update advances the animation by one step.
func (b ProgressBar) Update(msg tea.Msg) (ProgressBar, tea.Cmd) {
	if _, ok := msg.(AnimationTickMsg); !ok || !b.isAnimating {
		return b, nil
	}

	diff := b.targetPercent - b.currentPercent
	if diff == 0 {
		b.isAnimating = false
		return b, nil
	}

	step := diff / 10
	switch {
	case diff > 0:
		step = min(max(step, 0.5), diff)
	default:
		step = max(min(step, -0.5), diff)
	}
	b.currentPercent += step

	return b, animationTick()
}

// SetPercent sets the target percentage and starts animating towards it.
func (b *ProgressBar) SetPercent(percent float64) tea.Cmd {
	b.targetPercent = max(0, min(percent, 100))
	if b.isAnimating || b.currentPercent == b.targetPercent {
		return nil
	}
	b.isAnimating = true
	return animationTick()
}

// Percent returns the currently displayed percentage.
func (b ProgressBar) Percent() float64 {
	return b.currentPercent
}

// Target returns the percentage the bar is animating towards.
func (b ProgressBar) Target() float64 {
	return b.targetPercent
}

// IsAnimating reports whether the bar is still moving.
func (b ProgressBar) IsAnimating() bool {
	return b.isAnimating
}

// SetLabel sets the bar label.
func (b *ProgressBar) SetLabel(label string) {
	b.label = label
}

// View renders the bar with its label and percentage.
func (b ProgressBar) View(width int) string {
	b.progress.Width = max(width-30, 10) // Reserve space for label and percentage

	bar := b.progress.ViewAs(b.currentPercent / 100)

	percentStr := styles.GetProgressStyle(b.currentPercent).
		Width(6).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", b.currentPercent))

	labelStr := styles.ProgressLabelStyle.Width(15).Render(b.label)

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

// RenderGradientBar renders just the bar part with gradient colors.
func RenderGradientBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}

	filled := max(0, min(int(float64(width)*percent/100), width))

	var b strings.Builder
	for i := range width {
		if i < filled {
			t := float64(i) / float64(max(1, width-1))
			color := interpolateColor(gradientFrom, gradientTo, t)
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("█"))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Subtle).Render("░"))
		}
	}

	return b.String()
}

// RenderSolidBar renders a single-color bar, used for per-difficulty counts.
func RenderSolidBar(value, total, width int, color lipgloss.Color) string {
	if width < 1 {
		return ""
	}

	filled := 0
	if total > 0 {
		filled = max(0, min(value*width/total, width))
	}

	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(styles.Subtle).Render(strings.Repeat("░", width-filled))
}

// SimpleProgressBar renders a label, gradient bar and percentage on one line.
func SimpleProgressBar(percent float64, label string, width int) string {
	const percentWidth = 6
	barWidth := max(width-len(label)-1-percentWidth-4, 5)

	labelStr := lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(label)

	percentStr := styles.GetProgressStyle(percent).
		Width(percentWidth).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%.0f%%", percent))

	return fmt.Sprintf("%s [%s] %s", labelStr, RenderGradientBar(percent, barWidth), percentStr)
}

// RenderLoadingBar renders a shimmering placeholder bar for the given animation frame.
func RenderLoadingBar(width, frame int) string {
	const cycle = 120

	barWidth := max(width, 10)

	t := float64(frame%cycle) / float64(cycle)
	p := t * 2
	if t >= 0.5 {
		p = (1 - t) * 2
	}
	eased := p * p * (3 - 2*p)
	shimmerPos := int(eased * float64(barWidth))

	var b strings.Builder
	for i := range barWidth {
		dist := shimmerPos - i
		if dist < 0 {
			dist = -dist
		}

		switch {
		case dist < 3:
			b.WriteString(lipgloss.NewStyle().Foreground(styles.Primary).Render("▓"))
		case dist < 5:
			b.WriteString(lipgloss.NewStyle().Foreground(styles.TextSecondary).Render("▒"))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(styles.BgLight).Render("░"))
		}
	}

	return b.String()
}

func interpolateColor(fromHex, toHex string, t float64) string {
	from := hexToRGB(fromHex)
	to := hexToRGB(toHex)

	r := int(float64(from[0]) + t*(float64(to[0])-float64(from[0])))
	g := int(float64(from[1]) + t*(float64(to[1])-float64(from[1])))
	b := int(float64(from[2]) + t*(float64(to[2])-float64(from[2])))

	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

func hexToRGB(hex string) [3]int {
	hex = strings.TrimPrefix(hex, "#")
	var r, g, b int
	if _, err := fmt.Sscanf(hex, "%02x%02x%02x", &r, &g, &b); err != nil {
		logger.Error("failed to parse hex color", "hex", hex, "error", err)
		return [3]int{0, 0, 0}
	}
	return [3]int{r, g, b}
}

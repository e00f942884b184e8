// ABOUTME: Progress bar for upload status lines
// ABOUTME: Renders a clamped bar with an optional percentage label

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ProgressBarConfig holds configuration for the progress bar
type ProgressBarConfig struct {
	Width      int
	FillColor  lipgloss.Color
	DoneColor  lipgloss.Color
	EmptyColor lipgloss.Color
}

// DefaultProgressBarConfig returns sensible defaults
func DefaultProgressBarConfig() ProgressBarConfig {
	return ProgressBarConfig{
		Width:      30,
		FillColor:  lipgloss.Color("#3B82F6"), // Blue
		DoneColor:  lipgloss.Color("#10B981"), // Green
		EmptyColor: lipgloss.Color("#374151"), // Dark gray
	}
}

// filledCells returns how many of width cells a percentage fills
func filledCells(percent float64, width int) int {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	return filled
}

// ProgressBar renders a bar like [█████░░░░░]
func ProgressBar(percent float64, config ProgressBarConfig) string {
	if config.Width <= 0 {
		config.Width = 30
	}
	filled := filledCells(percent, config.Width)

	fill := config.FillColor
	if filled == config.Width {
		fill = config.DoneColor
	}
	filledStyle := lipgloss.NewStyle().Foreground(fill)
	emptyStyle := lipgloss.NewStyle().Foreground(config.EmptyColor)

	var bar strings.Builder
	bar.WriteString("[")
	bar.WriteString(filledStyle.Render(strings.Repeat("█", filled)))
	bar.WriteString(emptyStyle.Render(strings.Repeat("░", config.Width-filled)))
	bar.WriteString("]")
	return bar.String()
}

// ProgressBarWithLabel renders the bar followed by the percentage
func ProgressBarWithLabel(percent float64, config ProgressBarConfig) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return fmt.Sprintf("%s %3.0f%%", ProgressBar(percent, config), percent)
}

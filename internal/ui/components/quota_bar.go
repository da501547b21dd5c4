// Package components provides the status line, chart and watch mode building blocks.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/glm-statusline/internal/ui/styles"
)

// BarWidth is the number of cells of a status line usage bar.
const BarWidth = 10

// Bar glyphs.
const (
	FilledCell = "█"
	EmptyCell  = "░"
)

// clampPercent bounds percent to [0, 100].
func clampPercent(percent int) int {
	return max(0, min(100, percent))
}

// filledCells returns how many of width cells percent fills, rounded to nearest.
func filledCells(percent, width int) int {
	return (clampPercent(percent)*width + 50) / 100
}

// UsageBar renders a fixed-width bar coloured by usage level.
func UsageBar(percent, width int) string {
	if width < 1 {
		return ""
	}
	filled := filledCells(percent, width)

	style := styles.GetUsageStyle(clampPercent(percent))
	return style.Render(strings.Repeat(FilledCell, filled)) +
		styles.EmptyBarStyle.Render(strings.Repeat(EmptyCell, width-filled))
}

// UsageSegment renders "Label ████░░░░░░ 40%".
func UsageSegment(label string, percent int) string {
	percentStr := styles.GetUsageStyle(clampPercent(percent)).Render(fmt.Sprintf("%d%%", percent))
	return styles.LabelStyle.Render(label) + " " + UsageBar(percent, BarWidth) + " " + percentStr
}

// QuotaBar renders a wide usage bar for watch mode using a bubbles progress bar.
type QuotaBar struct {
	progress progress.Model
	label    string
}

// NewQuotaBar creates a quota bar with the given label.
func NewQuotaBar(label string) QuotaBar {
	p := progress.New(
		progress.WithSolidFill(string(styles.Success)),
		progress.WithWidth(30),
		progress.WithoutPercentage(),
	)
	p.EmptyColor = string(styles.Subtle)

	return QuotaBar{progress: p, label: label}
}

// Label returns the bar label.
func (q QuotaBar) Label() string {
	return q.label
}

// View renders the bar at percent within width columns.
func (q QuotaBar) View(percent, width int) string {
	barWidth := width - 20 // Reserve space for label and percentage
	if barWidth < 10 {
		barWidth = 10
	}
	q.progress.Width = barWidth
	q.progress.FullColor = string(styles.GetUsageColor(clampPercent(percent)))

	bar := q.progress.ViewAs(float64(clampPercent(percent)) / 100)

	percentStr := styles.GetUsageStyle(clampPercent(percent)).
		Width(6).
		Align(lipgloss.Right).
		Render(fmt.Sprintf("%d%%", percent))

	labelStr := styles.LabelStyle.Width(8).Render(q.label)

	return lipgloss.JoinHorizontal(lipgloss.Center, labelStr, bar, " ", percentStr)
}

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/glm-statusline/internal/models"
	"github.com/j-veylop/glm-statusline/internal/ui/styles"
)

// ChartColors defines colors for chart elements.
var (
	ChartTokenColor = styles.Success
	ChartMCPColor   = styles.Primary
)

// NoHistoryLabel is shown when nothing has been recorded yet.
const NoHistoryLabel = "No usage history recorded yet"

// RenderHistoryChart plots token and MCP percent of points (newest first) on a 0-100 scale.
func RenderHistoryChart(points []models.HistoryPoint, width, height int) string {
	if len(points) == 0 {
		return styles.HelpStyle.Render(NoHistoryLabel)
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	tokens, mcp := models.HistorySeries(points)
	if len(tokens) == 1 {
		tokens = append(tokens, tokens[0])
		mcp = append(mcp, mcp[0])
	}

	graph := asciigraph.PlotMany([][]float64{tokens, mcp},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(100),
		asciigraph.Caption(fmt.Sprintf("usage %% over the last %d snapshots", len(points))),
		asciigraph.SeriesColors(
			asciigraph.Green,
			asciigraph.Blue,
		),
	)

	legend := RenderLegend([]LegendItem{
		{Label: "Token", Color: ChartTokenColor},
		{Label: "MCP", Color: ChartMCPColor},
	})

	return graph + "\n" + legend
}

// RenderHistorySummary describes the newest point.
func RenderHistorySummary(latest models.HistoryPoint) string {
	return fmt.Sprintf("%s %s  %s  %s  %s",
		styles.MutedStyle.Render(latest.Timestamp.Local().Format("01/02 15:04")),
		styles.ModelStyle.Render(latest.ModelName),
		UsageSegment("Token", latest.TokenPercent),
		UsageSegment("MCP", latest.MCPPercent),
		styles.CostStyle.Render("$"+latest.TotalCost),
	)
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline renders the last width percentages (0-100, oldest first) as a
// compact sparkline coloured by usage level.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	var result strings.Builder
	for _, v := range values {
		percent := clampPercent(int(v))
		idx := percent * (len(sparkChars) - 1) / 100
		result.WriteString(styles.GetUsageStyle(percent).Render(string(sparkChars[idx])))
	}
	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	var parts []string
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

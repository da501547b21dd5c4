package components

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/glm-statusline/internal/models"
	"github.com/j-veylop/glm-statusline/internal/ui/styles"
)

// NoProjectionLabel is shown when the recent history shows no growth.
const NoProjectionLabel = "not enough recent usage to forecast"

// RenderProjection describes when the token quota runs out at the current pace.
func RenderProjection(p *models.Projection) string {
	if p == nil || p.Rate <= 0 || math.IsInf(p.HoursLeft, 1) {
		return styles.MutedStyle.Render(NoProjectionLabel)
	}

	parts := []string{
		styles.LabelStyle.Render(fmt.Sprintf("+%.1f%%/h", p.Rate)),
		"100% in " + FormatDuration(time.Duration(p.HoursLeft*float64(time.Hour))),
	}

	if !p.ResetTime.IsZero() {
		when := "after reset"
		if p.WillDepleteBefore {
			when = "before reset"
		}
		parts = append(parts, when+" "+p.ResetTime.Local().Format("15:04"))
	}

	parts = append(parts, styles.MutedStyle.Render(p.Confidence+" confidence"))

	line := strings.Join(parts, styles.SeparatorStyle.Render(" · "))
	return projectionStyle(p.Status).Render(string(p.Status)) + " " + line
}

func projectionStyle(status models.ProjectionStatus) lipgloss.Style {
	switch status {
	case models.ProjectionSafe:
		return styles.UsageLowStyle
	case models.ProjectionWarning:
		return styles.UsageMediumStyle
	case models.ProjectionCritical:
		return styles.UsageHighStyle
	default:
		return styles.MutedStyle
	}
}

// FormatDuration formats d as "2h05m" or "45m", rounded to the minute.
func FormatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Minute {
		return "<1m"
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh%02dm", h, m)
}

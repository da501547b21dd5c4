// Package projection forecasts token quota exhaustion from recorded history.
package projection

import (
	"math"
	"time"

	"github.com/j-veylop/glm-statusline/internal/models"
)

const (
	lowConfThreshold = 6
	medConfThreshold = 24

	// windowJump is the percent drop between consecutive snapshots that marks
	// a quota reset.
	windowJump = 5
	// maxGap ends the window at a pause in recording.
	maxGap  = 30 * time.Minute
	minSpan = time.Minute
)

// Project forecasts exhaustion from points (newest first). Only the snapshots
// of the current quota window are used; the result is UNKNOWN when they do not
// show growth over at least a minute.
func Project(points []models.HistoryPoint, now time.Time) *models.Projection {
	if len(points) == 0 {
		return nil
	}

	latest := points[0]
	window := currentWindow(points)

	proj := &models.Projection{
		CurrentPercent: latest.TokenPercent,
		ResetTime:      latest.NextResetTime,
		DataPoints:     len(window),
		Status:         models.ProjectionUnknown,
		Confidence:     confidence(len(window)),
		HoursLeft:      math.Inf(1),
	}

	if !proj.ResetTime.IsZero() {
		proj.TimeUntilReset = proj.ResetTime.Sub(now)
		if proj.TimeUntilReset < 0 {
			proj.TimeUntilReset = 0
		}
	}

	proj.Rate = rate(window)
	if proj.Rate <= 0 {
		return proj
	}

	remaining := float64(100 - latest.TokenPercent)
	if remaining < 0 {
		remaining = 0
	}
	proj.HoursLeft = remaining / proj.Rate
	proj.DepleteAt = now.Add(time.Duration(proj.HoursLeft * float64(time.Hour)))

	if proj.ResetTime.IsZero() {
		return proj
	}

	neededToSurvive := proj.Rate * proj.TimeUntilReset.Hours()
	proj.WillDepleteBefore = remaining < neededToSurvive

	switch {
	case !proj.WillDepleteBefore:
		proj.Status = models.ProjectionSafe
	case proj.HoursLeft < 1:
		proj.Status = models.ProjectionCritical
	default:
		proj.Status = models.ProjectionWarning
	}

	return proj
}

// currentWindow returns the leading points that belong to the same quota
// window as the newest one.
func currentWindow(points []models.HistoryPoint) []models.HistoryPoint {
	n := 1
	for ; n < len(points); n++ {
		newer, older := points[n-1], points[n]
		if older.TokenPercent > newer.TokenPercent+windowJump {
			break
		}
		if newer.Timestamp.Sub(older.Timestamp) > maxGap {
			break
		}
	}
	return points[:n]
}

// rate returns the token percent growth per hour across window.
func rate(window []models.HistoryPoint) float64 {
	if len(window) < 2 {
		return 0
	}
	newest, oldest := window[0], window[len(window)-1]
	span := newest.Timestamp.Sub(oldest.Timestamp)
	if span < minSpan {
		return 0
	}
	return float64(newest.TokenPercent-oldest.TokenPercent) / span.Hours()
}

func confidence(dataPoints int) string {
	switch {
	case dataPoints < lowConfThreshold:
		return "low"
	case dataPoints < medConfThreshold:
		return "medium"
	default:
		return "high"
	}
}

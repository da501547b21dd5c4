package projection

import (
	"math"
	"testing"
	"time"

	"github.com/j-veylop/glm-statusline/internal/models"
)

var now = time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)

// series builds newest-first points, one every step, from oldest-first percents.
func series(step time.Duration, reset time.Time, percents ...int) []models.HistoryPoint {
	points := make([]models.HistoryPoint, len(percents))
	for i, p := range percents {
		points[len(percents)-1-i] = models.HistoryPoint{
			Timestamp:     now.Add(-time.Duration(len(percents)-1-i) * step),
			NextResetTime: reset,
			TokenPercent:  p,
		}
	}
	return points
}

func TestProject_Empty(t *testing.T) {
	if got := Project(nil, now); got != nil {
		t.Errorf("Project(nil) = %+v, want nil", got)
	}
}

func TestProject_SinglePoint(t *testing.T) {
	proj := Project(series(time.Minute, time.Time{}, 40), now)

	if proj.Status != models.ProjectionUnknown {
		t.Errorf("Status = %s, want UNKNOWN", proj.Status)
	}
	if proj.Rate != 0 || !math.IsInf(proj.HoursLeft, 1) {
		t.Errorf("Rate = %v HoursLeft = %v, want no forecast", proj.Rate, proj.HoursLeft)
	}
	if proj.CurrentPercent != 40 || proj.DataPoints != 1 {
		t.Errorf("unexpected projection %+v", proj)
	}
}

func TestProject_Rates(t *testing.T) {
	tests := []struct {
		name       string
		percents   []int
		reset      time.Time
		wantStatus models.ProjectionStatus
		wantRate   float64
		wantBefore bool
	}{
		{
			// 10% per hour, 50% left, 2h to reset.
			name:       "safe",
			percents:   []int{40, 45, 50},
			reset:      now.Add(2 * time.Hour),
			wantStatus: models.ProjectionSafe,
			wantRate:   10,
		},
		{
			// 10% per hour, 50% left, 8h to reset.
			name:       "warning",
			percents:   []int{40, 45, 50},
			reset:      now.Add(8 * time.Hour),
			wantStatus: models.ProjectionWarning,
			wantRate:   10,
			wantBefore: true,
		},
		{
			// 40% per hour, 10% left.
			name:       "critical",
			percents:   []int{50, 70, 90},
			reset:      now.Add(3 * time.Hour),
			wantStatus: models.ProjectionCritical,
			wantRate:   40,
			wantBefore: true,
		},
		{
			name:       "no reset time",
			percents:   []int{40, 45, 50},
			wantStatus: models.ProjectionUnknown,
			wantRate:   10,
		},
		{
			name:       "flat usage",
			percents:   []int{50, 50, 50},
			reset:      now.Add(time.Hour),
			wantStatus: models.ProjectionUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proj := Project(series(30*time.Minute, tt.reset, tt.percents...), now)

			if proj.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", proj.Status, tt.wantStatus)
			}
			if math.Abs(proj.Rate-tt.wantRate) > 1e-9 {
				t.Errorf("Rate = %v, want %v", proj.Rate, tt.wantRate)
			}
			if proj.WillDepleteBefore != tt.wantBefore {
				t.Errorf("WillDepleteBefore = %v, want %v", proj.WillDepleteBefore, tt.wantBefore)
			}
		})
	}
}

func TestProject_DepleteAt(t *testing.T) {
	proj := Project(series(30*time.Minute, now.Add(time.Hour), 40, 45, 50), now)

	if proj.HoursLeft != 5 {
		t.Errorf("HoursLeft = %v, want 5", proj.HoursLeft)
	}
	if want := now.Add(5 * time.Hour); !proj.DepleteAt.Equal(want) {
		t.Errorf("DepleteAt = %v, want %v", proj.DepleteAt, want)
	}
	if proj.TimeUntilReset != time.Hour {
		t.Errorf("TimeUntilReset = %v, want 1h", proj.TimeUntilReset)
	}
}

func TestProject_PastReset(t *testing.T) {
	proj := Project(series(30*time.Minute, now.Add(-time.Hour), 40, 45), now)
	if proj.TimeUntilReset != 0 {
		t.Errorf("TimeUntilReset = %v, want 0", proj.TimeUntilReset)
	}
}

func TestProject_StopsAtReset(t *testing.T) {
	// 90 -> 95 in the previous window, then the quota reset to 5.
	points := series(10*time.Minute, now.Add(4*time.Hour), 90, 95, 5, 10, 15)
	proj := Project(points, now)

	if proj.DataPoints != 3 {
		t.Errorf("DataPoints = %d, want 3", proj.DataPoints)
	}
	if math.Abs(proj.Rate-30) > 1e-9 {
		t.Errorf("Rate = %v, want 30", proj.Rate)
	}
}

func TestProject_StopsAtGap(t *testing.T) {
	points := series(time.Hour, now.Add(4*time.Hour), 10, 20)
	proj := Project(points, now)

	if proj.DataPoints != 1 {
		t.Errorf("DataPoints = %d, want 1", proj.DataPoints)
	}
	if proj.Status != models.ProjectionUnknown {
		t.Errorf("Status = %s, want UNKNOWN", proj.Status)
	}
}

func TestProject_ShortSpan(t *testing.T) {
	points := series(10*time.Second, now.Add(time.Hour), 10, 20, 30)
	if proj := Project(points, now); proj.Rate != 0 {
		t.Errorf("Rate = %v, want 0 under a minute", proj.Rate)
	}
}

func TestConfidence(t *testing.T) {
	tests := map[int]string{1: "low", 5: "low", 6: "medium", 23: "medium", 24: "high", 100: "high"}
	for n, want := range tests {
		if got := confidence(n); got != want {
			t.Errorf("confidence(%d) = %q, want %q", n, got, want)
		}
	}
}

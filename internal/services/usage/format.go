package usage

import (
	"net/url"
	"time"

	"github.com/j-veylop/glm-statusline/internal/models"
)

// WindowLength is the trailing range queried from the usage endpoints.
const WindowLength = 5 * time.Hour

// queryTimeLayout is the yyyy-MM-dd HH:mm:ss format the monitor API expects.
const queryTimeLayout = "2006-01-02 15:04:05"

// Window returns the trailing usage window ending at now, in local time.
func Window(now time.Time) models.UsageWindow {
	end := now.Local()
	return models.UsageWindow{
		Start: end.Add(-WindowLength),
		End:   end,
	}
}

// WindowQuery encodes w as the startTime/endTime query parameters.
func WindowQuery(w models.UsageWindow) url.Values {
	q := url.Values{}
	q.Set("startTime", w.Start.Format(queryTimeLayout))
	q.Set("endTime", w.End.Format(queryTimeLayout))
	return q
}

// FormatResetTime renders HH:mm when reset falls on the same local calendar day as now,
// and MM/dd HH:mm otherwise.
func FormatResetTime(reset, now time.Time) string {
	reset = reset.Local()
	now = now.Local()

	ry, rm, rd := reset.Date()
	ny, nm, nd := now.Date()
	if ry == ny && rm == nm && rd == nd {
		return reset.Format("15:04")
	}
	return reset.Format("01/02 15:04")
}

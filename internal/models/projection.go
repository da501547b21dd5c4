package models

import "time"

// ProjectionStatus indicates urgency level for quota depletion.
type ProjectionStatus string

const (
	ProjectionSafe     ProjectionStatus = "SAFE"
	ProjectionWarning  ProjectionStatus = "WARNING"
	ProjectionCritical ProjectionStatus = "CRITICAL"
	ProjectionUnknown  ProjectionStatus = "UNKNOWN"
)

// Projection forecasts when the token quota runs out at the current pace.
type Projection struct {
	ResetTime         time.Time        // When the quota window resets
	DepleteAt         time.Time        // Predicted time of reaching 100%
	Status            ProjectionStatus // SAFE, WARNING, CRITICAL, UNKNOWN
	Confidence        string           // "low", "medium", "high"
	Rate              float64          // Token usage growth (%/hr)
	HoursLeft         float64          // Hours until 100% at Rate
	TimeUntilReset    time.Duration    // Duration until reset
	CurrentPercent    int              // Latest token percent
	DataPoints        int              // Snapshots used for Rate
	WillDepleteBefore bool             // True if 100% is reached before reset
}

// Package models defines data structures and domain types.
package models

import "time"

// Limit types reported by the quota endpoint.
const (
	LimitTypeTokens = "TOKENS_LIMIT"
	LimitTypeTime   = "TIME_LIMIT"
)

// QuotaResult is what the quota endpoint contributes to a snapshot.
type QuotaResult struct {
	NextResetTime    *int64
	NextResetTimeStr string
	TokenPercent     int
	MCPPercent       int
	// OK is false for the placeholder used when the quota fetch fails.
	OK bool
}

// ModelUsageResult is what the model-usage endpoint contributes to a snapshot.
type ModelUsageResult struct {
	TotalCost string
	ModelName string
}

// UsageWindow is the trailing time range sent to the usage endpoints.
type UsageWindow struct {
	Start time.Time
	End   time.Time
}

// Defaults substituted when an endpoint fails.
const (
	UnknownModel = "Unknown"
	ZeroCost     = "0.00"
)

// DefaultQuotaResult is used when the quota fetch fails.
func DefaultQuotaResult() QuotaResult {
	return QuotaResult{}
}

// DefaultModelUsageResult is used when the model-usage fetch fails.
func DefaultModelUsageResult() ModelUsageResult {
	return ModelUsageResult{
		TotalCost: ZeroCost,
		ModelName: UnknownModel,
	}
}

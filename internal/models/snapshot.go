package models

import "time"

// UsageSnapshot is the aggregated usage summary produced by one aggregation cycle.
// Timestamps are epoch milliseconds so the cached document stays stable across versions.
type UsageSnapshot struct {
	NextResetTime    *int64 `json:"nextResetTime,omitempty"`
	TotalCost        string `json:"totalCost"`
	ModelName        string `json:"modelName"`
	NextResetTimeStr string `json:"nextResetTimeStr,omitempty"`
	Timestamp        int64  `json:"timestamp"`
	TokenPercent     int    `json:"tokenPercent"`
	MCPPercent       int    `json:"mcpPercent"`
	// QuotaOK reports that TokenPercent and the reset time came from a live
	// quota response rather than the failure defaults. It is not persisted.
	QuotaOK bool `json:"-"`
}

// Time returns the snapshot timestamp as a time.Time.
func (s UsageSnapshot) Time() time.Time {
	return time.UnixMilli(s.Timestamp)
}

// ResetTime returns the next token quota reset, or the zero time if unknown.
func (s UsageSnapshot) ResetTime() time.Time {
	if s.NextResetTime == nil {
		return time.Time{}
	}
	return time.UnixMilli(*s.NextResetTime)
}

// ResultKind discriminates the outcome of an aggregation.
type ResultKind int

const (
	// ResultOK carries a populated snapshot.
	ResultOK ResultKind = iota
	// ResultSetupRequired means credentials or a supported base URL are missing.
	ResultSetupRequired
	// ResultLoading means orchestration failed transiently; try again on the next refresh.
	ResultLoading
)

// String returns the token used for the kind in logs and history.
func (k ResultKind) String() string {
	switch k {
	case ResultOK:
		return "ok"
	case ResultSetupRequired:
		return "setup_required"
	case ResultLoading:
		return "loading"
	default:
		return "unknown"
	}
}

// Result is returned to the presentation layer. Snapshot is only meaningful when Kind is ResultOK.
type Result struct {
	Snapshot UsageSnapshot
	Kind     ResultKind
	Cached   bool
}

// OK wraps a snapshot in a successful result.
func OK(snapshot UsageSnapshot, cached bool) Result {
	return Result{Kind: ResultOK, Snapshot: snapshot, Cached: cached}
}

// SetupRequired returns the terminal "no configuration" result.
func SetupRequired() Result {
	return Result{Kind: ResultSetupRequired, Snapshot: placeholderSnapshot()}
}

// Loading returns the transient failure result.
func Loading() Result {
	return Result{Kind: ResultLoading}
}

func placeholderSnapshot() UsageSnapshot {
	return UsageSnapshot{
		TotalCost: ZeroCost,
		ModelName: UnknownModel,
		Timestamp: time.Now().UnixMilli(),
	}
}

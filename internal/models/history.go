package models

import "time"

// HistoryPoint is one persisted live snapshot (DB model).
type HistoryPoint struct {
	Timestamp     time.Time
	NextResetTime time.Time
	ModelName     string
	TotalCost     string
	ID            int64
	TokenPercent  int
	MCPPercent    int
}

// HistoryPointFromSnapshot converts a snapshot into its DB representation.
func HistoryPointFromSnapshot(s UsageSnapshot) HistoryPoint {
	return HistoryPoint{
		Timestamp:     s.Time(),
		NextResetTime: s.ResetTime(),
		ModelName:     s.ModelName,
		TotalCost:     s.TotalCost,
		TokenPercent:  s.TokenPercent,
		MCPPercent:    s.MCPPercent,
	}
}

// HistorySeries splits points into token and MCP percent series, oldest first.
// Points are expected newest first, as the history queries return them.
func HistorySeries(points []HistoryPoint) (tokens, mcp []float64) {
	tokens = make([]float64, 0, len(points))
	mcp = make([]float64, 0, len(points))
	for i := len(points) - 1; i >= 0; i-- {
		tokens = append(tokens, float64(points[i].TokenPercent))
		mcp = append(mcp, float64(points[i].MCPPercent))
	}
	return tokens, mcp
}

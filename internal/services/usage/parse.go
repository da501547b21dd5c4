package usage

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"

	"github.com/j-veylop/glm-statusline/internal/modelname"
	"github.com/j-veylop/glm-statusline/internal/models"
)

// Pricing applied to model usage, in dollars per million tokens.
const (
	inputPricePerMillion  = 3.0
	outputPricePerMillion = 15.0
)

// toolUsageWeight is the percent contributed by each tool-usage row.
// It is a coarse proxy, not a ratio against a known capacity.
const toolUsageWeight = 5

// ErrMissingField is returned when a response lacks the list the parser expects.
var ErrMissingField = errors.New("response is missing expected field")

// ParseQuota extracts token and time limit percentages from a quota/limit response.
// When several rows share a type the last one wins.
func ParseQuota(body gjson.Result, now time.Time) (models.QuotaResult, error) {
	limits := body.Get("data.limits")
	if !limits.IsArray() {
		return models.DefaultQuotaResult(), fmt.Errorf("%w: data.limits", ErrMissingField)
	}

	result := models.QuotaResult{OK: true}
	limits.ForEach(func(_, row gjson.Result) bool {
		percent := int(math.Round(row.Get("percentage").Float()))

		switch row.Get("type").String() {
		case models.LimitTypeTokens:
			result.TokenPercent = percent
			result.NextResetTime = nil
			result.NextResetTimeStr = ""
			if reset := row.Get("nextResetTime"); reset.Type == gjson.Number {
				ts := reset.Int()
				result.NextResetTime = &ts
				result.NextResetTimeStr = FormatResetTime(time.UnixMilli(ts), now)
			}
		case models.LimitTypeTime:
			result.MCPPercent = percent
		}
		return true
	})

	return result, nil
}

// ParseModelUsage sums token usage across all rows and prices it.
func ParseModelUsage(body gjson.Result, mapper modelname.Mapper) (models.ModelUsageResult, error) {
	list := body.Get("data.list")
	if !list.IsArray() {
		return models.DefaultModelUsageResult(), fmt.Errorf("%w: data.list", ErrMissingField)
	}

	rows := list.Array()
	if len(rows) == 0 {
		return models.DefaultModelUsageResult(), nil
	}

	var inputTokens, outputTokens int64
	for _, row := range rows {
		inputTokens += row.Get("inputTokens").Int()
		outputTokens += row.Get("outputTokens").Int()
	}

	modelName := mapper.Map(rows[0].Get("model").String())
	if modelName == "" {
		modelName = models.UnknownModel
	}

	return models.ModelUsageResult{
		TotalCost: FormatCost(inputTokens, outputTokens),
		ModelName: modelName,
	}, nil
}

// ParseToolUsage converts the number of tool-usage rows into a percent, capped at 100.
func ParseToolUsage(body gjson.Result) (int, error) {
	list := body.Get("data.list")
	if !list.IsArray() {
		return 0, fmt.Errorf("%w: data.list", ErrMissingField)
	}
	return ToolUsagePercent(len(list.Array())), nil
}

// ToolUsagePercent is min(100, round(rows*5)).
func ToolUsagePercent(rows int) int {
	percent := int(math.Round(float64(rows) * toolUsageWeight))
	return min(100, percent)
}

// FormatCost prices the token counts and formats the result with two decimals.
func FormatCost(inputTokens, outputTokens int64) string {
	cost := float64(inputTokens)/1_000_000*inputPricePerMillion +
		float64(outputTokens)/1_000_000*outputPricePerMillion
	return fmt.Sprintf("%.2f", cost)
}

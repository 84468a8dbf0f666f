package strategy

import (
	"PremiumSentinel/internal/calculator"
	"PremiumSentinel/internal/model"
)

// TimeRanges are the detail view windows, in points.
var TimeRanges = []int{30, 90, 180, 365}

// DefaultTimeRange is used when the caller asks for an unsupported window.
const DefaultTimeRange = 180

// Zone labels.
const (
	ZoneOversold   = "超卖"
	ZoneNeutral    = "中性"
	ZoneOverbought = "超买"

	ZoneCalm     = "平稳"
	ZoneModerate = "正常"
	ZoneRough    = "剧烈"
)

// ValidTimeRange reports whether days is one of TimeRanges.
func ValidTimeRange(days int) bool {
	for _, d := range TimeRanges {
		if d == days {
			return true
		}
	}
	return false
}

// Window returns the last n points of a series.
func Window(points []model.EnrichedPoint, n int) []model.EnrichedPoint {
	if n <= 0 || n >= len(points) {
		return points
	}
	return points[len(points)-n:]
}

// BuildDashboard evaluates the latest point of the last windowDays points.
// The boolean is false for an empty series.
func BuildDashboard(points []model.EnrichedPoint, windowDays int) (model.Dashboard, bool) {
	view := Window(points, windowDays)
	latest, ok := model.Latest(view)
	if !ok {
		return model.Dashboard{}, false
	}

	stats := calculator.PercentileStats(latest.PremiumRate, model.Premiums(view))
	score := Evaluate(latest.PremiumRate, stats.Rank)

	return model.Dashboard{
		Latest:         latest,
		WindowDays:     windowDays,
		Stats:          stats,
		Score:          score,
		Risk:           AnalyzeRisk(latest.PremiumRate),
		LagStatus:      calculator.ClassifyLag(latest.LagDays),
		DataStale:      calculator.IsDataStale(latest.LagDays),
		RSIZone:        RSIZone(latest.RSI),
		VolatilityZone: VolatilityZone(latest.Volatility),
		Advice:         Advice(latest.PremiumRate, stats.Rank, latest.RSI, latest.Volatility, score.Score),
	}, true
}

// RSIZone names the momentum zone of an RSI reading.
func RSIZone(rsi float64) string {
	switch {
	case rsi < RSIOversold:
		return ZoneOversold
	case rsi > RSIOverbought:
		return ZoneOverbought
	default:
		return ZoneNeutral
	}
}

func VolatilityZone(vol float64) string {
	switch {
	case vol < VolatilityCalm:
		return ZoneCalm
	case vol > VolatilityRough:
		return ZoneRough
	default:
		return ZoneModerate
	}
}

package calculator

import "PremiumSentinel/internal/model"

// PremiumRate is the signed percentage by which price exceeds the reference value, rounded to 2 decimals.
func PremiumRate(price, ref float64) float64 {
	return Round2((price - ref) / ref * 100)
}

// Combine runs the full per-fund pass: sanitize, compute indicators over the price series,
// align against the reference series and assemble one enriched point per aligned price.
func Combine(prices []model.PriceObservation, refs []model.ReferenceObservation) []model.EnrichedPoint {
	prices = SanitizePrices(prices)
	if len(prices) == 0 {
		return nil
	}

	closes := make([]float64, len(prices))
	for i, p := range prices {
		closes[i] = p.Close
	}
	rsi := CalculateRSI(closes, RSIPeriod)
	vol := CalculateVolatility(closes, VolatilityWindow, TradingDaysPerYear)

	pairs := Align(prices, refs)
	points := make([]model.EnrichedPoint, 0, len(pairs))
	for _, pair := range pairs {
		points = append(points, NewPoint(pair, rsi[pair.Index], vol[pair.Index]))
	}
	return points
}

// NewPoint builds an enriched point from an aligned pair and its index-aligned indicator values.
func NewPoint(pair AlignedPair, rsi, volatility float64) model.EnrichedPoint {
	return model.EnrichedPoint{
		Date:           pair.Price.Date,
		ClosePrice:     pair.Price.Close,
		RefDate:        pair.Ref.Date,
		ReferenceValue: pair.Ref.Value,
		PremiumRate:    PremiumRate(pair.Price.Close, pair.Ref.Value),
		RSI:            Round2(rsi),
		Volatility:     Round2(volatility),
		LagDays:        pair.LagDays,
		Source:         model.SourceEastMoney,
		IsReal:         true,
	}
}

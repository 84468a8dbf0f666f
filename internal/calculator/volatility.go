package calculator

import "math"

const (
	VolatilityWindow   = 30
	TradingDaysPerYear = 252
)

// CalculateVolatility returns annualized historical volatility in percent, one value per close.
// Position i uses the window log returns ending at close i, so the first window+1 positions are 0.
func CalculateVolatility(closes []float64, window, annualization int) []float64 {
	out := make([]float64, len(closes))
	if window < 2 || len(closes) < window+2 {
		return out
	}

	returns := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns[i-1] = math.Log(closes[i] / closes[i-1])
	}

	scale := math.Sqrt(float64(annualization)) * 100
	for i := window + 1; i < len(closes); i++ {
		out[i] = sampleStdDev(returns[i-window:i]) * scale
	}
	return out
}

func sampleStdDev(values []float64) float64 {
	n := float64(len(values))
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= n

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / (n - 1))
}

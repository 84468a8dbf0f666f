package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds to two decimal places, half away from zero.
// Non-finite input yields 0 so that a bad upstream value never reaches a comparison.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

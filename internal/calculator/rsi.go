package calculator

// RSIPeriod is the default RSI lookback.
const RSIPeriod = 14

// CalculateRSI returns one Wilder-smoothed RSI value per close.
// The first period positions are 0, the sentinel for "not enough history".
// A zero initial average loss is treated as 1, and a zero smoothed loss maps RS to 100.
func CalculateRSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	if period <= 0 || len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss -= change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	denom := avgLoss
	if denom == 0 {
		denom = 1
	}
	out[period] = 100 - 100/(1+avgGain/denom)

	for i := period + 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if change > 0 {
			gain = change
		} else {
			loss = -change
		}
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)

		rs := 100.0
		if avgLoss != 0 {
			rs = avgGain / avgLoss
		}
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

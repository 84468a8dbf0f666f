package calculator

import (
	"math"
	"sort"

	"PremiumSentinel/internal/model"
)

// PercentileStats places current within history. Rank is the share of history at or below
// current, in whole percent; a higher rank means current is more expensive than more of history.
// An empty history yields the zero summary.
func PercentileStats(current float64, history []float64) model.StatsSummary {
	if len(history) == 0 {
		return model.StatsSummary{}
	}

	sorted := make([]float64, len(history))
	copy(sorted, history)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	// first element strictly greater than current
	idx := sort.Search(len(sorted), func(i int) bool { return sorted[i] > current })
	n := float64(len(sorted))

	return model.StatsSummary{
		Rank: int(math.Round(float64(idx) / n * 100)),
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Avg:  sum / n,
	}
}

// Percentile returns only the rank of PercentileStats.
func Percentile(current float64, history []float64) int {
	return PercentileStats(current, history).Rank
}

package strategy

import (
	"math"

	"PremiumSentinel/internal/model"
)

// Score label thresholds.
const (
	StrongBuyMinScore   = 80
	RecommendedMinScore = 60
	HoldMinScore        = 40
)

// Score weights: 100 minus 20 points per premium percent and 0.2 per percentile point,
// plus a bonus while the fund trades at a discount.
const (
	baseScore      = 100.0
	premiumPenalty = 20.0
	rankPenalty    = 0.2
	discountBonus  = 10.0
	minScore       = 0.0
	maxScore       = 100.0
)

// ScoreTiers maps a rounded score to its label, walked top-down.
var ScoreTiers = []struct {
	MinScore int
	Label    string
	Style    string
}{
	{StrongBuyMinScore, "强烈推荐", "emerald"},
	{RecommendedMinScore, "推荐关注", "blue"},
	{HoldMinScore, "中性持有", "amber"},
}

// DefaultScoreTier applies below HoldMinScore.
var DefaultScoreTier = struct {
	Label string
	Style string
}{"建议卖出", "rose"}

// Evaluate combines the current premium and its historical rank into a 0-100 score.
func Evaluate(premium float64, rank int) model.ScoreResult {
	raw := baseScore - premium*premiumPenalty - float64(rank)*rankPenalty
	if premium < 0 {
		raw += discountBonus
	}
	if math.IsNaN(raw) {
		raw = minScore
	}
	raw = math.Max(minScore, math.Min(maxScore, raw))

	score := int(math.Round(raw))
	label, style := mapScoreTier(score)
	return model.ScoreResult{Score: score, Label: label, Style: style}
}

func mapScoreTier(score int) (string, string) {
	for _, t := range ScoreTiers {
		if score >= t.MinScore {
			return t.Label, t.Style
		}
	}
	return DefaultScoreTier.Label, DefaultScoreTier.Style
}

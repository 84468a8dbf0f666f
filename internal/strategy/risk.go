package strategy

import "PremiumSentinel/internal/model"

// RiskTiers are walked top-down; the first whose bound exceeds the premium applies.
var RiskTiers = []struct {
	Below float64
	Tier  model.RiskTier
}{
	{0.5, model.RiskTier{Level: model.RiskSafe, Label: "超值低估", Style: "emerald",
		Advice: "当前价格接近或低于净值，是较好的配置时机。"}},
	{1.5, model.RiskTier{Level: model.RiskNormal, Label: "价格合理", Style: "blue",
		Advice: "属于正常市场波动范围，适合定投或分批买入。"}},
	{3.0, model.RiskTier{Level: model.RiskCaution, Label: "明显溢价", Style: "amber",
		Advice: "你正在支付额外成本。建议观望，或等待回调。"}},
}

// HighRiskTier applies at a premium of 3% and above.
var HighRiskTier = model.RiskTier{Level: model.RiskHigh, Label: "高危溢价", Style: "rose",
	Advice: "严重偏离真实价值！溢价回落将导致即刻亏损，请极度谨慎。"}

// AnalyzeRisk classifies a premium rate on its own.
func AnalyzeRisk(premium float64) model.RiskTier {
	for _, t := range RiskTiers {
		if premium < t.Below {
			return t.Tier
		}
	}
	return HighRiskTier
}

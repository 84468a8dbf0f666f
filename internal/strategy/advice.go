package strategy

import (
	"fmt"
	"strings"
)

// Indicator zone bounds shared by the dashboard and the advice text.
const (
	RSIOversold       = 30.0
	RSIOverbought     = 70.0
	VolatilityCalm    = 15.0
	VolatilityRough   = 25.0
	FairPremiumCeil   = 1.5
	RankBottomPercent = 20
	RankTopPercent    = 80
)

// Advice renders a plain-language Markdown explanation of the latest point.
func Advice(premium float64, rank int, rsi, volatility float64, score int) string {
	var b strings.Builder

	switch {
	case score >= StrongBuyMinScore:
		b.WriteString("🔥 **结论：买入信号。** 综合评分很高，当前价格的性价比突出。")
	case score >= RecommendedMinScore:
		b.WriteString("👍 **结论：值得关注。** 整体状况健康，可以考虑分批建仓。")
	case score >= HoldMinScore:
		b.WriteString("✋ **结论：暂且观望。** 性价比一般，此刻买入未必是好时机。")
	default:
		b.WriteString("🛑 **结论：建议卖出或空仓。** 绝对评分过低，即便排名靠前，风险依然很大。")
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "🔹 **溢价 (%.2f%%)：** ", premium)
	switch {
	case premium < 0:
		b.WriteString("处于**折价**，可以低于净值的价格买到一篮子美股，安全边际明确。")
	case premium < FairPremiumCeil:
		b.WriteString("溢价较低，额外成本很小，价格基本**公允**。")
	default:
		fmt.Fprintf(&b, "溢价偏高，每投入100元要多付约%.1f元，这部分成本很难靠上涨赚回。", premium)
	}

	fmt.Fprintf(&b, "\n🔹 **历史分位 (P%d)：** ", rank)
	switch {
	case rank < RankBottomPercent:
		b.WriteString("比区间内绝大多数时间都便宜，属于**底部区域**。")
	case rank > RankTopPercent:
		b.WriteString("比区间内绝大多数时间都贵，属于**顶部区域**，历史上到这里后常会回落。")
	default:
		b.WriteString("接近历史平均水平，没有明显的择时优势。")
	}

	fmt.Fprintf(&b, "\n🔹 **RSI (%.1f)：** ", rsi)
	switch {
	case rsi < RSIOversold:
		b.WriteString("低于30，短期**超卖**，出现反弹的概率较大。")
	case rsi > RSIOverbought:
		b.WriteString("高于70，短期**超买**，回调风险较高。")
	default:
		b.WriteString("位于30到70之间，情绪平稳，没有极端信号。")
	}

	fmt.Fprintf(&b, "\n🔹 **波动率 (%.1f%%)：** ", volatility)
	switch {
	case volatility < VolatilityCalm:
		b.WriteString("波动很低，走势平稳，适合长期持有。")
	case volatility > VolatilityRough:
		b.WriteString("波动剧烈，有做差价的空间，但持有体验较差，新手慎入。")
	default:
		b.WriteString("波动适中，表现正常。")
	}

	return b.String()
}

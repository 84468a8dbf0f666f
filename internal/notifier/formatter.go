package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"PremiumSentinel/internal/calculator"
	"PremiumSentinel/internal/model"
)

// FormatRankingReport formats the fund comparison table into a Telegram message.
func FormatRankingReport(ranking model.Ranking, now time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>纳指ETF溢价日报</b> | %s\n\n", now.Format(model.DateLayout)))

	if ranking.Top != nil {
		icon := "🏆"
		if !ranking.Top.Good {
			icon = "⚠️"
		}
		b.WriteString(fmt.Sprintf("%s <b>%s</b>\n", icon, html.EscapeString(ranking.BannerTitle)))
		b.WriteString(fmt.Sprintf("%s %s · 评分 %d\n", ranking.Top.Row.Ticker, html.EscapeString(ranking.Top.Row.Name), ranking.Top.Row.Score))
		b.WriteString(html.EscapeString(ranking.BannerText) + "\n\n")
	} else {
		b.WriteString("⚠️ 暂无可用数据\n\n")
	}

	b.WriteString("📈 <b>排名:</b>\n")
	for i, row := range ranking.Rows {
		if row.Degraded {
			b.WriteString(fmt.Sprintf("%d. %s %s: 数据获取失败\n", i+1, row.Ticker, html.EscapeString(row.Name)))
			continue
		}
		b.WriteString(fmt.Sprintf("%d. %s %s: 溢价 %+.2f%% · P%d · %d分 %s\n",
			i+1, row.Ticker, html.EscapeString(row.Name), row.Premium, row.Rank, row.Score, row.Label))
	}
	return b.String()
}

// FormatFundDetail formats one fund's dashboard.
func FormatFundDetail(detail model.FundDetail) string {
	var b strings.Builder
	p := detail.Profile
	b.WriteString(fmt.Sprintf("🔎 <b>%s %s</b>\n", p.Ticker, html.EscapeString(p.Name)))

	if detail.Dashboard == nil {
		b.WriteString("暂无数据，上游数据源可能暂时不可用。")
		return b.String()
	}
	d := detail.Dashboard
	l := d.Latest

	b.WriteString(fmt.Sprintf("日期: %s (净值 %s)\n", l.Date.Format(model.DateLayout), l.RefDate.Format(model.DateLayout)))
	b.WriteString(fmt.Sprintf("价格: %g | 净值: %g\n", l.ClosePrice, l.ReferenceValue))
	b.WriteString(fmt.Sprintf("溢价率: <b>%+.2f%%</b> (%s)\n", l.PremiumRate, d.Risk.Label))
	b.WriteString(fmt.Sprintf("近%d日分位: P%d (区间 %.2f%% ~ %.2f%%, 均值 %.2f%%)\n",
		d.WindowDays, d.Stats.Rank, d.Stats.Min, d.Stats.Max, d.Stats.Avg))
	b.WriteString(fmt.Sprintf("综合评分: <b>%d</b> %s\n", d.Score.Score, d.Score.Label))
	b.WriteString(fmt.Sprintf("RSI: %.1f (%s) | 波动率: %.1f%% (%s)\n", l.RSI, d.RSIZone, l.Volatility, d.VolatilityZone))

	if d.DataStale {
		b.WriteString(fmt.Sprintf("\n⚠️ 参考净值滞后 %d 天，可能因海外假期或数据源延迟，溢价率仅供参考。\n", l.LagDays))
	} else if d.LagStatus != model.LagNormal {
		b.WriteString(fmt.Sprintf("\n⏳ 参考净值%s。\n", FormatLag(l.LagDays)))
	}

	b.WriteString("\n" + html.EscapeString(d.Risk.Advice) + "\n\n")
	b.WriteString(MarkdownToHTML(d.Advice))
	return b.String()
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	return "🤖 <b>可用命令</b>\n" +
		"/rank - 全部基金溢价排名\n" +
		"/fund &lt;代码&gt; [天数] - 单只基金详情，天数可选 30/90/180/365\n" +
		"/help - 显示帮助"
}

// FormatLag renders a lag warning level as text.
func FormatLag(lag int) string {
	switch calculator.ClassifyLag(lag) {
	case model.LagStale:
		return fmt.Sprintf("滞后%d天", lag)
	case model.LagLagging:
		return fmt.Sprintf("可能滞后(%d天)", lag)
	default:
		return "正常"
	}
}

// MarkdownToHTML escapes s and turns **bold** spans into <b> tags.
func MarkdownToHTML(s string) string {
	parts := strings.Split(html.EscapeString(s), "**")
	if len(parts)%2 == 0 {
		// unbalanced markers are kept literally
		return html.EscapeString(s)
	}
	var b strings.Builder
	for i, part := range parts {
		if i%2 == 1 {
			b.WriteString("<b>" + part + "</b>")
		} else {
			b.WriteString(part)
		}
	}
	return b.String()
}

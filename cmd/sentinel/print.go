package main

import (
	"fmt"
	"io"

	"PremiumSentinel/internal/model"
	"PremiumSentinel/internal/strategy"
)

func printRanking(w io.Writer, r model.Ranking) {
	if r.Top != nil {
		fmt.Fprintf(w, "【%s】%s\n%s\n\n", r.BannerTitle, strategy.Summary(r.Top.Row), r.BannerText)
	}
	for i, row := range r.Rows {
		fmt.Fprintf(w, "%d. %s\n", i+1, strategy.Summary(row))
	}
}

func printDetail(w io.Writer, d model.FundDetail) {
	fmt.Fprintf(w, "%s %s (近%d日)\n", d.Profile.Ticker, d.Profile.Name, d.WindowDays)
	if d.Dashboard == nil {
		fmt.Fprintln(w, "暂无数据")
		return
	}
	db := d.Dashboard
	l := db.Latest
	fmt.Fprintf(w, "日期 %s  价格 %g  净值 %g (%s)\n", l.Date.Format(model.DateLayout), l.ClosePrice, l.ReferenceValue, l.RefDate.Format(model.DateLayout))
	fmt.Fprintf(w, "溢价率 %+.2f%%  %s\n", l.PremiumRate, db.Risk.Label)
	fmt.Fprintf(w, "分位 P%d  区间 %.2f%% ~ %.2f%%  均值 %.2f%%\n", db.Stats.Rank, db.Stats.Min, db.Stats.Max, db.Stats.Avg)
	fmt.Fprintf(w, "评分 %d %s\n", db.Score.Score, db.Score.Label)
	fmt.Fprintf(w, "RSI %.1f (%s)  波动率 %.1f%% (%s)\n", l.RSI, db.RSIZone, l.Volatility, db.VolatilityZone)
	if db.DataStale {
		fmt.Fprintf(w, "注意: 参考净值滞后 %d 天\n", l.LagDays)
	}
	fmt.Fprintf(w, "\n%s\n\n%s\n", db.Risk.Advice, db.Advice)
}

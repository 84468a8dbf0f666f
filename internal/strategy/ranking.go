package strategy

import (
	"fmt"
	"sort"
	"strings"

	"PremiumSentinel/internal/calculator"
	"PremiumSentinel/internal/model"
)

// GoodPickMinScore separates a recommendable top pick from a cautionary one.
const GoodPickMinScore = 60

// DegradedRank is reported for funds whose series could not be fetched.
const DegradedRank = 50

// SortKey selects the ranking column.
type SortKey string

const (
	SortByScore   SortKey = "score"
	SortByPremium SortKey = "premium"
	SortByRank    SortKey = "rank"
)

// SortDir is the ranking order.
type SortDir string

const (
	SortAsc  SortDir = "asc"
	SortDesc SortDir = "desc"
)

// ParseSort maps query values to a key and direction; unknown values fall back to score descending.
func ParseSort(key, dir string) (SortKey, SortDir) {
	k := SortKey(strings.ToLower(strings.TrimSpace(key)))
	switch k {
	case SortByScore, SortByPremium, SortByRank:
	default:
		k = SortByScore
	}
	d := SortDir(strings.ToLower(strings.TrimSpace(dir)))
	if d != SortAsc && d != SortDesc {
		d = SortDesc
	}
	return k, d
}

// Banner texts.
const (
	GoodBannerTitle    = "综合评分第一 (长期持有首选)"
	GoodBannerText     = "当前溢价低且处于历史低位区间，综合性价比最高。"
	CautionBannerTitle = "当前全市场性价比较低"
	CautionBannerText  = "即使是得分最高的ETF，目前也存在一定风险，建议谨慎观望。"
)

// BuildRow summarises one fund. The whole series is the rank population.
func BuildRow(s model.FundSeries) model.RankingRow {
	row := model.RankingRow{Ticker: s.Profile.Ticker, Name: s.Profile.Name}

	latest, ok := model.Latest(s.Points)
	if !ok {
		row.Rank = DegradedRank
		row.Degraded = true
		row.Risk = AnalyzeRisk(0)
		return row
	}

	stats := calculator.PercentileStats(latest.PremiumRate, model.Premiums(s.Points))
	score := Evaluate(latest.PremiumRate, stats.Rank)
	row.Premium = latest.PremiumRate
	row.Rank = stats.Rank
	row.Score = score.Score
	row.Label = score.Label
	row.Style = score.Style
	row.Risk = AnalyzeRisk(latest.PremiumRate)
	row.LastUpdate = latest.Date.Format(model.DateLayout)
	row.Stats = stats
	return row
}

// BuildRows summarises every fund in input order.
func BuildRows(series []model.FundSeries) []model.RankingRow {
	rows := make([]model.RankingRow, 0, len(series))
	for _, s := range series {
		rows = append(rows, BuildRow(s))
	}
	return rows
}

// SortRows orders rows in place. Ties keep their input order.
func SortRows(rows []model.RankingRow, key SortKey, dir SortDir) {
	value := func(r model.RankingRow) float64 {
		switch key {
		case SortByPremium:
			return r.Premium
		case SortByRank:
			return float64(r.Rank)
		default:
			return float64(r.Score)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if dir == SortAsc {
			return value(rows[i]) < value(rows[j])
		}
		return value(rows[i]) > value(rows[j])
	})
}

// TopRecommendation returns the first row with the highest score, skipping degraded rows.
func TopRecommendation(rows []model.RankingRow) (model.TopPick, bool) {
	best := -1
	for i, r := range rows {
		if r.Degraded {
			continue
		}
		if best < 0 || r.Score > rows[best].Score {
			best = i
		}
	}
	if best < 0 {
		return model.TopPick{}, false
	}
	return model.TopPick{Row: rows[best], Good: rows[best].Score >= GoodPickMinScore}, true
}

// Rank builds the comparison table. The top pick is chosen in input order before sorting.
func Rank(series []model.FundSeries, key SortKey, dir SortDir) model.Ranking {
	rows := BuildRows(series)

	var ranking model.Ranking
	if top, ok := TopRecommendation(rows); ok {
		ranking.Top = &top
		ranking.BannerTitle, ranking.BannerText = Banner(top)
	}

	SortRows(rows, key, dir)
	ranking.Rows = rows
	return ranking
}

// Banner returns the headline for a top pick.
func Banner(top model.TopPick) (string, string) {
	if top.Good {
		return GoodBannerTitle, GoodBannerText
	}
	return CautionBannerTitle, CautionBannerText
}

// Summary is a one-line description of a row for logs and chat.
func Summary(r model.RankingRow) string {
	if r.Degraded {
		return fmt.Sprintf("%s %s: 无数据", r.Ticker, r.Name)
	}
	return fmt.Sprintf("%s %s: 溢价 %+.2f%% P%d 评分 %d %s", r.Ticker, r.Name, r.Premium, r.Rank, r.Score, r.Label)
}

package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PremiumSentinel/internal/collector"
	"PremiumSentinel/internal/config"
	"PremiumSentinel/internal/model"
	"PremiumSentinel/internal/service"
	"PremiumSentinel/internal/strategy"
)

func TestPrintRanking(t *testing.T) {
	row := model.RankingRow{Ticker: "513100", Name: "国泰纳斯达克100", Premium: 0.5, Rank: 10, Score: 88, Label: "强烈推荐"}
	var buf bytes.Buffer
	printRanking(&buf, model.Ranking{
		Rows:        []model.RankingRow{row, {Ticker: "159941", Name: "广发", Degraded: true}},
		Top:         &model.TopPick{Row: row, Good: true},
		BannerTitle: strategy.GoodBannerTitle,
		BannerText:  strategy.GoodBannerText,
	})
	out := buf.String()
	assert.Contains(t, out, strategy.GoodBannerTitle)
	assert.Contains(t, out, "1. 513100 国泰纳斯达克100: 溢价 +0.50% P10 评分 88 强烈推荐")
	assert.Contains(t, out, "2. 159941 广发: 无数据")
}

func TestPrintDetail(t *testing.T) {
	end := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)
	col := collector.NewCollector(
		&collector.MockPriceFeed{Base: 1.5, End: end},
		&collector.MockReferenceFeed{Base: 1.5, Premium: 1, End: end},
		nil, 1,
	)
	series := col.FetchFund(context.Background(), model.FundProfile{Ticker: "513100", Name: "国泰纳斯达克100"}, 200)
	require.False(t, series.Degraded)
	require.NotEmpty(t, series.Points)

	var buf bytes.Buffer
	printDetail(&buf, service.BuildDetail(series.Profile, series.Points, 90))
	out := buf.String()
	assert.Contains(t, out, "513100 国泰纳斯达克100 (近90日)")
	assert.Contains(t, out, "溢价率")
	assert.Contains(t, out, "评分")

	buf.Reset()
	printDetail(&buf, model.FundDetail{Profile: model.FundProfile{Ticker: "CSV"}, WindowDays: 30})
	assert.Contains(t, buf.String(), "暂无数据")
}

func TestBuildFeeds_Mock(t *testing.T) {
	c := &config.Config{}
	c.DataSource.Provider = config.ProviderMock
	prices, refs := buildFeeds(c, nil)
	assert.Equal(t, "mock-price", prices.Name())
	assert.NotEmpty(t, refs.Name())
}

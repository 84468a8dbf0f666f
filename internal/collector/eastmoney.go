package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"PremiumSentinel/internal/model"
)

// DefaultPriceBaseURL is the EastMoney daily k-line host.
const DefaultPriceBaseURL = "https://push2his.eastmoney.com"

// EastMoneyPriceFeed reads daily closes from the EastMoney k-line API.
type EastMoneyPriceFeed struct {
	baseURL string
	http    *getter
}

// NewEastMoneyPriceFeed creates the price feed client.
func NewEastMoneyPriceFeed(opts HTTPOptions) *EastMoneyPriceFeed {
	base := opts.BaseURL
	if base == "" {
		base = DefaultPriceBaseURL
	}
	return &EastMoneyPriceFeed{baseURL: strings.TrimRight(base, "/"), http: newGetter(opts)}
}

func (f *EastMoneyPriceFeed) Name() string { return "eastmoney-kline" }

// klineResponse is the subset of the k-line payload we read.
// Each kline is "date,close" given fields2=f51,f53.
type klineResponse struct {
	Data *struct {
		Code   string   `json:"code"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

func (f *EastMoneyPriceFeed) klineURL(marketCode string, days int) string {
	q := url.Values{}
	q.Set("secid", marketCode)
	q.Set("fields1", "f1,f2,f3,f4,f5,f6")
	q.Set("fields2", "f51,f53")
	q.Set("klt", "101") // daily
	q.Set("fqt", "1")   // forward-adjusted
	q.Set("end", "20500101")
	q.Set("lmt", strconv.Itoa(days))
	return f.baseURL + "/api/qt/stock/kline/get?" + q.Encode()
}

func (f *EastMoneyPriceFeed) FetchPrices(ctx context.Context, profile model.FundProfile, days int) ([]model.PriceObservation, error) {
	if days <= 0 {
		return nil, fmt.Errorf("kline %s: non-positive window %d", profile.Ticker, days)
	}
	key := fmt.Sprintf("kline:%s:%d", profile.MarketCode, days)
	body, err := f.http.get(ctx, f.klineURL(profile.MarketCode, days), key)
	if err != nil {
		return nil, fmt.Errorf("kline %s: %w", profile.Ticker, err)
	}
	return parseKlines(body)
}

func parseKlines(body []byte) ([]model.PriceObservation, error) {
	var resp klineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("kline decode: %w", err)
	}
	if resp.Data == nil {
		// unknown or delisted code
		return nil, nil
	}

	prices := make([]model.PriceObservation, 0, len(resp.Data.Klines))
	for _, line := range resp.Data.Klines {
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		date, err := model.ParseDate(strings.TrimSpace(parts[0]))
		if err != nil {
			continue
		}
		closePrice, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if err != nil {
			continue
		}
		prices = append(prices, model.PriceObservation{Date: date, Close: closePrice})
	}
	return prices, nil
}

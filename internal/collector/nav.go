package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"PremiumSentinel/internal/model"
)

// DefaultNavBaseURL is the EastMoney fund data host.
const DefaultNavBaseURL = "https://fund.eastmoney.com"

// navTimezone is the publisher's local time; NAV timestamps are midnight in this zone.
var navTimezone = time.FixedZone("CST", 8*3600)

var netWorthTrendRe = regexp.MustCompile(`Data_netWorthTrend\s*=\s*(\[[\s\S]*?\])\s*;`)

// EastMoneyNavFeed reads the official NAV history from the fund data script.
type EastMoneyNavFeed struct {
	baseURL string
	http    *getter
	now     func() time.Time
}

// NewEastMoneyNavFeed creates the NAV feed client.
func NewEastMoneyNavFeed(opts HTTPOptions) *EastMoneyNavFeed {
	base := opts.BaseURL
	if base == "" {
		base = DefaultNavBaseURL
	}
	return &EastMoneyNavFeed{baseURL: strings.TrimRight(base, "/"), http: newGetter(opts), now: time.Now}
}

func (f *EastMoneyNavFeed) Name() string { return "eastmoney-nav" }

// navPoint is one element of Data_netWorthTrend. y can be a number or a quoted number.
type navPoint struct {
	X int64           `json:"x"`
	Y json.RawMessage `json:"y"`
}

func (f *EastMoneyNavFeed) FetchReferences(ctx context.Context, profile model.FundProfile) ([]model.ReferenceObservation, error) {
	// v defeats intermediate caches upstream; our own cache key ignores it
	u := fmt.Sprintf("%s/pingzhongdata/%s.js?v=%d", f.baseURL, profile.Ticker, f.now().UnixMilli())
	body, err := f.http.get(ctx, u, "nav:"+profile.Ticker)
	if err != nil {
		return nil, fmt.Errorf("nav %s: %w", profile.Ticker, err)
	}
	return parseNetWorthTrend(body)
}

func parseNetWorthTrend(body []byte) ([]model.ReferenceObservation, error) {
	m := netWorthTrendRe.FindSubmatch(body)
	if m == nil {
		if bytes.Contains(body, []byte("Data_netWorthTrend")) {
			return nil, fmt.Errorf("nav: malformed Data_netWorthTrend")
		}
		// the fund publishes no NAV history
		return nil, nil
	}

	var raw []navPoint
	if err := json.Unmarshal(m[1], &raw); err != nil {
		return nil, fmt.Errorf("nav decode: %w", err)
	}

	refs := make([]model.ReferenceObservation, 0, len(raw))
	for _, p := range raw {
		v, ok := parseNavValue(p.Y)
		if !ok {
			continue
		}
		local := time.UnixMilli(p.X).In(navTimezone)
		y, mo, d := local.Date()
		refs = append(refs, model.ReferenceObservation{
			Date:  time.Date(y, mo, d, 0, 0, 0, 0, time.UTC),
			Value: v,
		})
	}
	return refs, nil
}

func parseNavValue(raw json.RawMessage) (float64, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

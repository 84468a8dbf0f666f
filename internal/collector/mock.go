package collector

import (
	"context"
	"math"
	"time"

	"PremiumSentinel/internal/model"
)

// MockPriceFeed returns controllable fixed data for development and testing.
type MockPriceFeed struct {
	Base   float64
	End    time.Time // last trading day; zero means today
	Prices []model.PriceObservation
	Err    error
}

func (m *MockPriceFeed) Name() string { return "mock-price" }

func (m *MockPriceFeed) FetchPrices(ctx context.Context, profile model.FundProfile, days int) ([]model.PriceObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Prices != nil {
		if len(m.Prices) > days {
			return m.Prices[len(m.Prices)-days:], nil
		}
		return m.Prices, nil
	}
	dates := tradingDays(endOf(m.End), days)
	out := make([]model.PriceObservation, len(dates))
	for i, d := range dates {
		out[i] = model.PriceObservation{Date: d, Close: mockClose(m.Base, i)}
	}
	return out, nil
}

// MockReferenceFeed publishes a NAV one trading day behind the mock price,
// shifted by Premium percent.
type MockReferenceFeed struct {
	Base    float64
	Premium float64
	End     time.Time
	Days    int
	Refs    []model.ReferenceObservation
	Err     error
}

func (m *MockReferenceFeed) Name() string { return "mock-nav" }

func (m *MockReferenceFeed) FetchReferences(ctx context.Context, _ model.FundProfile) ([]model.ReferenceObservation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Refs != nil {
		return m.Refs, nil
	}
	days := m.Days
	if days <= 0 {
		days = 400
	}
	dates := tradingDays(endOf(m.End), days)
	out := make([]model.ReferenceObservation, len(dates))
	for i, d := range dates {
		out[i] = model.ReferenceObservation{Date: d, Value: mockClose(m.Base, i) / (1 + m.Premium/100)}
	}
	return out, nil
}

func mockClose(base float64, i int) float64 {
	if base <= 0 {
		base = 1.5
	}
	return base * (1 + 0.02*math.Sin(float64(i)/7) + 0.0005*float64(i%5))
}

func endOf(t time.Time) time.Time {
	if t.IsZero() {
		t = time.Now()
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// tradingDays returns n weekdays ending at end, ascending.
func tradingDays(end time.Time, n int) []time.Time {
	if n <= 0 {
		return nil
	}
	out := make([]time.Time, n)
	d := end
	for i := n - 1; i >= 0; {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			out[i] = d
			i--
		}
		d = d.AddDate(0, 0, -1)
	}
	return out
}

package model

import "time"

// DateLayout is the calendar-date format used by both upstream feeds and CSV input.
const DateLayout = "2006-01-02"

// Source tags recorded on enriched points.
const (
	SourceEastMoney = "EastMoney (Real)"
	SourceCSV       = "User CSV"
)

// CalculationMethod tags how the reference value was obtained.
type CalculationMethod string

const (
	MethodRealtimeIOPV CalculationMethod = "REALTIME_IOPV" // intraday estimate
	MethodPreciseNAV   CalculationMethod = "PRECISE_NAV"   // official T-1 NAV
)

// Valid reports whether m is a known method.
func (m CalculationMethod) Valid() bool {
	return m == MethodRealtimeIOPV || m == MethodPreciseNAV
}

// PriceObservation is one exchange close.
type PriceObservation struct {
	Date  time.Time
	Close float64
}

// ReferenceObservation is one published reference value (NAV or IOPV).
type ReferenceObservation struct {
	Date  time.Time
	Value float64
}

// EnrichedPoint is a trading day joined with its reference value and indicators.
// Points are built once per fetch and never mutated afterwards.
type EnrichedPoint struct {
	Date           time.Time `json:"date"`
	ClosePrice     float64   `json:"close_price"`
	RefDate        time.Time `json:"ref_date"`
	ReferenceValue float64   `json:"reference_value"`
	PremiumRate    float64   `json:"premium_rate"`
	RSI            float64   `json:"rsi"`
	Volatility     float64   `json:"volatility"`
	LagDays        int       `json:"lag_days"`
	Source         string    `json:"source"`
	IsReal         bool      `json:"is_real"`
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Premiums extracts the premium rates in series order.
func Premiums(points []EnrichedPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.PremiumRate
	}
	return out
}

// Latest returns the last point of a series.
func Latest(points []EnrichedPoint) (EnrichedPoint, bool) {
	if len(points) == 0 {
		return EnrichedPoint{}, false
	}
	return points[len(points)-1], true
}

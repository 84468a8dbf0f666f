package calculator

import (
	"math"
	"sort"
	"time"

	"PremiumSentinel/internal/model"
)

// Lag thresholds in calendar days. These drive user-facing warnings and must not drift.
const (
	LaggingLagDays   = 2 // lag in (2,4] is "probably lagging"
	StaleLagDays     = 4 // lag > 4 is stale
	FreshnessLagDays = 3 // dashboard banner when lag > 3
)

// AlignedPair is a price observation joined with the latest reference observation strictly before it.
// Index is the position of the price in the sanitized price series.
type AlignedPair struct {
	Index   int
	Price   model.PriceObservation
	Ref     model.ReferenceObservation
	LagDays int
}

// Align joins each price with the reference observation carrying the greatest date strictly
// less than the price date. Prices with no earlier reference are omitted.
// Prices are expected in ascending order; references are sanitized and sorted here.
func Align(prices []model.PriceObservation, refs []model.ReferenceObservation) []AlignedPair {
	refs = SanitizeReferences(refs)
	pairs := make([]AlignedPair, 0, len(prices))
	for i, p := range prices {
		day := toDay(p.Date)
		// first reference on or after the price date; the one before it is the match
		k := sort.Search(len(refs), func(j int) bool { return !refs[j].Date.Before(day) })
		if k == 0 {
			continue
		}
		ref := refs[k-1]
		pairs = append(pairs, AlignedPair{
			Index:   i,
			Price:   p,
			Ref:     ref,
			LagDays: LagDays(day, ref.Date),
		})
	}
	return pairs
}

// LagDays returns whole calendar days between the trade date and the reference date.
func LagDays(date, refDate time.Time) int {
	return int(math.Floor(toDay(date).Sub(toDay(refDate)).Hours() / 24))
}

// ClassifyLag maps a lag to its warning level.
func ClassifyLag(lag int) model.LagStatus {
	switch {
	case lag > StaleLagDays:
		return model.LagStale
	case lag > LaggingLagDays:
		return model.LagLagging
	default:
		return model.LagNormal
	}
}

// IsDataStale reports whether the dashboard freshness banner applies.
func IsDataStale(lag int) bool {
	return lag > FreshnessLagDays
}

// SanitizePrices drops observations without a date or with a non-positive close,
// normalizes dates to UTC midnight and sorts ascending.
func SanitizePrices(prices []model.PriceObservation) []model.PriceObservation {
	out := make([]model.PriceObservation, 0, len(prices))
	for _, p := range prices {
		if p.Date.IsZero() || !finitePositive(p.Close) {
			continue
		}
		out = append(out, model.PriceObservation{Date: toDay(p.Date), Close: p.Close})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// SanitizeReferences is SanitizePrices for reference observations.
func SanitizeReferences(refs []model.ReferenceObservation) []model.ReferenceObservation {
	out := make([]model.ReferenceObservation, 0, len(refs))
	for _, r := range refs {
		if r.Date.IsZero() || !finitePositive(r.Value) {
			continue
		}
		out = append(out, model.ReferenceObservation{Date: toDay(r.Date), Value: r.Value})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// toDay keeps the calendar date as seen in t's own location.
func toDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

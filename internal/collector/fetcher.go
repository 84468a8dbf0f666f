package collector

import (
	"context"

	"PremiumSentinel/internal/model"
)

// PriceFeed returns up to days daily closes for a fund, ascending by date.
type PriceFeed interface {
	FetchPrices(ctx context.Context, profile model.FundProfile, days int) ([]model.PriceObservation, error)
	Name() string
}

// ReferenceFeed returns the published reference values (NAV) for a fund, ascending by date.
type ReferenceFeed interface {
	FetchReferences(ctx context.Context, profile model.FundProfile) ([]model.ReferenceObservation, error)
	Name() string
}

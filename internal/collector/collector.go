package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"PremiumSentinel/internal/calculator"
	"PremiumSentinel/internal/metrics"
	"PremiumSentinel/internal/model"
)

// DefaultMaxConcurrency bounds simultaneous per-fund fetches in a portfolio pass.
const DefaultMaxConcurrency = 4

// Collector fetches both feeds for a fund and combines them into an enriched series.
type Collector struct {
	Prices         PriceFeed
	References     ReferenceFeed
	Metrics        *metrics.Recorder
	MaxConcurrency int
}

// NewCollector creates a new Collector.
func NewCollector(prices PriceFeed, refs ReferenceFeed, m *metrics.Recorder, maxConcurrency int) *Collector {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	return &Collector{Prices: prices, References: refs, Metrics: m, MaxConcurrency: maxConcurrency}
}

// FetchFund fetches a price window of days and the NAV history concurrently.
// Any feed failure degrades the fund to an empty series; it is never returned as an error.
func (c *Collector) FetchFund(ctx context.Context, profile model.FundProfile, days int) model.FundSeries {
	start := time.Now()
	defer func() { c.Metrics.RecordFetchDuration(profile.Ticker, time.Since(start).Seconds()) }()

	var (
		prices []model.PriceObservation
		refs   []model.ReferenceObservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		prices, err = c.Prices.FetchPrices(gctx, profile, days)
		c.Metrics.RecordFetch("price", err)
		return err
	})
	g.Go(func() error {
		var err error
		refs, err = c.References.FetchReferences(gctx, profile)
		c.Metrics.RecordFetch("nav", err)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Str("ticker", profile.Ticker).Msg("fund fetch failed, using empty series")
		return model.FundSeries{Profile: profile, Degraded: true}
	}

	points := calculator.Combine(prices, refs)
	log.Debug().
		Str("ticker", profile.Ticker).
		Int("prices", len(prices)).
		Int("refs", len(refs)).
		Int("points", len(points)).
		Msg("fund series combined")

	if len(points) == 0 {
		log.Warn().Str("ticker", profile.Ticker).Msg("no aligned points for fund")
	}
	return model.FundSeries{Profile: profile, Points: points, Degraded: len(points) == 0}
}

// FetchPortfolio fetches every fund with bounded parallelism. The result keeps input order
// and the batch never aborts on a single fund's failure.
func (c *Collector) FetchPortfolio(ctx context.Context, profiles []model.FundProfile, days int) []model.FundSeries {
	out := make([]model.FundSeries, len(profiles))

	var g errgroup.Group
	g.SetLimit(c.MaxConcurrency)
	for i, p := range profiles {
		g.Go(func() error {
			out[i] = c.FetchFund(ctx, p, days)
			return nil
		})
	}
	_ = g.Wait()

	degraded := 0
	for _, s := range out {
		if s.Degraded {
			degraded++
		}
	}
	c.Metrics.SetDegraded(degraded)
	log.Info().Int("funds", len(out)).Int("degraded", degraded).Int("days", days).Msg("portfolio fetched")
	return out
}

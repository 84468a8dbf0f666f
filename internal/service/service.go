package service

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"PremiumSentinel/internal/advisor"
	"PremiumSentinel/internal/calculator"
	"PremiumSentinel/internal/collector"
	"PremiumSentinel/internal/fund"
	"PremiumSentinel/internal/metrics"
	"PremiumSentinel/internal/model"
	"PremiumSentinel/internal/recorder"
	"PremiumSentinel/internal/strategy"
)

// Analyzer produces advisory text for a fund's recent points.
type Analyzer interface {
	Analyze(ctx context.Context, ticker string, points []model.EnrichedPoint, method model.CalculationMethod) (string, error)
}

// Options holds the fetch windows and calculation method.
type Options struct {
	OverviewDays int
	DetailDays   int
	Method       model.CalculationMethod
}

// Service runs the fetch, analytics and persistence pipeline for every delivery surface.
type Service struct {
	Catalog   *fund.Catalog
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Analyzer  Analyzer
	Metrics   *metrics.Recorder
	Options   Options
}

// New creates a Service. A nil recorder falls back to the noop recorder.
func New(catalog *fund.Catalog, col *collector.Collector, rec recorder.Recorder, an Analyzer, m *metrics.Recorder, opts Options) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if opts.OverviewDays <= 0 {
		opts.OverviewDays = 180
	}
	if opts.DetailDays <= 0 {
		opts.DetailDays = 365
	}
	if !opts.Method.Valid() {
		opts.Method = model.MethodPreciseNAV
	}
	return &Service{Catalog: catalog, Collector: col, Recorder: rec, Analyzer: an, Metrics: m, Options: opts}
}

// Ranking fetches every catalog fund over the overview window and ranks them.
func (s *Service) Ranking(ctx context.Context, key strategy.SortKey, dir strategy.SortDir) model.Ranking {
	series := s.Collector.FetchPortfolio(ctx, s.Catalog.All(), s.Options.OverviewDays)
	ranking := strategy.Rank(series, key, dir)

	for _, row := range ranking.Rows {
		if !row.Degraded {
			s.Metrics.RecordSignal(row.Ticker, row.Premium, row.Score)
		}
	}
	if err := s.Recorder.RecordRanking(ctx, ranking); err != nil {
		log.Warn().Err(err).Msg("record ranking")
	}
	return ranking
}

// Detail fetches one fund over the detail window and evaluates the last days points.
func (s *Service) Detail(ctx context.Context, ticker string, days int) (model.FundDetail, error) {
	profile, err := s.Catalog.Lookup(ticker)
	if err != nil {
		return model.FundDetail{}, err
	}
	series := s.Collector.FetchFund(ctx, profile, s.Options.DetailDays)
	if !series.Degraded {
		if err := s.Recorder.RecordSeries(ctx, profile.Ticker, series.Points); err != nil {
			log.Warn().Err(err).Str("ticker", profile.Ticker).Msg("record series")
		}
	}
	detail := BuildDetail(profile, series.Points, days)
	detail.Degraded = series.Degraded
	return detail, nil
}

// StoredDetail is Detail over the last recorded series, without fetching.
func (s *Service) StoredDetail(ctx context.Context, ticker string, days int) (model.FundDetail, error) {
	profile, err := s.Catalog.Lookup(ticker)
	if err != nil {
		return model.FundDetail{}, err
	}
	points, err := s.Recorder.LoadSeries(ctx, profile.Ticker)
	if err != nil {
		return model.FundDetail{}, fmt.Errorf("load series %s: %w", profile.Ticker, err)
	}
	return BuildDetail(profile, points, days), nil
}

// Import evaluates a user-supplied CSV series.
func (s *Service) Import(r io.Reader, days int) (model.FundDetail, error) {
	points, err := calculator.ParseCSV(r)
	if err != nil {
		return model.FundDetail{}, err
	}
	log.Debug().Int("points", len(points)).Msg("csv imported")
	profile := model.FundProfile{Ticker: "CSV", Name: model.SourceCSV}
	return BuildDetail(profile, points, days), nil
}

// Analyze requests advisory text for a fund's latest detail series.
func (s *Service) Analyze(ctx context.Context, ticker string) (string, error) {
	profile, err := s.Catalog.Lookup(ticker)
	if err != nil {
		return "", err
	}
	if s.Analyzer == nil {
		return "", advisor.ErrAnalysisFailed
	}
	series := s.Collector.FetchFund(ctx, profile, s.Options.DetailDays)
	if len(series.Points) == 0 {
		return "", advisor.ErrNoData
	}
	return s.Analyzer.Analyze(ctx, profile.Ticker, series.Points, s.Options.Method)
}

// BuildDetail windows points to the last days entries and attaches the dashboard.
// Unsupported window sizes fall back to strategy.DefaultTimeRange.
func BuildDetail(profile model.FundProfile, points []model.EnrichedPoint, days int) model.FundDetail {
	if !strategy.ValidTimeRange(days) {
		days = strategy.DefaultTimeRange
	}
	view := strategy.Window(points, days)
	detail := model.FundDetail{Profile: profile, WindowDays: days, Points: view}
	if d, ok := strategy.BuildDashboard(view, days); ok {
		detail.Dashboard = &d
	}
	return detail
}

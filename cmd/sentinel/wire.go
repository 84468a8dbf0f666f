package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"PremiumSentinel/internal/advisor"
	"PremiumSentinel/internal/cache"
	"PremiumSentinel/internal/collector"
	"PremiumSentinel/internal/config"
	"PremiumSentinel/internal/credential"
	"PremiumSentinel/internal/fund"
	"PremiumSentinel/internal/metrics"
	"PremiumSentinel/internal/recorder"
	"PremiumSentinel/internal/service"
)

// app holds the wired components shared by all commands.
type app struct {
	cache    cache.Cache
	recorder recorder.Recorder
	creds    *credential.Store
	metrics  *metrics.Recorder
	service  *service.Service
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
	if err := a.cache.Close(); err != nil {
		log.Warn().Err(err).Msg("close cache")
	}
}

// buildApp wires the pipeline from cfg. Metrics register on reg; nil disables them.
func buildApp(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*app, error) {
	var m *metrics.Recorder
	if reg != nil {
		m = metrics.New(reg)
	}

	c, err := cache.New(ctx, cache.Options{
		Backend:       cfg.Cache.Backend,
		RedisAddr:     cfg.Cache.RedisAddr,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Str("backend", cfg.Cache.Backend).Msg("init cache failed, falling back to memory")
		c = cache.NewTTLCache()
	}

	prices, refs := buildFeeds(cfg, c)
	log.Info().Str("prices", prices.Name()).Str("references", refs.Name()).Msg("data source")
	col := collector.NewCollector(prices, refs, m, cfg.DataSource.MaxConcurrency)

	profiles := cfg.Funds.Profiles
	if len(profiles) == 0 && cfg.Funds.File != "" {
		profiles, err = fund.LoadProfiles(cfg.Funds.File)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("load fund list: %w", err)
		}
	}
	catalog, err := fund.NewCatalog(profiles)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init fund catalog: %w", err)
	}

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	creds := credential.NewStore(cfg.Advisor.CredentialFile, credential.Key, "API_KEY")
	adv := advisor.New(creds,
		advisor.WithModel(cfg.Advisor.Model),
		advisor.WithTimeout(cfg.Advisor.Timeout),
		advisor.WithMetrics(m),
	)

	svc := service.New(catalog, col, rec, adv, m, service.Options{
		OverviewDays: cfg.DataSource.OverviewDays,
		DetailDays:   cfg.DataSource.DetailDays,
		Method:       cfg.Method,
	})
	return &app{cache: c, recorder: rec, creds: creds, metrics: m, service: svc}, nil
}

func buildFeeds(cfg *config.Config, c cache.Cache) (collector.PriceFeed, collector.ReferenceFeed) {
	if cfg.DataSource.Provider == config.ProviderMock {
		return &collector.MockPriceFeed{Base: 1.5}, &collector.MockReferenceFeed{Base: 1.5, Premium: 1}
	}
	opts := collector.HTTPOptions{
		Proxy:     cfg.DataSource.Proxy,
		Timeout:   cfg.DataSource.Timeout,
		RateLimit: cfg.DataSource.RateLimit,
		Cache:     c,
		CacheTTL:  cfg.Cache.TTL,
	}
	priceOpts, navOpts := opts, opts
	priceOpts.BaseURL = cfg.DataSource.PriceBaseURL
	navOpts.BaseURL = cfg.DataSource.NavBaseURL
	return collector.NewEastMoneyPriceFeed(priceOpts), collector.NewEastMoneyNavFeed(navOpts)
}

package main

import (
	"fmt"

	"ReturnLens/internal/collector"
	"ReturnLens/internal/config"
	"ReturnLens/internal/plan"
	"ReturnLens/internal/store"
	"ReturnLens/internal/strategy"

	"github.com/rs/zerolog"
)

// app holds the components shared by every command.
type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	store    store.Store
	analyzer *strategy.Analyzer
	plan     *plan.Plan
}

func newApp(logger zerolog.Logger) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	p, err := plan.New(cfg.Investment.Amount, cfg.Investment.HorizonMonths, cfg.Investment.FrequencyMonths)
	if err != nil {
		return nil, fmt.Errorf("investment plan: %w", err)
	}

	var fetcher collector.Fetcher
	switch {
	case offline:
		fetcher = &collector.MockFetcher{Price: 100}
	case cfg.DataSource.BaseURL != "":
		fetcher = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.DataSource.Proxy)
	default:
		fetcher = collector.NewYahooFetcher(cfg.DataSource.Proxy)
	}
	logger.Info().Str("source", fetcher.Name()).Msg("data source selected")

	var st store.Store = store.NewNoopStore()
	if cfg.Database.SQLitePath != "" && !offline {
		sqlite, err := store.NewSQLiteStore(cfg.Database.SQLitePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("init sqlite store failed, using noop")
		} else {
			st = sqlite
		}
	}

	col := collector.NewCollector(fetcher, st, logger)
	return &app{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		analyzer: strategy.NewAnalyzer(col, strategy.NewEngine()),
		plan:     p,
	}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("close store")
	}
}

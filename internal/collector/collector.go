package collector

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"ReturnLens/internal/model"
	"ReturnLens/internal/store"

	"github.com/rs/zerolog"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	Start     time.Time
	Days      int
	DailyData []model.OHLCV
	Err       error
	Calls     atomic.Int64
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchHistory(_ context.Context, _ string) ([]model.OHLCV, error) {
	m.Calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return m.DailyData, nil
	}
	start := m.Start
	if start.IsZero() {
		start = time.Now().UTC().AddDate(-5, 0, 0)
	}
	days := m.Days
	if days == 0 {
		days = 5 * 365
	}
	return generateMockBars(m.Price, start, days), nil
}

// generateMockBars produces weekday bars with a gentle trend and a yearly cycle.
func generateMockBars(basePrice float64, start time.Time, days int) []model.OHLCV {
	bars := make([]model.OHLCV, 0, days)
	start = model.Day(start)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := basePrice * (1 + float64(i)*0.0003 + 0.1*math.Sin(float64(i)/58))
		bars = append(bars, model.OHLCV{
			Time:   d,
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		})
	}
	return bars
}

// Collector loads price series, serving from the cache store when it holds
// history fetched on the current UTC day.
type Collector struct {
	Fetcher Fetcher
	Store   store.Store
	logger  zerolog.Logger
	now     func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, st store.Store, logger zerolog.Logger) *Collector {
	if st == nil {
		st = store.NewNoopStore()
	}
	return &Collector{Fetcher: fetcher, Store: st, logger: logger, now: time.Now}
}

// Load returns the daily close series of symbol. A stale cache is used when
// the provider fails; cache errors never fail the load.
func (c *Collector) Load(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	log := c.logger.With().Str("symbol", symbol).Str("source", c.Fetcher.Name()).Logger()

	cached, fetchedAt, err := c.Store.LoadBars(ctx, symbol)
	switch {
	case err == nil && len(cached) > 0 && sameDay(fetchedAt, c.now()):
		log.Debug().Int("bars", len(cached)).Msg("price history served from cache")
		return model.NewPriceSeries(symbol, cached), nil
	case err != nil && !errors.Is(err, store.ErrNotCached):
		log.Warn().Err(err).Msg("price cache read failed")
	}

	bars, err := c.Fetcher.FetchHistory(ctx, symbol)
	if err != nil {
		if len(cached) > 0 {
			log.Warn().Err(err).Time("fetched_at", fetchedAt).Msg("fetch failed, using stale cache")
			return model.NewPriceSeries(symbol, cached), nil
		}
		return nil, fmt.Errorf("fetch %s history: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("fetch %s history: %w", symbol, ErrNoData)
	}

	if err := c.Store.SaveBars(ctx, symbol, bars); err != nil {
		log.Warn().Err(err).Msg("price cache write failed")
	}
	log.Info().Int("bars", len(bars)).Msg("price history fetched")
	return model.NewPriceSeries(symbol, bars), nil
}

func sameDay(a, b time.Time) bool {
	return model.Day(a.UTC()).Equal(model.Day(b.UTC()))
}

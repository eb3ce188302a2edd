package model

import (
	"sort"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is an immutable date-indexed sequence of closing prices.
// Dates are ascending and unique.
type PriceSeries struct {
	Symbol string
	dates  []time.Time
	closes []float64
}

// NewPriceSeries builds a series from bars in any order. Bars are normalized to
// their calendar day; when two bars share a day the later one in the input wins.
func NewPriceSeries(symbol string, bars []OHLCV) *PriceSeries {
	byDay := make(map[time.Time]float64, len(bars))
	for _, b := range bars {
		byDay[Day(b.Time)] = b.Close
	}
	dates := make([]time.Time, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	closes := make([]float64, len(dates))
	for i, d := range dates {
		closes[i] = byDay[d]
	}
	return &PriceSeries{Symbol: symbol, dates: dates, closes: closes}
}

// Day returns midnight UTC of t's calendar day in t's own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Len returns the number of trading dates.
func (s *PriceSeries) Len() int { return len(s.dates) }

// Dates returns the trading dates. Callers must not modify the slice.
func (s *PriceSeries) Dates() []time.Time { return s.dates }

// Closes returns the closing prices aligned with Dates. Callers must not modify the slice.
func (s *PriceSeries) Closes() []float64 { return s.closes }

// At returns the trading date and close at index i.
func (s *PriceSeries) At(i int) (time.Time, float64) { return s.dates[i], s.closes[i] }

// First returns the earliest trading date, or the zero time for an empty series.
func (s *PriceSeries) First() time.Time {
	if len(s.dates) == 0 {
		return time.Time{}
	}
	return s.dates[0]
}

// Last returns the latest trading date, or the zero time for an empty series.
func (s *PriceSeries) Last() time.Time {
	if len(s.dates) == 0 {
		return time.Time{}
	}
	return s.dates[len(s.dates)-1]
}

// Since returns the sub-series starting at the first trading date >= from.
// The returned series shares storage with s.
func (s *PriceSeries) Since(from time.Time) *PriceSeries {
	i := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(from) })
	return &PriceSeries{Symbol: s.Symbol, dates: s.dates[i:], closes: s.closes[i:]}
}

// Between returns the trading dates d with from <= d <= to.
func (s *PriceSeries) Between(from, to time.Time) []time.Time {
	lo := sort.Search(len(s.dates), func(i int) bool { return !s.dates[i].Before(from) })
	hi := sort.Search(len(s.dates), func(i int) bool { return s.dates[i].After(to) })
	if lo >= hi {
		return []time.Time{}
	}
	out := make([]time.Time, hi-lo)
	copy(out, s.dates[lo:hi])
	return out
}

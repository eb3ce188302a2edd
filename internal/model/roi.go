package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StrategyKind names an investment approach.
type StrategyKind string

const (
	StrategyLumpSum           StrategyKind = "LUMP_SUM"
	StrategyDollarAverageCost StrategyKind = "DOLLAR_AVERAGE_COST"
)

// ROI is the annualized return for one requested purchase date.
// Date is the requested date, not the trading date it resolved to.
// When Err is set, Value is meaningless.
type ROI struct {
	Date  time.Time
	Value float64
	Err   error
}

// OK reports whether the value was computed.
func (r ROI) OK() bool { return r.Err == nil }

// Projection is the expected money outcome of investing Amount at a mean ROI.
type Projection struct {
	Amount decimal.Decimal
	Final  decimal.Decimal
	Delta  decimal.Decimal
}

// Summary holds distribution statistics of one ROI series.
type Summary struct {
	Strategy      StrategyKind
	Count         int // computed values
	Failed        int // dates tagged with an error
	Mean          float64
	Median        float64
	Min           float64
	Max           float64
	Q1            float64
	Q3            float64
	StdDev        float64
	PositiveShare float64 // fraction of computed values > 0
	Projection    Projection
}

// Comparison is the full result of running both strategies over one window.
type Comparison struct {
	Symbol           string
	Start            time.Time
	End              time.Time
	HorizonMonths    int
	FrequencyMonths  int
	Installments     int
	LumpSum          []ROI
	DAC              []ROI
	LumpSumSummary   Summary
	DACSummary       Summary
	LumpSumWinShare  float64 // fraction of dates where lump sum beat DAC
	Volatility       float64 // latest rolling annualized volatility, 0 when unavailable
	VolatilitySeries []VolatilityPoint
	GeneratedAt      time.Time
}

// VolatilityPoint is the rolling annualized volatility on one trading date.
type VolatilityPoint struct {
	Date  time.Time
	Value float64
}

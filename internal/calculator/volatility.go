package calculator

import (
	"errors"
	"math"

	"ReturnLens/internal/model"
)

// TradingDaysPerYear annualizes daily volatility.
const TradingDaysPerYear = 252

// DefaultVolatilityWindow is the rolling window, in trading days.
const DefaultVolatilityWindow = 30

// CalculateSMA computes the simple moving average of the last period values.
func CalculateSMA(values []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(values) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// RollingVolatility returns the annualized rolling standard deviation of daily
// percentage changes, aligned with closes. Entries without a full window of
// changes behind them are NaN.
func RollingVolatility(closes []float64, window int) ([]float64, error) {
	if window < 2 {
		return nil, errors.New("volatility window must be at least 2")
	}
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if len(closes) <= window {
		return out, nil
	}

	changes := pctChange(closes)
	for i := window; i < len(closes); i++ {
		// changes[j] is the change into closes[j+1]
		w := changes[i-window : i]
		mean, _ := CalculateSMA(w, window)
		var ss float64
		for _, c := range w {
			ss += (c - mean) * (c - mean)
		}
		out[i] = math.Sqrt(ss/float64(window-1)) * math.Sqrt(TradingDaysPerYear)
	}
	return out, nil
}

// VolatilitySeries pairs the rolling volatility of the series with its trading
// dates, starting at the first date with a full window.
func VolatilitySeries(prices *model.PriceSeries, window int) ([]model.VolatilityPoint, error) {
	vol, err := RollingVolatility(prices.Closes(), window)
	if err != nil {
		return nil, err
	}
	dates := prices.Dates()
	out := make([]model.VolatilityPoint, 0, len(vol))
	for i, v := range vol {
		if math.IsNaN(v) {
			continue
		}
		out = append(out, model.VolatilityPoint{Date: dates[i], Value: v})
	}
	return out, nil
}

func pctChange(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	changes := make([]float64, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		changes[i-1] = closes[i]/closes[i-1] - 1
	}
	return changes
}

package calculator

import (
	"errors"
	"fmt"
	"math"
	"time"

	"ReturnLens/internal/model"
)

// Configuration errors abort the whole batch before any computation.
var (
	ErrInvalidHorizon          = errors.New("horizon must be a positive number of months")
	ErrInvalidFrequency        = errors.New("frequency must be a positive number of months")
	ErrFrequencyExceedsHorizon = errors.New("frequency exceeds horizon, no installment fits")
)

// Data errors are attached to the single purchase date they affect.
var (
	ErrInsufficientHistory = errors.New("insufficient forward price history")
	ErrInvalidPrice        = errors.New("non-positive price")
)

const dateLayout = "2006-01-02"

// InstallmentCount validates a horizon/frequency pair and returns the number of
// DAC installments. A horizon that is not a multiple of the frequency is
// truncated: the trailing partial period is simply not invested.
func InstallmentCount(horizonMonths, frequencyMonths int) (int, error) {
	if horizonMonths <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonMonths)
	}
	if frequencyMonths <= 0 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidFrequency, frequencyMonths)
	}
	if frequencyMonths > horizonMonths {
		return 0, fmt.Errorf("%w: frequency %d, horizon %d", ErrFrequencyExceedsHorizon, frequencyMonths, horizonMonths)
	}
	return horizonMonths / frequencyMonths, nil
}

// LumpSumROI returns, for every purchase date, the annualized ROI of investing
// everything on that date and valuing the position horizonMonths later.
// Results keep the order of purchaseDates. Dates whose purchase or target date
// cannot be resolved carry an error wrapping ErrInsufficientHistory.
func LumpSumROI(prices *model.PriceSeries, purchaseDates []time.Time, horizonMonths int) ([]model.ROI, error) {
	if horizonMonths <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonMonths)
	}
	if prices == nil || prices.Len() == 0 || len(purchaseDates) == 0 {
		return []model.ROI{}, nil
	}

	out := make([]model.ROI, len(purchaseDates))
	for i, d := range purchaseDates {
		out[i] = model.ROI{Date: d}

		start := model.Day(d)
		buy, err := priceOnOrAfter(prices, start)
		if err != nil {
			out[i].Err = err
			continue
		}
		sell, err := priceOnOrAfter(prices, AddMonths(start, horizonMonths))
		if err != nil {
			out[i].Err = err
			continue
		}
		out[i].Value = annualize(sell/buy, horizonMonths)
	}
	return out, nil
}

// DollarAverageCostROI returns, for every purchase date, the annualized ROI of
// investing equal amounts every frequencyMonths, horizonMonths/frequencyMonths
// times, and valuing all units horizonMonths after the purchase date.
//
// The growth factor is terminal * mean(1/price_k), computed as
// mean(terminal/price_k) so that a single installment yields exactly the
// lump-sum ratio.
func DollarAverageCostROI(prices *model.PriceSeries, purchaseDates []time.Time, horizonMonths, frequencyMonths int) ([]model.ROI, error) {
	n, err := InstallmentCount(horizonMonths, frequencyMonths)
	if err != nil {
		return nil, err
	}
	if prices == nil || prices.Len() == 0 || len(purchaseDates) == 0 {
		return []model.ROI{}, nil
	}

	out := make([]model.ROI, len(purchaseDates))
	for i, d := range purchaseDates {
		out[i] = model.ROI{Date: d}

		start := model.Day(d)
		terminal, err := priceOnOrAfter(prices, AddMonths(start, horizonMonths))
		if err != nil {
			out[i].Err = err
			continue
		}

		var sum float64
		for k := 0; k < n; k++ {
			p, perr := priceOnOrAfter(prices, AddMonths(start, k*frequencyMonths))
			if perr != nil {
				err = perr
				break
			}
			sum += terminal / p
		}
		if err != nil {
			out[i].Err = err
			continue
		}
		out[i].Value = annualize(sum/float64(n), horizonMonths)
	}
	return out, nil
}

// priceOnOrAfter forward-resolves target and returns the close there.
func priceOnOrAfter(prices *model.PriceSeries, target time.Time) (float64, error) {
	i, ok := ResolveForward(prices.Dates(), target)
	if !ok {
		return 0, fmt.Errorf("%w: no trading date on or after %s (series ends %s)",
			ErrInsufficientHistory, target.Format(dateLayout), prices.Last().Format(dateLayout))
	}
	on, p := prices.At(i)
	if p <= 0 {
		return 0, fmt.Errorf("%w: %g on %s", ErrInvalidPrice, p, on.Format(dateLayout))
	}
	return p, nil
}

func annualize(growth float64, horizonMonths int) float64 {
	return math.Pow(growth, float64(MonthsPerYear)/float64(horizonMonths)) - 1
}

package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ReturnLens/internal/calculator"
	"ReturnLens/internal/model"
	"ReturnLens/internal/plan"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidWindow        = errors.New("start date must be before end date")
	ErrHorizonExceedsWindow = errors.New("investment horizon exceeds the selected period")
)

// Window bounds the purchase dates of an analysis. A zero bound defaults to
// the corresponding end of the price series.
type Window struct {
	Start time.Time
	End   time.Time
}

// Validate rejects inverted windows and horizons longer than the window's
// whole-month span.
func (w Window) Validate(horizonMonths int) error {
	if !w.Start.Before(w.End) {
		return fmt.Errorf("%w: %s >= %s", ErrInvalidWindow, w.Start.Format(time.DateOnly), w.End.Format(time.DateOnly))
	}
	if span := calculator.MonthsBetween(w.Start, w.End); horizonMonths > span {
		return fmt.Errorf("%w: horizon %d months, period %d months", ErrHorizonExceedsWindow, horizonMonths, span)
	}
	return nil
}

func (w Window) within(series *model.PriceSeries) Window {
	if w.Start.IsZero() {
		w.Start = series.First()
	}
	if w.End.IsZero() {
		w.End = series.Last()
	}
	w.Start, w.End = model.Day(w.Start), model.Day(w.End)
	return w
}

// Engine runs both strategies over a price series.
type Engine struct {
	VolatilityWindow int
	now              func() time.Time
}

// NewEngine creates an Engine with the default volatility window.
func NewEngine() *Engine {
	return &Engine{VolatilityWindow: calculator.DefaultVolatilityWindow, now: time.Now}
}

// Compare computes the lump-sum and DAC ROI series for every trading date in
// [Start, End - horizon], valued against prices from Start onward, and
// summarizes both.
func (e *Engine) Compare(ctx context.Context, series *model.PriceSeries, w Window, p *plan.Plan) (*model.Comparison, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	w = w.within(series)
	if err := w.Validate(p.HorizonMonths); err != nil {
		return nil, err
	}

	lookup := series.Since(w.Start)
	purchaseDates := series.Between(w.Start, calculator.AddMonths(w.End, -p.HorizonMonths))

	var ls, dac []model.ROI
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ls, err = calculator.LumpSumROI(lookup, purchaseDates, p.HorizonMonths)
		return err
	})
	g.Go(func() error {
		var err error
		dac, err = calculator.DollarAverageCostROI(lookup, purchaseDates, p.HorizonMonths, p.FrequencyMonths)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	cmp := &model.Comparison{
		Symbol:          series.Symbol,
		Start:           w.Start,
		End:             w.End,
		HorizonMonths:   p.HorizonMonths,
		FrequencyMonths: p.FrequencyMonths,
		Installments:    p.Installments(),
		LumpSum:         ls,
		DAC:             dac,
		LumpSumSummary:  calculator.Describe(model.StrategyLumpSum, ls),
		DACSummary:      calculator.Describe(model.StrategyDollarAverageCost, dac),
		LumpSumWinShare: calculator.WinShare(ls, dac),
		GeneratedAt:     e.now().UTC(),
	}
	cmp.LumpSumSummary.Projection = p.Project(cmp.LumpSumSummary.Mean)
	cmp.DACSummary.Projection = p.Project(cmp.DACSummary.Mean)

	log := zerolog.Ctx(ctx)
	if vol, err := calculator.VolatilitySeries(lookup, e.VolatilityWindow); err != nil {
		log.Debug().Err(err).Str("symbol", series.Symbol).Msg("volatility unavailable")
	} else if len(vol) > 0 {
		cmp.VolatilitySeries = vol
		cmp.Volatility = vol[len(vol)-1].Value
	}
	if failed := cmp.LumpSumSummary.Failed + cmp.DACSummary.Failed; failed > 0 {
		log.Warn().Str("symbol", series.Symbol).Int("failed", failed).Msg("some purchase dates lack forward price history")
	}
	return cmp, nil
}

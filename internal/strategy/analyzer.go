package strategy

import (
	"context"
	"fmt"
	"sync"

	"ReturnLens/internal/model"
	"ReturnLens/internal/plan"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentLoads bounds provider calls during a watchlist run.
const maxConcurrentLoads = 4

// Loader supplies price series by symbol.
type Loader interface {
	Load(ctx context.Context, symbol string) (*model.PriceSeries, error)
}

// Analyzer loads price history and compares strategies for a symbol.
type Analyzer struct {
	loader Loader
	engine *Engine
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(loader Loader, engine *Engine) *Analyzer {
	return &Analyzer{loader: loader, engine: engine}
}

// Analyze compares both strategies for one symbol.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, w Window, p *plan.Plan) (*model.Comparison, error) {
	series, err := a.loader.Load(ctx, symbol)
	if err != nil {
		return nil, err
	}
	return a.engine.Compare(ctx, series, w, p)
}

// AnalyzeAll runs Analyze for every symbol. Results keep the order of
// symbols; a symbol that fails is left nil and its error is reported in errs.
func (a *Analyzer) AnalyzeAll(ctx context.Context, symbols []string, w Window, p *plan.Plan) ([]*model.Comparison, map[string]error) {
	out := make([]*model.Comparison, len(symbols))
	errs := make(map[string]error)
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, sym := range symbols {
		i, sym := i, sym
		g.Go(func() error {
			cmp, err := a.Analyze(gctx, sym, w, p)
			if err != nil {
				mu.Lock()
				errs[sym] = fmt.Errorf("analyze %s: %w", sym, err)
				mu.Unlock()
				return nil
			}
			out[i] = cmp
			return nil
		})
	}
	_ = g.Wait()
	return out, errs
}

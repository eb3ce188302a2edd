package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"ReturnLens/internal/calculator"
	"ReturnLens/internal/collector"
	"ReturnLens/internal/plan"
	"ReturnLens/internal/strategy"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Handler serves the API endpoints.
type Handler struct {
	analyzer  Analyzer
	watchlist []string
	plan      *plan.Plan
	currency  string
}

// NewHandler builds a Handler from the shared dependencies.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		analyzer:  deps.Analyzer,
		watchlist: deps.Watchlist,
		plan:      deps.Plan,
		currency:  deps.Currency,
	}
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// ListSymbols returns the configured watchlist.
func (h *Handler) ListSymbols(w http.ResponseWriter, r *http.Request) {
	symbols := h.watchlist
	if symbols == nil {
		symbols = []string{}
	}
	writeJSON(w, r, http.StatusOK, SymbolsResponse{Symbols: symbols})
}

// Compare runs both strategies for the symbol in the URL. The configured plan
// can be overridden with amount, horizon and frequency; from and to bound the
// analysis window.
func (h *Handler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	q := r.URL.Query()

	p, err := h.planFrom(q.Get("amount"), q.Get("horizon"), q.Get("frequency"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var window strategy.Window
	if window.Start, err = parseDate(q.Get("from")); err != nil {
		http.Error(w, "invalid 'from' date format. Expected format: YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	if window.End, err = parseDate(q.Get("to")); err != nil {
		http.Error(w, "invalid 'to' date format. Expected format: YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	cmp, err := h.analyzer.Analyze(ctx, symbol, window, p)
	if err != nil {
		status := statusFor(err)
		logger.Error().Err(err).Str("symbol", symbol).Int("status", status).Msg("comparison failed")
		http.Error(w, err.Error(), status)
		return
	}

	withSeries := q.Get("series") != "false"
	writeJSON(w, r, http.StatusOK, toComparisonResponse(cmp, h.currency, withSeries))
}

// planFrom overrides the configured plan with request parameters.
func (h *Handler) planFrom(amount, horizon, frequency string) (*plan.Plan, error) {
	p := *h.plan
	if amount != "" {
		a, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("invalid 'amount': %q", amount)
		}
		p.Amount = a
	}
	for _, param := range []struct {
		name  string
		value string
		dst   *int
	}{
		{"horizon", horizon, &p.HorizonMonths},
		{"frequency", frequency, &p.FrequencyMonths},
	} {
		if param.value == "" {
			continue
		}
		n, err := strconv.Atoi(param.value)
		if err != nil {
			return nil, fmt.Errorf("invalid '%s': %q", param.name, param.value)
		}
		*param.dst = n
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseDate(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, v)
}

// statusFor maps batch-level errors to HTTP status codes: bad parameters are
// the caller's fault, missing price data is unprocessable, anything else comes
// from the upstream provider. Per-date errors never reach here; they are
// reported inside the series.
func statusFor(err error) int {
	switch {
	case errors.Is(err, strategy.ErrInvalidWindow),
		errors.Is(err, strategy.ErrHorizonExceedsWindow),
		errors.Is(err, calculator.ErrInvalidHorizon),
		errors.Is(err, calculator.ErrInvalidFrequency),
		errors.Is(err, calculator.ErrFrequencyExceedsHorizon),
		errors.Is(err, plan.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, collector.ErrNoData):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}

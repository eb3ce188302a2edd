package server

import (
	"time"

	"ReturnLens/internal/model"

	"github.com/shopspring/decimal"
)

// ROIPoint is one purchase date of a strategy series. Value is omitted when
// the date could not be evaluated and Error says why.
type ROIPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value,omitempty"`
	Error string   `json:"error,omitempty"`
}

// Projection is the expected outcome of investing the plan amount at the mean ROI.
type Projection struct {
	Amount decimal.Decimal `json:"amount"`
	Final  decimal.Decimal `json:"final"`
	Delta  decimal.Decimal `json:"delta"`
}

// Summary describes the ROI distribution of one strategy.
type Summary struct {
	Strategy      string     `json:"strategy"`
	Count         int        `json:"count"`
	Failed        int        `json:"failed"`
	Mean          float64    `json:"mean"`
	Median        float64    `json:"median"`
	Min           float64    `json:"min"`
	Max           float64    `json:"max"`
	Q1            float64    `json:"q1"`
	Q3            float64    `json:"q3"`
	StdDev        float64    `json:"std_dev"`
	PositiveShare float64    `json:"positive_share"`
	Expected      Projection `json:"expected"`
}

// ComparisonResponse is the body of GET /api/v1/compare/{symbol}. The series
// fields are omitted when the request sets series=false.
type ComparisonResponse struct {
	Symbol           string            `json:"symbol"`
	Start            string            `json:"start"`
	End              string            `json:"end"`
	HorizonMonths    int               `json:"horizon_months"`
	FrequencyMonths  int               `json:"frequency_months"`
	Installments     int               `json:"installments"`
	Currency         string            `json:"currency"`
	LumpSumWinShare  float64           `json:"lump_sum_win_share"`
	Volatility       float64           `json:"volatility"`
	LumpSum          Summary           `json:"lump_sum"`
	DAC              Summary           `json:"dac"`
	LumpSumSeries    []ROIPoint        `json:"lump_sum_series,omitempty"`
	DACSeries        []ROIPoint        `json:"dac_series,omitempty"`
	VolatilitySeries []VolatilityPoint `json:"volatility_series,omitempty"`
	GeneratedAt      time.Time         `json:"generated_at"`
}

// VolatilityPoint is the annualized rolling volatility on one trading date.
type VolatilityPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// SymbolsResponse is the body of GET /api/v1/symbols.
type SymbolsResponse struct {
	Symbols []string `json:"symbols"`
}

func toComparisonResponse(cmp *model.Comparison, currency string, withSeries bool) ComparisonResponse {
	resp := ComparisonResponse{
		Symbol:          cmp.Symbol,
		Start:           cmp.Start.Format(time.DateOnly),
		End:             cmp.End.Format(time.DateOnly),
		HorizonMonths:   cmp.HorizonMonths,
		FrequencyMonths: cmp.FrequencyMonths,
		Installments:    cmp.Installments,
		Currency:        currency,
		LumpSumWinShare: cmp.LumpSumWinShare,
		Volatility:      cmp.Volatility,
		LumpSum:         toSummary(cmp.LumpSumSummary),
		DAC:             toSummary(cmp.DACSummary),
		GeneratedAt:     cmp.GeneratedAt,
	}
	if withSeries {
		resp.LumpSumSeries = toPoints(cmp.LumpSum)
		resp.DACSeries = toPoints(cmp.DAC)
		resp.VolatilitySeries = toVolatilityPoints(cmp.VolatilitySeries)
	}
	return resp
}

func toSummary(s model.Summary) Summary {
	return Summary{
		Strategy:      string(s.Strategy),
		Count:         s.Count,
		Failed:        s.Failed,
		Mean:          s.Mean,
		Median:        s.Median,
		Min:           s.Min,
		Max:           s.Max,
		Q1:            s.Q1,
		Q3:            s.Q3,
		StdDev:        s.StdDev,
		PositiveShare: s.PositiveShare,
		Expected: Projection{
			Amount: s.Projection.Amount,
			Final:  s.Projection.Final,
			Delta:  s.Projection.Delta,
		},
	}
}

func toPoints(rois []model.ROI) []ROIPoint {
	out := make([]ROIPoint, len(rois))
	for i, r := range rois {
		out[i] = ROIPoint{Date: r.Date.Format(time.DateOnly)}
		if r.OK() {
			v := r.Value
			out[i].Value = &v
		} else {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}

func toVolatilityPoints(points []model.VolatilityPoint) []VolatilityPoint {
	if len(points) == 0 {
		return nil
	}
	out := make([]VolatilityPoint, len(points))
	for i, p := range points {
		out[i] = VolatilityPoint{Date: p.Date.Format(time.DateOnly), Value: p.Value}
	}
	return out
}

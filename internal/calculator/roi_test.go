package calculator

import (
	"errors"
	"math"
	"testing"
	"time"

	"ReturnLens/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seriesOf(points map[string]float64) *model.PriceSeries {
	bars := make([]model.OHLCV, 0, len(points))
	for d, p := range points {
		bars = append(bars, model.OHLCV{Time: day(d), Close: p})
	}
	return model.NewPriceSeries("TEST", bars)
}

// weekdaySeries builds a wavy, upward-drifting daily series over weekdays.
func weekdaySeries(from, to string) *model.PriceSeries {
	var bars []model.OHLCV
	i := 0
	for d := day(from); !d.After(day(to)); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		p := 100 + 0.05*float64(i) + 8*math.Sin(float64(i)/17)
		bars = append(bars, model.OHLCV{Time: d, Close: p})
		i++
	}
	return model.NewPriceSeries("WAVE", bars)
}

func TestLumpSumROI_ConcreteScenario(t *testing.T) {
	prices := seriesOf(map[string]float64{"2020-01-01": 100, "2021-01-01": 110})

	rois, err := LumpSumROI(prices, []time.Time{day("2020-01-01")}, 12)
	require.NoError(t, err)
	require.Len(t, rois, 1)
	require.NoError(t, rois[0].Err)
	assert.InDelta(t, 0.10, rois[0].Value, 1e-12)
	assert.Equal(t, day("2020-01-01"), rois[0].Date)
}

func TestLumpSumROI_ExactZero(t *testing.T) {
	prices := seriesOf(map[string]float64{"2020-01-02": 123.45, "2020-04-02": 123.45})

	for _, h := range []int{1, 3, 7} {
		rois, err := LumpSumROI(prices, []time.Time{day("2020-01-02")}, h)
		require.NoError(t, err)
		if h <= 3 {
			require.NoError(t, rois[0].Err)
			assert.Equal(t, 0.0, rois[0].Value, "horizon %d", h)
		} else {
			assert.ErrorIs(t, rois[0].Err, ErrInsufficientHistory)
		}
	}
}

func TestLumpSumROI_TwelveMonthsIsPlainReturn(t *testing.T) {
	buy, sell := 117.0, 130.0
	prices := seriesOf(map[string]float64{"2020-03-02": buy, "2021-03-02": sell})

	rois, err := LumpSumROI(prices, []time.Time{day("2020-03-02")}, 12)
	require.NoError(t, err)
	assert.Equal(t, sell/buy-1, rois[0].Value)
}

func TestLumpSumROI_PurchaseDateKeepsItsCalendarDay(t *testing.T) {
	prev, buy, sell := 50.0, 100.0, 110.0
	prices := seriesOf(map[string]float64{"2020-01-01": prev, "2020-01-02": buy, "2021-01-04": sell})
	cet := time.FixedZone("CET", 3600)

	rois, err := LumpSumROI(prices, []time.Time{time.Date(2020, 1, 2, 0, 0, 0, 0, cet)}, 12)
	require.NoError(t, err)
	require.NoError(t, rois[0].Err)
	assert.InDelta(t, sell/buy-1, rois[0].Value, 1e-12)

	dac, err := DollarAverageCostROI(prices, []time.Time{time.Date(2020, 1, 2, 0, 0, 0, 0, cet)}, 12, 12)
	require.NoError(t, err)
	require.NoError(t, dac[0].Err)
	assert.InDelta(t, sell/buy-1, dac[0].Value, 1e-12)
}

func TestLumpSumROI_Annualizes(t *testing.T) {
	prices := seriesOf(map[string]float64{"2020-01-01": 100, "2020-07-01": 110})

	rois, err := LumpSumROI(prices, []time.Time{day("2020-01-01")}, 6)
	require.NoError(t, err)
	assert.InDelta(t, 0.21, rois[0].Value, 1e-12)

	prices = seriesOf(map[string]float64{"2020-01-01": 100, "2022-01-03": 121})
	rois, err = LumpSumROI(prices, []time.Time{day("2020-01-01")}, 24)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, rois[0].Value, 1e-12)
}

func TestLumpSumROI_ForwardResolvesBothEnds(t *testing.T) {
	// 2020-01-04 is a Saturday; its 12-month target 2021-01-04 is absent too.
	prices := seriesOf(map[string]float64{
		"2020-01-03": 50,
		"2020-01-06": 100,
		"2021-01-05": 150,
		"2021-01-06": 999,
	})

	rois, err := LumpSumROI(prices, []time.Time{day("2020-01-04")}, 12)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, rois[0].Value, 1e-12)
	assert.Equal(t, day("2020-01-04"), rois[0].Date)
}

func TestLumpSumROI_IgnoresTimeOfDay(t *testing.T) {
	prices := seriesOf(map[string]float64{"2020-01-02": 100, "2021-01-04": 90, "2021-01-05": 200})

	at := time.Date(2020, 1, 2, 15, 30, 0, 0, time.UTC)
	rois, err := LumpSumROI(prices, []time.Time{at}, 12)
	require.NoError(t, err)
	assert.InDelta(t, -0.10, rois[0].Value, 1e-12)
	assert.Equal(t, at, rois[0].Date)
}

func TestLumpSumROI_PreservesOrder(t *testing.T) {
	prices := weekdaySeries("2019-01-01", "2021-12-31")
	dates := []time.Time{day("2020-06-15"), day("2019-02-01"), day("2020-01-10"), day("2019-02-01")}

	rois, err := LumpSumROI(prices, dates, 12)
	require.NoError(t, err)
	require.Len(t, rois, len(dates))
	for i, r := range rois {
		assert.Equal(t, dates[i], r.Date)
		assert.NoError(t, r.Err)
	}
	assert.Equal(t, rois[1].Value, rois[3].Value)
}

func TestLumpSumROI_InsufficientHistoryIsPerDate(t *testing.T) {
	prices := seriesOf(map[string]float64{"2020-01-01": 100, "2021-01-01": 110, "2021-02-01": 120})
	dates := []time.Time{day("2020-01-01"), day("2020-06-01"), day("2021-03-01")}

	rois, err := LumpSumROI(prices, dates, 12)
	require.NoError(t, err)
	require.Len(t, rois, 3)

	assert.NoError(t, rois[0].Err)
	assert.ErrorIs(t, rois[1].Err, ErrInsufficientHistory)
	assert.Contains(t, rois[1].Err.Error(), "2021-06-01")
	assert.ErrorIs(t, rois[2].Err, ErrInsufficientHistory)
	assert.Contains(t, rois[2].Err.Error(), "2021-03-01")
}

func TestLumpSumROI_InvalidPrice(t *testing.T) {
	prices := seriesOf(map[string]float64{"2020-01-01": 0, "2021-01-01": 110})

	rois, err := LumpSumROI(prices, []time.Time{day("2020-01-01")}, 12)
	require.NoError(t, err)
	assert.ErrorIs(t, rois[0].Err, ErrInvalidPrice)
}

func TestLumpSumROI_Empty(t *testing.T) {
	rois, err := LumpSumROI(model.NewPriceSeries("X", nil), []time.Time{day("2020-01-01")}, 12)
	require.NoError(t, err)
	assert.NotNil(t, rois)
	assert.Empty(t, rois)

	rois, err = LumpSumROI(seriesOf(map[string]float64{"2020-01-01": 1}), nil, 12)
	require.NoError(t, err)
	assert.Empty(t, rois)
}

func TestLumpSumROI_InvalidHorizon(t *testing.T) {
	for _, h := range []int{0, -3} {
		_, err := LumpSumROI(weekdaySeries("2020-01-01", "2020-02-01"), nil, h)
		assert.ErrorIs(t, err, ErrInvalidHorizon)
	}
}

func TestDollarAverageCostROI_ConcreteScenario(t *testing.T) {
	prices := seriesOf(map[string]float64{"2020-01-01": 100, "2020-07-01": 80, "2021-01-01": 120})

	rois, err := DollarAverageCostROI(prices, []time.Time{day("2020-01-01")}, 12, 6)
	require.NoError(t, err)
	require.Len(t, rois, 1)
	require.NoError(t, rois[0].Err)
	// mean(1/100, 1/80) = 0.01125; 0.01125 * 120 = 1.35
	assert.InDelta(t, 0.35, rois[0].Value, 1e-12)
}

func TestDollarAverageCostROI_SingleInstallmentEqualsLumpSum(t *testing.T) {
	prices := weekdaySeries("2018-01-01", "2022-12-31")
	dates := prices.Between(day("2018-01-01"), day("2020-12-31"))

	for _, h := range []int{1, 6, 12, 18} {
		ls, err := LumpSumROI(prices, dates, h)
		require.NoError(t, err)
		dac, err := DollarAverageCostROI(prices, dates, h, h)
		require.NoError(t, err)
		require.Len(t, dac, len(ls))
		for i := range ls {
			require.NoError(t, ls[i].Err)
			if ls[i].Value != dac[i].Value {
				t.Fatalf("horizon %d, %s: lump sum %v != dac %v", h, dates[i].Format(dateLayout), ls[i].Value, dac[i].Value)
			}
		}
	}
}

func TestDollarAverageCostROI_TruncatesPartialPeriod(t *testing.T) {
	// 12 / 5 = 2 installments at +0 and +5 months; month 10 is never invested.
	prices := seriesOf(map[string]float64{
		"2020-01-01": 100,
		"2020-06-01": 50,
		"2020-11-02": 1,
		"2021-01-01": 100,
	})

	rois, err := DollarAverageCostROI(prices, []time.Time{day("2020-01-01")}, 12, 5)
	require.NoError(t, err)
	assert.InDelta(t, (100.0/100+100.0/50)/2-1, rois[0].Value, 1e-12)
}

func TestDollarAverageCostROI_ConfigErrors(t *testing.T) {
	prices := weekdaySeries("2020-01-01", "2021-06-01")
	dates := []time.Time{day("2020-01-02")}

	tests := []struct {
		horizon, frequency int
		want               error
	}{
		{0, 1, ErrInvalidHorizon},
		{12, 0, ErrInvalidFrequency},
		{12, -1, ErrInvalidFrequency},
		{6, 12, ErrFrequencyExceedsHorizon},
	}
	for _, tt := range tests {
		rois, err := DollarAverageCostROI(prices, dates, tt.horizon, tt.frequency)
		assert.ErrorIs(t, err, tt.want, "h=%d f=%d", tt.horizon, tt.frequency)
		assert.Nil(t, rois)
	}
}

func TestDollarAverageCostROI_InsufficientHistoryIsPerDate(t *testing.T) {
	prices := weekdaySeries("2020-01-01", "2021-03-31")
	dates := []time.Time{day("2020-02-03"), day("2020-06-01"), day("2020-03-02")}

	rois, err := DollarAverageCostROI(prices, dates, 12, 3)
	require.NoError(t, err)
	assert.NoError(t, rois[0].Err)
	assert.True(t, errors.Is(rois[1].Err, ErrInsufficientHistory))
	assert.NoError(t, rois[2].Err)
	assert.Equal(t, dates[1], rois[1].Date)
}

func TestDollarAverageCostROI_BuysMoreWhenCheap(t *testing.T) {
	// A dip and full recovery: DAC buys cheap units, lump sum breaks even.
	prices := seriesOf(map[string]float64{
		"2020-01-01": 100,
		"2020-04-01": 50,
		"2020-07-01": 50,
		"2020-10-01": 100,
		"2021-01-01": 100,
	})
	date := []time.Time{day("2020-01-01")}

	ls, err := LumpSumROI(prices, date, 12)
	require.NoError(t, err)
	dac, err := DollarAverageCostROI(prices, date, 12, 3)
	require.NoError(t, err)

	assert.Equal(t, 0.0, ls[0].Value)
	assert.InDelta(t, 0.5, dac[0].Value, 1e-12)
}

func TestInstallmentCount(t *testing.T) {
	n, err := InstallmentCount(12, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = InstallmentCount(12, 5)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

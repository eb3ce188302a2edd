package calculator

import (
	"math"
	"sort"

	"ReturnLens/internal/model"
)

// Describe summarizes the computed values of an ROI series. Entries carrying an
// error are counted in Failed and otherwise ignored.
func Describe(kind model.StrategyKind, rois []model.ROI) model.Summary {
	s := model.Summary{Strategy: kind}

	values := make([]float64, 0, len(rois))
	for _, r := range rois {
		if !r.OK() {
			s.Failed++
			continue
		}
		values = append(values, r.Value)
	}
	s.Count = len(values)
	if s.Count == 0 {
		return s
	}

	sort.Float64s(values)
	var sum float64
	positive := 0
	for _, v := range values {
		sum += v
		if v > 0 {
			positive++
		}
	}
	s.Mean = sum / float64(s.Count)
	s.Min = values[0]
	s.Max = values[len(values)-1]
	s.Q1 = quantile(values, 0.25)
	s.Median = quantile(values, 0.5)
	s.Q3 = quantile(values, 0.75)
	s.PositiveShare = float64(positive) / float64(s.Count)

	if s.Count > 1 {
		var ss float64
		for _, v := range values {
			ss += (v - s.Mean) * (v - s.Mean)
		}
		s.StdDev = math.Sqrt(ss / float64(s.Count-1))
	}
	return s
}

// WinShare returns the fraction of dates, among those computed for both
// series, where a strictly beat b. The series must be aligned on dates.
func WinShare(a, b []model.ROI) float64 {
	n, wins := 0, 0
	for i := 0; i < len(a) && i < len(b); i++ {
		if !a[i].OK() || !b[i].OK() {
			continue
		}
		n++
		if a[i].Value > b[i].Value {
			wins++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(wins) / float64(n)
}

// quantile uses linear interpolation between closest ranks on sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

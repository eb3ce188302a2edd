package calculator

import (
	"sort"
	"time"
)

// MonthsPerYear is the annualization base for horizons expressed in months.
const MonthsPerYear = 12

// ResolveForward returns the index of the first date in the ascending slice
// dates that is not before target. ok is false when every date is earlier.
func ResolveForward(dates []time.Time, target time.Time) (i int, ok bool) {
	i = sort.Search(len(dates), func(i int) bool { return !dates[i].Before(target) })
	return i, i < len(dates)
}

// AddMonths shifts t by n calendar months, keeping the day of month and
// clamping it to the last day of the target month when that month is shorter.
// 2020-01-31 + 1 month is 2020-02-29.
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	ty, tm, _ := first.Date()
	if last := daysIn(ty, tm, t.Location()); d > last {
		d = last
	}
	return time.Date(ty, tm, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}

// MonthsBetween returns the whole-month span from a to b, counting calendar
// months only (days are ignored), the way a month picker would.
func MonthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*MonthsPerYear + int(b.Month()) - int(a.Month())
}

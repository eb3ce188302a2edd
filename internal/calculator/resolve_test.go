package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestResolveForward(t *testing.T) {
	dates := []time.Time{day("2020-01-02"), day("2020-01-03"), day("2020-01-06")}

	tests := []struct {
		name   string
		target string
		want   int
		ok     bool
	}{
		{"weekend rolls to monday", "2020-01-04", 2, true},
		{"exact match", "2020-01-03", 1, true},
		{"before first", "2019-12-25", 0, true},
		{"last date", "2020-01-06", 2, true},
		{"past the end", "2020-01-07", 3, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i, ok := ResolveForward(dates, day(tt.target))
			assert.Equal(t, tt.want, i)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestResolveForward_Empty(t *testing.T) {
	_, ok := ResolveForward(nil, day("2020-01-01"))
	assert.False(t, ok)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		from   string
		months int
		want   string
	}{
		{"2020-01-15", 0, "2020-01-15"},
		{"2020-01-01", 12, "2021-01-01"},
		{"2020-01-31", 1, "2020-02-29"},
		{"2021-01-31", 1, "2021-02-28"},
		{"2020-03-31", -1, "2020-02-29"},
		{"2020-08-31", 1, "2020-09-30"},
		{"2020-11-15", 3, "2021-02-15"},
		{"2020-05-30", 6, "2020-11-30"},
	}
	for _, tt := range tests {
		got := AddMonths(day(tt.from), tt.months)
		if !got.Equal(day(tt.want)) {
			t.Errorf("AddMonths(%s, %d) = %s, want %s", tt.from, tt.months, got.Format(dateLayout), tt.want)
		}
	}
}

func TestAddMonths_KeepsClock(t *testing.T) {
	in := time.Date(2020, 1, 31, 14, 30, 0, 0, time.UTC)
	got := AddMonths(in, 1)
	assert.Equal(t, time.Date(2020, 2, 29, 14, 30, 0, 0, time.UTC), got)
}

func TestMonthsBetween(t *testing.T) {
	assert.Equal(t, 12, MonthsBetween(day("2020-01-31"), day("2021-01-01")))
	assert.Equal(t, 0, MonthsBetween(day("2020-03-01"), day("2020-03-31")))
	assert.Equal(t, 14, MonthsBetween(day("2019-11-10"), day("2021-01-02")))
}

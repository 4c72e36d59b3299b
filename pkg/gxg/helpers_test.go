package gxg

import (
	"testing"
	"time"

	"github.com/tdmeij/Acequia/pkg/series"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// canonicalSeries builds a series on the canonical semi-monthly calendar
// between two dates with the given values, one per slot.
func canonicalSeries(t *testing.T, first, last time.Time, values []float64) *series.Series {
	t.Helper()
	dates := CanonicalDates(first, last)
	if len(dates) != len(values) {
		t.Fatalf("canonicalSeries: %d canonical slots between %s and %s, got %d values",
			len(dates), first.Format("2006-01-02"), last.Format("2006-01-02"), len(values))
	}
	return &series.Series{Name: "test", Dates: dates, Values: values}
}

// yearValues builds one hydrological year (24 canonical slots from April 14
// through March 28) with the first n slots valid and the rest missing.
func yearValues(n int) []float64 {
	values := make([]float64, 24)
	for i := range values {
		if i < n {
			values[i] = float64(i + 1)
		} else {
			values[i] = series.Missing()
		}
	}
	return values
}

// newYearRecord builds a record with HG3/LG3 set and every other
// statistic missing.
func newYearRecord(year int, hg3, lg3 float64, n int) YearRecord {
	return YearRecord{
		Year:    year,
		N1428:   n,
		HG3:     hg3,
		LG3:     lg3,
		HG3W:    series.Missing(),
		LG3S:    series.Missing(),
		VG3:     series.Missing(),
		VGApr1:  series.Missing(),
		VGApr15: series.Missing(),
		VGMar15: series.Missing(),
	}
}

// Package gxg computes the standardized GxG descriptive statistics used by
// Dutch groundwater practitioners: mean highest level (GHG), mean lowest
// level (GLG) and mean spring level (GVG), together with per-hydrological-
// year tables, groundwater class labels and regression-based spring-level
// approximations.
//
// The definitions assume heads measured on the 14th and 28th of each month,
// so an arbitrary-frequency input series is first resampled onto that
// canonical semi-monthly calendar.
//
// Reference: P. van der Sluijs and J.J. de Gruijter (1985), 'Water table
// classes: a method to describe seasonal fluctuation and duration of water
// table classes on Dutch soil maps.' Agricultural Water Management 10,
// 109-125.
package gxg

import (
	"fmt"
	"time"

	"github.com/tdmeij/Acequia/pkg/series"
)

// DefaultMaxLag is the default maximum distance, in days, between a
// canonical date and the raw observation that fills it.
const DefaultMaxLag = 3

// CanonicalDates returns the semi-monthly calendar (the 14th and 28th of
// every month) spanning the first through the last calendar month of the
// given range.
func CanonicalDates(first, last time.Time) []time.Time {
	var dates []time.Time
	y, m := first.Year(), first.Month()
	endY, endM := last.Year(), last.Month()
	for y < endY || (y == endY && m <= endM) {
		dates = append(dates,
			time.Date(y, m, 14, 0, 0, 0, 0, time.UTC),
			time.Date(y, m, 28, 0, 0, 0, 0, time.UTC))
		m++
		if m > time.December {
			m = time.January
			y++
		}
	}
	return dates
}

// Normalize resamples a head series onto the canonical semi-monthly
// calendar. Each canonical slot takes the value of the nearest raw
// observation within maxLag days; slots with no observation close enough
// stay missing. When two observations are equally distant the earlier one
// wins. The input must be non-empty with strictly increasing dates.
func Normalize(sr *series.Series, maxLag int) (*series.Series, error) {
	if sr == nil {
		return nil, fmt.Errorf("%w: series is nil", ErrInvalidInput)
	}
	if err := sr.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if maxLag < 0 {
		return nil, fmt.Errorf("%w: negative max lag %d", ErrInvalidInput, maxLag)
	}

	dates := CanonicalDates(sr.First(), sr.Last())
	values := make([]float64, len(dates))
	lagLimit := time.Duration(maxLag) * 24 * time.Hour

	for i, d := range dates {
		values[i] = series.Missing()
		idx, dist := sr.Nearest(d)
		if idx >= 0 && dist <= lagLimit {
			values[i] = sr.Values[idx]
		}
	}

	return &series.Series{
		Name:   sr.Name,
		Dates:  dates,
		Values: values,
	}, nil
}

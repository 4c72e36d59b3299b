// Package series provides the groundwater-head time series type consumed
// by the GxG engine. A series is an ordered set of (date, head) pairs with
// heads in meters relative to a fixed datum. Missing heads are carried as
// NaN so that gaps survive resampling without changing the calendar.
package series

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

// Series represents a groundwater-head time series.
type Series struct {
	Name   string
	Dates  []time.Time
	Values []float64
}

// New creates a series from parallel date and value slices.
func New(name string, dates []time.Time, values []float64) (*Series, error) {
	if len(dates) != len(values) {
		return nil, fmt.Errorf("dates and values must have the same length (%d != %d)", len(dates), len(values))
	}
	sr := &Series{
		Name:   name,
		Dates:  dates,
		Values: values,
	}
	if err := sr.Validate(); err != nil {
		return nil, err
	}
	return sr, nil
}

// Validate checks the series invariants: at least one observation and
// strictly increasing dates (no duplicates).
func (s *Series) Validate() error {
	if len(s.Dates) != len(s.Values) {
		return fmt.Errorf("dates and values must have the same length (%d != %d)", len(s.Dates), len(s.Values))
	}
	if len(s.Dates) == 0 {
		return errors.New("series is empty")
	}
	for i := 1; i < len(s.Dates); i++ {
		if !s.Dates[i].After(s.Dates[i-1]) {
			return fmt.Errorf("dates are not strictly increasing at index %d (%s >= %s)",
				i, s.Dates[i-1].Format("2006-01-02"), s.Dates[i].Format("2006-01-02"))
		}
	}
	return nil
}

// Len returns the number of observations in the series.
func (s *Series) Len() int {
	return len(s.Dates)
}

// IsMissing reports whether v marks a missing observation.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Missing is the marker value for an absent observation.
func Missing() float64 {
	return math.NaN()
}

// First returns the date of the first observation.
func (s *Series) First() time.Time {
	return s.Dates[0]
}

// Last returns the date of the last observation.
func (s *Series) Last() time.Time {
	return s.Dates[len(s.Dates)-1]
}

// At returns the value at the exact date, or (NaN, false) if the date is
// not part of the series.
func (s *Series) At(date time.Time) (float64, bool) {
	i := sort.Search(len(s.Dates), func(i int) bool {
		return !s.Dates[i].Before(date)
	})
	if i < len(s.Dates) && s.Dates[i].Equal(date) {
		return s.Values[i], true
	}
	return Missing(), false
}

// Nearest returns the index of the valid (non-missing) observation closest
// in time to date and its absolute distance. When two observations are
// equally distant, the earlier one wins. Returns -1 when the series holds
// no valid observations.
func (s *Series) Nearest(date time.Time) (int, time.Duration) {
	best := -1
	var bestDist time.Duration
	for i := range s.Dates {
		if IsMissing(s.Values[i]) {
			continue
		}
		dist := s.Dates[i].Sub(date)
		if dist < 0 {
			dist = -dist
		}
		if best == -1 || dist < bestDist {
			best = i
			bestDist = dist
		}
		// Dates are sorted, so once past the target the distance only grows.
		if s.Dates[i].After(date) && best != -1 && dist > bestDist {
			break
		}
	}
	return best, bestDist
}

// Window returns the sub-series with from <= date <= to. The result shares
// the underlying slices. Returns nil when no observation falls inside.
func (s *Series) Window(from, to time.Time) *Series {
	lo := sort.Search(len(s.Dates), func(i int) bool {
		return !s.Dates[i].Before(from)
	})
	hi := sort.Search(len(s.Dates), func(i int) bool {
		return s.Dates[i].After(to)
	})
	if lo >= hi {
		return nil
	}
	return &Series{
		Name:   s.Name,
		Dates:  s.Dates[lo:hi],
		Values: s.Values[lo:hi],
	}
}

// ValidValues returns the non-missing values in date order.
func (s *Series) ValidValues() []float64 {
	var out []float64
	for _, v := range s.Values {
		if !IsMissing(v) {
			out = append(out, v)
		}
	}
	return out
}

// ValidCount returns the number of non-missing observations.
func (s *Series) ValidCount() int {
	n := 0
	for _, v := range s.Values {
		if !IsMissing(v) {
			n++
		}
	}
	return n
}

// Package hydro provides the calendar conventions used by Dutch groundwater
// statistics: hydrological-year labeling, the winter/summer season split and
// measurement-frequency classification.
package hydro

import (
	"sort"
	"time"

	"github.com/tdmeij/Acequia/pkg/series"
)

// Season labels one half of the hydrological calendar.
type Season string

const (
	Winter Season = "winter" // October through March
	Summer Season = "summer" // April through September
)

// Year returns the hydrological year a date belongs to. The year boundary
// falls on April 1st: dates from April 1 of year Y through March 31 of year
// Y+1 belong to year Y. Only month and day are considered, so canonical
// semi-monthly dates anchor the same way as raw dates.
func Year(t time.Time) int {
	if t.Month() >= time.April {
		return t.Year()
	}
	return t.Year() - 1
}

// YearSpan returns the first and last calendar day of hydrological year y.
func YearSpan(y int) (time.Time, time.Time) {
	start := time.Date(y, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(y+1, time.March, 31, 0, 0, 0, 0, time.UTC)
	return start, end
}

// SeasonOf classifies a date as winter (Oct-Mar) or summer (Apr-Sep).
func SeasonOf(t time.Time) Season {
	if t.Month() >= time.April && t.Month() <= time.September {
		return Summer
	}
	return Winter
}

// Frequency labels how often a series is measured.
type Frequency string

const (
	Daily    Frequency = "daily"
	Weekly   Frequency = "weekly"
	Biweekly Frequency = "biweekly"
	Monthly  Frequency = "monthly"
	Sparse   Frequency = "sparse"
	Unknown  Frequency = ""
)

// frequency labels ordered from densest to sparsest sampling
var frequencyRank = []Frequency{Daily, Weekly, Biweekly, Monthly, Sparse}

// MeasFrq classifies the measurement frequency of a series from the median
// day gap between consecutive valid observations. A series with fewer than
// two valid observations is Unknown.
func MeasFrq(sr *series.Series) Frequency {
	if sr == nil {
		return Unknown
	}

	var gaps []float64
	prev := time.Time{}
	for i, d := range sr.Dates {
		if series.IsMissing(sr.Values[i]) {
			continue
		}
		if !prev.IsZero() {
			gaps = append(gaps, d.Sub(prev).Hours()/24)
		}
		prev = d
	}
	if len(gaps) == 0 {
		return Unknown
	}

	sort.Float64s(gaps)
	median := gaps[len(gaps)/2]
	if len(gaps)%2 == 0 {
		median = (gaps[len(gaps)/2-1] + gaps[len(gaps)/2]) / 2
	}

	switch {
	case median <= 1.5:
		return Daily
	case median <= 9:
		return Weekly
	case median <= 17:
		return Biweekly
	case median <= 45:
		return Monthly
	default:
		return Sparse
	}
}

// MaxFrq reduces a set of per-year frequency labels to the dominant one:
// the densest sampling frequency observed. Unknown labels are ignored;
// all-Unknown input reduces to Unknown.
func MaxFrq(freqs []Frequency) Frequency {
	for _, rank := range frequencyRank {
		for _, f := range freqs {
			if f == rank {
				return rank
			}
		}
	}
	return Unknown
}

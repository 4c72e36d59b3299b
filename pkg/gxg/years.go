package gxg

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/tdmeij/Acequia/pkg/hydro"
	"github.com/tdmeij/Acequia/pkg/series"
)

// MinObservations is the minimum number of valid canonical observations a
// hydrological year needs before its extremum statistics are defined.
const MinObservations = 18

// DefaultVGMaxLag is the default maximum distance, in days, between the
// spring reference date and the raw observation that estimates VG.
const DefaultVGMaxLag = 7

// VGDate selects the reference date for the single-observation spring
// level estimate (VG).
type VGDate string

const (
	VGApr1  VGDate = "apr1" // April 1, the conventional reference date
	VGApr15 VGDate = "apr15"
	VGMar15 VGDate = "mar15"
)

// VGDates lists the recognized spring reference dates. The first entry is
// the fallback for unrecognized input.
var VGDates = []VGDate{VGApr1, VGApr15, VGMar15}

// VGRefDate is the default spring reference date.
const VGRefDate = VGApr1

// YearRecord holds the GxG statistics of one hydrological year. Statistic
// fields are NaN when the year lacks the observations to define them.
type YearRecord struct {
	Year    int             // hydrological year (April 1 rule)
	N1428   int             // valid canonical observations
	HG3     float64         // mean of the 3 highest canonical values
	LG3     float64         // mean of the 3 lowest canonical values
	HG3W    float64         // HG3 restricted to winter observations
	LG3S    float64         // LG3 restricted to summer observations
	VG3     float64         // spring level from Mar 14, Mar 28, Apr 14
	VGApr1  float64         // spring level nearest April 1
	VGApr15 float64         // spring level nearest April 15
	VGMar15 float64         // spring level nearest March 15
	MeasFrq hydro.Frequency // measurement frequency of the raw series
}

// ExtractYears partitions a normalized series into hydrological years and
// computes the per-year statistics. The output holds one record per year
// from the first through the last year in the series' span, with no year
// omitted even when all its fields are missing. The raw series supplies
// the single-observation spring levels and the measurement-frequency
// label; it may be nil, leaving those fields missing.
func ExtractYears(norm, raw *series.Series, vgMaxLag int) ([]YearRecord, error) {
	if norm == nil {
		return nil, fmt.Errorf("%w: normalized series is nil", ErrInvalidInput)
	}
	if err := norm.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if vgMaxLag <= 0 {
		vgMaxLag = DefaultVGMaxLag
	}

	minYear := hydro.Year(norm.First())
	maxYear := hydro.Year(norm.Last())

	records := make([]YearRecord, 0, maxYear-minYear+1)
	for year := minYear; year <= maxYear; year++ {
		rec := YearRecord{
			Year:    year,
			HG3:     series.Missing(),
			LG3:     series.Missing(),
			HG3W:    series.Missing(),
			LG3S:    series.Missing(),
			VG3:     springLevel3(norm, year),
			VGApr1:  springLevel1(raw, year, VGApr1, vgMaxLag),
			VGApr15: springLevel1(raw, year, VGApr15, vgMaxLag),
			VGMar15: springLevel1(raw, year, VGMar15, vgMaxLag),
		}

		var all, winter, summer []float64
		for i, d := range norm.Dates {
			if hydro.Year(d) != year || series.IsMissing(norm.Values[i]) {
				continue
			}
			all = append(all, norm.Values[i])
			if hydro.SeasonOf(d) == hydro.Winter {
				winter = append(winter, norm.Values[i])
			} else {
				summer = append(summer, norm.Values[i])
			}
		}

		rec.N1428 = len(all)
		if rec.N1428 >= MinObservations {
			rec.HG3 = round2(largestMean(all, 3))
			rec.LG3 = round2(smallestMean(all, 3))
			rec.HG3W = round2(largestMean(winter, 3))
			rec.LG3S = round2(smallestMean(summer, 3))
		}

		if raw != nil {
			start, end := hydro.YearSpan(year)
			rec.MeasFrq = hydro.MeasFrq(raw.Window(start, end))
		}

		records = append(records, rec)
	}

	return records, nil
}

// springLevel3 returns VG3 for one year: the mean of the canonical values
// on March 14, March 28 and April 14, skipping missing components. All
// three missing means a missing result.
func springLevel3(norm *series.Series, year int) float64 {
	dates := []time.Time{
		time.Date(year, time.March, 14, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.March, 28, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.April, 14, 0, 0, 0, 0, time.UTC),
	}

	var vals []float64
	for _, d := range dates {
		if v, ok := norm.At(d); ok && !series.IsMissing(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return series.Missing()
	}
	return round2(stat.Mean(vals, nil))
}

// springLevel1 returns VG for one year: the single raw observation closest
// to the reference date, accepted only within maxLag days.
func springLevel1(raw *series.Series, year int, refdate VGDate, maxLag int) float64 {
	if raw == nil {
		return series.Missing()
	}

	var date time.Time
	switch refdate {
	case VGApr1:
		date = time.Date(year, time.April, 1, 0, 0, 0, 0, time.UTC)
	case VGApr15:
		date = time.Date(year, time.April, 15, 0, 0, 0, 0, time.UTC)
	case VGMar15:
		date = time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC)
	default:
		return series.Missing()
	}

	idx, dist := raw.Nearest(date)
	if idx < 0 || dist > time.Duration(maxLag)*24*time.Hour {
		return series.Missing()
	}
	return round2(raw.Values[idx])
}

// largestMean returns the mean of the n largest values, reduced to
// whatever is present when fewer than n values exist.
func largestMean(vals []float64, n int) float64 {
	if len(vals) == 0 {
		return series.Missing()
	}
	sorted := append([]float64(nil), vals...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return stat.Mean(sorted, nil)
}

// smallestMean returns the mean of the n smallest values, reduced to
// whatever is present when fewer than n values exist.
func smallestMean(vals []float64, n int) float64 {
	if len(vals) == 0 {
		return series.Missing()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return stat.Mean(sorted, nil)
}

// round2 rounds to two decimals, the centimeter precision convention for
// heads in meters. NaN stays NaN.
func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}

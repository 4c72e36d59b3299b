package gxg

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/tdmeij/Acequia/pkg/series"
)

// Class returns the groundwater class label for mean highest and mean
// lowest levels expressed as depth below surface in meters. The ordered
// range conditions follow the traditional water table class table; the
// first match wins and input outside all ranges is undefined (""). The
// interior bounds are exclusive, so exact boundary values fall through.
func Class(ghg, glg float64) string {
	switch {
	case ghg < 0.20 && glg < 0.50:
		return "I"
	case ghg < 0.25 && 0.50 < glg && glg < 0.80:
		return "II"
	case 0.25 < ghg && ghg < 0.40 && 0.50 < glg && glg < 0.80:
		return "II*"
	case ghg < 0.25 && 0.80 < glg && glg < 1.20:
		return "III"
	case 0.25 < ghg && ghg < 0.40 && 0.80 < glg && glg < 1.20:
		return "III*"
	case ghg > 0.40 && 0.80 < glg && glg < 1.20:
		return "IV"
	case ghg < 0.25 && glg > 1.20:
		return "V"
	case 0.25 < ghg && ghg < 0.40 && glg > 1.20:
		return "V*"
	case 0.40 < ghg && ghg < 0.80 && glg > 1.20:
		return "VI"
	case 0.80 < ghg && ghg < 1.40:
		return "VII"
	case ghg > 1.40:
		return "VII*"
	}
	return ""
}

// classFromRecords derives the class label from the cross-year mean HG3
// and LG3 converted to depth below the surface elevation.
func classFromRecords(records []YearRecord, surface float64) string {
	ghg := columnMean(records, func(r *YearRecord) float64 { return r.HG3 })
	glg := columnMean(records, func(r *YearRecord) float64 { return r.LG3 })
	if math.IsNaN(ghg) || math.IsNaN(glg) || math.IsNaN(surface) {
		return ""
	}
	return Class(surface-ghg, surface-glg)
}

// columnMean returns the mean of one year-table column over the years
// where it is defined, NaN when none are.
func columnMean(records []YearRecord, get func(*YearRecord) float64) float64 {
	var vals []float64
	for i := range records {
		if v := get(&records[i]); !series.IsMissing(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return series.Missing()
	}
	return stat.Mean(vals, nil)
}

package gxg

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/tdmeij/Acequia/pkg/hydro"
	"github.com/tdmeij/Acequia/pkg/series"
)

// RefLevel selects the reference level for summarized heads.
type RefLevel string

const (
	// RefDatum reports heads in meters relative to the fixed datum.
	RefDatum RefLevel = "datum"
	// RefSurface reports heads in centimeters referenced to the surface.
	RefSurface RefLevel = "surface"
)

// Warning is a non-fatal diagnostic collected while computing statistics.
type Warning struct {
	Op      string
	Message string
}

// Aggregate holds the cross-year reduction of one statistic.
type Aggregate struct {
	Mean   float64
	Std    float64 // population standard deviation over contributing years
	SE     float64 // standard error of the mean
	NYears int     // contributing years
}

// Field is one named entry of the public summary record.
type Field struct {
	Name  string
	Value float64 // NaN for textual fields
	Text  string  // set for textual fields (gt, reflev, maxfrq)
}

// Summary is the cross-year GxG record of one series.
type Summary struct {
	Series   string
	RefLevel RefLevel
	Minimal  bool

	GHG      Aggregate
	GLG      Aggregate
	GHGW     Aggregate
	GLGS     Aggregate
	GVG3     Aggregate
	GVGApr1  Aggregate
	GVGApr15 Aggregate
	GVGMar15 Aggregate

	N1428  int             // rounded mean of valid canonical observations per year
	MaxFrq hydro.Frequency // dominant measurement frequency

	// Surface-referenced extras, unset at datum level.
	GT        string              // groundwater class, "" when undefined
	GVGApprox map[Formula]float64 // approximated spring level per formula

	fields []Field
}

// Fields returns the summary as an ordered record with public column
// names. With Minimal set the record is restricted to ghg, glg, gvg3,
// gvg_apr1, gt, reflev and n1428.
func (s *Summary) Fields() []Field {
	return s.fields
}

// minimalFields is the column selection of a minimal summary.
var minimalFields = map[string]bool{
	"ghg": true, "glg": true, "gvg3": true, "gvg_apr1": true,
	"gt": true, "reflev": true, "n1428": true,
}

// publicName maps an internal short column name to its public name via
// substring substitution: hg3 to ghg, lg3 to glg, vg to gvg, measfrq to
// maxfrq. Case-sensitive, each replacement applied once.
func publicName(col string) string {
	replacements := [][2]string{
		{"hg3", "ghg"},
		{"lg3", "glg"},
		{"vg", "gvg"},
		{"measfrq", "maxfrq"},
	}
	for _, r := range replacements {
		col = strings.Replace(col, r[0], r[1], 1)
	}
	return col
}

// summaryColumn pairs an internal column name with its per-year accessor.
type summaryColumn struct {
	name string
	get  func(*YearRecord) float64
}

var summaryColumns = []summaryColumn{
	{"hg3", func(r *YearRecord) float64 { return r.HG3 }},
	{"lg3", func(r *YearRecord) float64 { return r.LG3 }},
	{"hg3w", func(r *YearRecord) float64 { return r.HG3W }},
	{"lg3s", func(r *YearRecord) float64 { return r.LG3S }},
	{"vg3", func(r *YearRecord) float64 { return r.VG3 }},
	{"vg_apr1", func(r *YearRecord) float64 { return r.VGApr1 }},
	{"vg_apr15", func(r *YearRecord) float64 { return r.VGApr15 }},
	{"vg_mar15", func(r *YearRecord) float64 { return r.VGMar15 }},
}

// Summarize reduces a per-year table into a single summary record. The
// surface elevation (meters above datum) feeds the groundwater class and
// the spring-level approximations at surface level; pass NaN when unknown.
// An empty reference level warns and assumes datum; any other value
// outside {datum, surface} is fatal. Summarize is a pure function of its
// inputs.
func Summarize(records []YearRecord, name string, surface float64, ref RefLevel, minimal bool) (*Summary, []Warning, error) {
	var warnings []Warning

	if ref == "" {
		warnings = append(warnings, Warning{
			Op:      "summarize",
			Message: fmt.Sprintf("no reference level given, %s is assumed", RefDatum),
		})
		ref = RefDatum
	}
	if ref != RefDatum && ref != RefSurface {
		return nil, warnings, fmt.Errorf("%w: %q (valid: %s, %s)", ErrInvalidReferenceLevel, ref, RefDatum, RefSurface)
	}

	s := &Summary{
		Series:   name,
		RefLevel: ref,
		Minimal:  minimal,
	}

	aggregates := make(map[string]Aggregate, len(summaryColumns))
	for _, col := range summaryColumns {
		var vals []float64
		for i := range records {
			if v := col.get(&records[i]); !series.IsMissing(v) {
				vals = append(vals, v)
			}
		}
		aggregates[col.name] = aggregate(vals, ref)
	}

	s.GHG = aggregates["hg3"]
	s.GLG = aggregates["lg3"]
	s.GHGW = aggregates["hg3w"]
	s.GLGS = aggregates["lg3s"]
	s.GVG3 = aggregates["vg3"]
	s.GVGApr1 = aggregates["vg_apr1"]
	s.GVGApr15 = aggregates["vg_apr15"]
	s.GVGMar15 = aggregates["vg_mar15"]

	if len(records) > 0 {
		sum := 0.0
		for i := range records {
			sum += float64(records[i].N1428)
		}
		s.N1428 = int(math.Round(sum / float64(len(records))))
	}

	var freqs []hydro.Frequency
	for i := range records {
		freqs = append(freqs, records[i].MeasFrq)
	}
	s.MaxFrq = hydro.MaxFrq(freqs)

	if ref == RefSurface {
		if math.IsNaN(surface) {
			warnings = append(warnings, Warning{
				Op:      "summarize",
				Message: "surface level unknown, groundwater class and spring-level approximations are undefined",
			})
		} else {
			s.GT = classFromRecords(records, surface)
			s.GVGApprox = make(map[Formula]float64, len(Formulas))
			for _, f := range Formulas {
				s.GVGApprox[f] = approximateFromRecords(records, surface, f)
			}
		}
	}

	s.fields = buildFields(s, aggregates)
	if minimal {
		var kept []Field
		for _, f := range s.fields {
			if minimalFields[f.Name] {
				kept = append(kept, f)
			}
		}
		s.fields = kept
	}

	return s, warnings, nil
}

// aggregate reduces one column's valid per-year values. At surface level
// values are rescaled to centimeters before reduction and rounded to
// integers; datum results keep two decimals.
func aggregate(vals []float64, ref RefLevel) Aggregate {
	agg := Aggregate{
		Mean: series.Missing(),
		Std:  series.Missing(),
		SE:   series.Missing(),
	}
	if len(vals) == 0 {
		return agg
	}

	scaled := vals
	if ref == RefSurface {
		scaled = make([]float64, len(vals))
		for i, v := range vals {
			scaled[i] = v * 100
		}
	}

	agg.NYears = len(scaled)
	mean := stat.Mean(scaled, nil)
	std := stat.PopStdDev(scaled, nil)
	se := std / math.Sqrt(float64(len(scaled)))

	if ref == RefSurface {
		agg.Mean = math.Round(mean)
		agg.Std = math.Round(std)
		agg.SE = math.Round(se)
	} else {
		agg.Mean = round2(mean)
		agg.Std = round2(std)
		agg.SE = round2(se)
	}
	return agg
}

// buildFields renders the summary as the ordered public record: the mean
// of every column, the surface-level extras, the reference level, then the
// std, se and nyrs entries per column.
func buildFields(s *Summary, aggregates map[string]Aggregate) []Field {
	var fields []Field

	for _, col := range summaryColumns {
		fields = append(fields, Field{Name: publicName(col.name), Value: aggregates[col.name].Mean})
	}
	fields = append(fields, Field{Name: "n1428", Value: float64(s.N1428)})
	fields = append(fields, Field{Name: publicName("measfrq"), Value: series.Missing(), Text: string(s.MaxFrq)})

	if s.RefLevel == RefSurface {
		fields = append(fields, Field{Name: "gt", Value: series.Missing(), Text: s.GT})
		for _, f := range Formulas {
			if v, ok := s.GVGApprox[f]; ok {
				fields = append(fields, Field{Name: publicName("vg_" + strings.ToLower(string(f))), Value: v})
			}
		}
	}
	fields = append(fields, Field{Name: "reflev", Value: series.Missing(), Text: string(s.RefLevel)})

	for _, col := range summaryColumns {
		fields = append(fields, Field{Name: publicName(col.name) + "_std", Value: aggregates[col.name].Std})
	}
	for _, col := range summaryColumns {
		fields = append(fields, Field{Name: publicName(col.name) + "_se", Value: aggregates[col.name].SE})
	}
	for _, col := range summaryColumns {
		fields = append(fields, Field{Name: publicName(col.name) + "_nyrs", Value: float64(aggregates[col.name].NYears)})
	}

	return fields
}

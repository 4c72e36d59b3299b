package gxg

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/tdmeij/Acequia/pkg/series"
)

// Source is a rich head-series provider: the series itself plus the
// metadata the surface-referenced statistics need. It is the boundary
// interface for callers that wrap their own station or file types.
type Source interface {
	Heads() *series.Series
	Name() string
	Surface() float64 // surface elevation in meters above datum, NaN when unknown
}

// Options configures a Stats instance. The zero value selects the
// conventional defaults.
type Options struct {
	MaxLag    int    // canonical resampling lag in days (default 3)
	VGRefDate VGDate // spring reference date (default apr1)
	VGMaxLag  int    // spring-level lag in days (default 7)
	Strict    bool   // fatal errors instead of warn-and-fallback
	Logger    *zap.SugaredLogger
}

// Stats computes and memoizes the GxG statistics of one head series. The
// normalized series, the year table and the summary are derived lazily;
// the summary cache is keyed by reference level and minimal flag, so a
// level change recomputes instead of leaking stale values. A Stats is not
// safe for concurrent use; batch processing owns one instance per worker.
type Stats struct {
	raw     *series.Series
	name    string
	surface float64
	opts    Options
	logger  *zap.SugaredLogger

	norm    *series.Series
	years   []YearRecord
	summary *Summary

	warnings []Warning
}

// New creates a Stats for a raw head series relative to datum. The
// surface elevation may be NaN when only datum-referenced output is
// needed. Returns ErrInvalidInput for an empty or non-monotonic series
// and, in strict mode, ErrUnknownReferenceDate for an unrecognized spring
// reference date.
func New(sr *series.Series, surface float64, opts *Options) (*Stats, error) {
	if sr == nil {
		return nil, fmt.Errorf("%w: series is nil", ErrInvalidInput)
	}
	if err := sr.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s := &Stats{
		raw:     sr,
		name:    sr.Name,
		surface: surface,
	}
	if opts != nil {
		s.opts = *opts
	}
	if s.opts.MaxLag <= 0 {
		s.opts.MaxLag = DefaultMaxLag
	}
	if s.opts.VGMaxLag <= 0 {
		s.opts.VGMaxLag = DefaultVGMaxLag
	}
	s.logger = s.opts.Logger
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}

	if s.opts.VGRefDate == "" {
		s.opts.VGRefDate = VGRefDate
	} else if !knownVGDate(s.opts.VGRefDate) {
		if s.opts.Strict {
			return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownReferenceDate, s.opts.VGRefDate, VGDates)
		}
		s.warnf("vg", "reference date %q not recognized, %q is assumed", s.opts.VGRefDate, VGRefDate)
		s.opts.VGRefDate = VGRefDate
	}

	return s, nil
}

// NewFromSource adapts a rich series source into a Stats instance.
func NewFromSource(src Source, opts *Options) (*Stats, error) {
	s, err := New(src.Heads(), src.Surface(), opts)
	if err != nil {
		return nil, err
	}
	if name := src.Name(); name != "" {
		s.name = name
	}
	return s, nil
}

// Normalized returns the series resampled onto the semi-monthly calendar,
// computing it on first use.
func (s *Stats) Normalized() (*series.Series, error) {
	if s.norm == nil {
		norm, err := Normalize(s.raw, s.opts.MaxLag)
		if err != nil {
			return nil, err
		}
		s.norm = norm
	}
	return s.norm, nil
}

// Years returns the per-hydrological-year table, computing it on first use.
func (s *Stats) Years() ([]YearRecord, error) {
	if s.years == nil {
		norm, err := s.Normalized()
		if err != nil {
			return nil, err
		}
		years, err := ExtractYears(norm, s.raw, s.opts.VGMaxLag)
		if err != nil {
			return nil, err
		}
		s.years = years
	}
	return s.years, nil
}

// Summarize returns the cross-year summary at the given reference level.
// An empty level warns and assumes datum. The result is cached until the
// reference level or minimal flag changes.
func (s *Stats) Summarize(ref RefLevel, minimal bool) (*Summary, error) {
	if ref == "" {
		s.warnf("summarize", "no reference level given, %s is assumed", RefDatum)
		ref = RefDatum
	}
	if s.summary != nil && s.summary.RefLevel == ref && s.summary.Minimal == minimal {
		return s.summary, nil
	}

	records, err := s.Years()
	if err != nil {
		return nil, err
	}
	summary, warnings, err := Summarize(records, s.name, s.surface, ref, minimal)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.warn(w)
	}
	s.summary = summary
	return summary, nil
}

// GHG returns the mean highest level. It reads the cached summary when one
// exists, computing the datum-level summary otherwise.
func (s *Stats) GHG() (float64, error) {
	sum, err := s.cachedSummary()
	if err != nil {
		return series.Missing(), err
	}
	return sum.GHG.Mean, nil
}

// GLG returns the mean lowest level, resolved like GHG.
func (s *Stats) GLG() (float64, error) {
	sum, err := s.cachedSummary()
	if err != nil {
		return series.Missing(), err
	}
	return sum.GLG.Mean, nil
}

func (s *Stats) cachedSummary() (*Summary, error) {
	if s.summary != nil {
		return s.summary, nil
	}
	return s.Summarize(RefDatum, false)
}

// GroundwaterClass returns the water table class label derived from the
// cross-year mean levels as depth below surface, "" when undefined.
func (s *Stats) GroundwaterClass() (string, error) {
	records, err := s.Years()
	if err != nil {
		return "", err
	}
	return classFromRecords(records, s.surface), nil
}

// ApproximateSpringLevel estimates GVG in centimeters below surface with
// the named regression formula. An unknown name warns and substitutes
// SLUIJS82, or returns ErrUnknownFormula in strict mode; an empty name
// selects SLUIJS82 directly.
func (s *Stats) ApproximateSpringLevel(formula Formula) (float64, error) {
	if formula == "" {
		formula = Formulas[0]
	}
	if !knownFormula(formula) {
		if s.opts.Strict {
			return series.Missing(), fmt.Errorf("%w: %q (valid: %v)", ErrUnknownFormula, formula, Formulas)
		}
		s.warnf("approximate", "formula %q not recognized, %s is assumed", formula, Formulas[0])
		formula = Formulas[0]
	}

	records, err := s.Years()
	if err != nil {
		return series.Missing(), err
	}
	return approximateFromRecords(records, s.surface, formula), nil
}

// SpringLevels returns the per-year single-observation spring level (VG)
// at the configured reference date, keyed by hydrological year. Years
// without an observation close enough to the reference date are absent.
func (s *Stats) SpringLevels() (map[int]float64, error) {
	records, err := s.Years()
	if err != nil {
		return nil, err
	}

	out := make(map[int]float64)
	for i := range records {
		var v float64
		switch s.opts.VGRefDate {
		case VGApr15:
			v = records[i].VGApr15
		case VGMar15:
			v = records[i].VGMar15
		default:
			v = records[i].VGApr1
		}
		if !series.IsMissing(v) {
			out[records[i].Year] = v
		}
	}
	return out, nil
}

// Warnings returns the non-fatal diagnostics collected so far.
func (s *Stats) Warnings() []Warning {
	out := make([]Warning, len(s.warnings))
	copy(out, s.warnings)
	return out
}

func (s *Stats) warn(w Warning) {
	s.warnings = append(s.warnings, w)
	s.logger.Warnf("%s: %s: %s", s.name, w.Op, w.Message)
}

func (s *Stats) warnf(op, format string, args ...interface{}) {
	s.warn(Warning{Op: op, Message: fmt.Sprintf(format, args...)})
}

func knownVGDate(d VGDate) bool {
	for _, k := range VGDates {
		if d == k {
			return true
		}
	}
	return false
}

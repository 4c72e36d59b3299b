package gxg

import (
	"errors"
	"math"
	"testing"

	"github.com/tdmeij/Acequia/pkg/series"
)

// testStats builds a Stats over three full hydrological years of
// canonical-aligned observations with a seasonal cycle.
func testStats(t *testing.T, opts *Options) *Stats {
	t.Helper()

	dates := CanonicalDates(date(2018, 4, 14), date(2021, 3, 28))
	values := make([]float64, len(dates))
	for i := range values {
		// Low in summer, high in winter, with a small trend.
		values[i] = 1.0 - 0.4*math.Cos(2*math.Pi*float64(i%24)/24) + float64(i)*0.001
	}
	sr, err := series.New("B27A0001", dates, values)
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(sr, 2.5, opts)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestNewInvalidInput(t *testing.T) {
	if _, err := New(nil, math.NaN(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("New(nil) error = %v, want ErrInvalidInput", err)
	}
	if _, err := New(&series.Series{Name: "empty"}, math.NaN(), nil); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("New(empty) error = %v, want ErrInvalidInput", err)
	}
}

func TestSummarizeCaching(t *testing.T) {
	s := testStats(t, nil)

	first, err := s.Summarize(RefDatum, false)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Summarize(RefDatum, false)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("identical summarize calls must reuse the cached record")
	}

	surface, err := s.Summarize(RefSurface, false)
	if err != nil {
		t.Fatal(err)
	}
	if surface == first {
		t.Error("reference level change must recompute the summary")
	}
	if surface.RefLevel != RefSurface {
		t.Errorf("reflevel = %q, want surface", surface.RefLevel)
	}

	// Surface values are the datum values in centimeters.
	checkStat(t, "ghg", surface.GHG.Mean, math.Round(first.GHG.Mean*100))
	checkStat(t, "glg", surface.GLG.Mean, math.Round(first.GLG.Mean*100))

	// Switching back recomputes again rather than serving the stale level.
	datum, err := s.Summarize(RefDatum, false)
	if err != nil {
		t.Fatal(err)
	}
	if datum.RefLevel != RefDatum {
		t.Errorf("reflevel = %q, want datum", datum.RefLevel)
	}
	checkStat(t, "ghg after switch", datum.GHG.Mean, first.GHG.Mean)
}

func TestSummarizeEmptyLevelWarns(t *testing.T) {
	s := testStats(t, nil)

	sum, err := s.Summarize("", false)
	if err != nil {
		t.Fatal(err)
	}
	if sum.RefLevel != RefDatum {
		t.Errorf("reflevel = %q, want datum", sum.RefLevel)
	}
	if len(s.Warnings()) == 0 {
		t.Error("expected a collected warning for the missing reference level")
	}
}

func TestAccessors(t *testing.T) {
	s := testStats(t, nil)

	ghg, err := s.GHG()
	if err != nil {
		t.Fatal(err)
	}
	glg, err := s.GLG()
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(ghg) || math.IsNaN(glg) {
		t.Fatalf("ghg/glg = %v/%v, want defined values", ghg, glg)
	}
	if ghg <= glg {
		t.Errorf("ghg %v should exceed glg %v for a seasonal series", ghg, glg)
	}

	gt, err := s.GroundwaterClass()
	if err != nil {
		t.Fatal(err)
	}
	if gt == "" {
		t.Error("groundwater class should be defined for this series")
	}
}

func TestApproximateSpringLevelFallback(t *testing.T) {
	s := testStats(t, nil)

	known, err := s.ApproximateSpringLevel(SLUIJS82)
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.ApproximateSpringLevel("NOSUCH")
	if err != nil {
		t.Fatal(err)
	}
	if got != known {
		t.Errorf("unknown formula = %v, want SLUIJS82 fallback %v", got, known)
	}
	if len(s.Warnings()) == 0 {
		t.Error("expected a collected warning for the unknown formula")
	}

	// Empty name selects the default without warning.
	before := len(s.Warnings())
	if _, err := s.ApproximateSpringLevel(""); err != nil {
		t.Fatal(err)
	}
	if len(s.Warnings()) != before {
		t.Error("empty formula name should not warn")
	}
}

func TestApproximateSpringLevelStrict(t *testing.T) {
	s := testStats(t, &Options{Strict: true})

	if _, err := s.ApproximateSpringLevel("NOSUCH"); !errors.Is(err, ErrUnknownFormula) {
		t.Errorf("error = %v, want ErrUnknownFormula", err)
	}
}

func TestVGRefDateValidation(t *testing.T) {
	s := testStats(t, &Options{VGRefDate: "jul1"})
	if len(s.Warnings()) == 0 {
		t.Error("expected a warning for the unrecognized reference date")
	}

	dates := CanonicalDates(date(2018, 4, 14), date(2019, 3, 28))
	values := make([]float64, len(dates))
	sr, err := series.New("test", dates, values)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := New(sr, math.NaN(), &Options{VGRefDate: "jul1", Strict: true}); !errors.Is(err, ErrUnknownReferenceDate) {
		t.Errorf("error = %v, want ErrUnknownReferenceDate", err)
	}
}

func TestSpringLevels(t *testing.T) {
	s := testStats(t, &Options{VGRefDate: VGApr1})

	levels, err := s.SpringLevels()
	if err != nil {
		t.Fatal(err)
	}
	// March 28 observations sit 4 days from April 1, inside the default
	// 7-day lag, so every year with a preceding March has a level.
	if len(levels) < 2 {
		t.Fatalf("got %d spring levels, want at least 2", len(levels))
	}
	for year, v := range levels {
		if math.IsNaN(v) {
			t.Errorf("year %d spring level is missing", year)
		}
	}
}

func TestNewFromSource(t *testing.T) {
	s := testStats(t, nil)
	src := &staticSource{heads: s.raw, name: "wrapped", surface: 2.5}

	wrapped, err := NewFromSource(src, nil)
	if err != nil {
		t.Fatal(err)
	}
	sum, err := wrapped.Summarize(RefDatum, false)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Series != "wrapped" {
		t.Errorf("series name = %q, want wrapped", sum.Series)
	}
}

type staticSource struct {
	heads   *series.Series
	name    string
	surface float64
}

func (s *staticSource) Heads() *series.Series { return s.heads }
func (s *staticSource) Name() string          { return s.name }
func (s *staticSource) Surface() float64      { return s.surface }

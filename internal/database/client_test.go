package database

import (
	"math"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/tdmeij/Acequia/pkg/gxg"
	"github.com/tdmeij/Acequia/pkg/series"
)

func testClient(t *testing.T) *Client {
	t.Helper()
	c, err := NewClient(filepath.Join(t.TempDir(), "gxg.db"), zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func testSummary(t *testing.T, name string) *gxg.Summary {
	t.Helper()
	records := []gxg.YearRecord{
		{
			Year: 2018, N1428: 20, HG3: 1.00, LG3: 0.20,
			HG3W: series.Missing(), LG3S: series.Missing(), VG3: series.Missing(),
			VGApr1: series.Missing(), VGApr15: series.Missing(), VGMar15: series.Missing(),
		},
	}
	s, _, err := gxg.Summarize(records, name, math.NaN(), gxg.RefDatum, false)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveAndGetSummary(t *testing.T) {
	c := testClient(t)
	s := testSummary(t, "B27A0001")

	if err := c.SaveSummary("run-1", s); err != nil {
		t.Fatal(err)
	}

	fields, err := c.GetSummary("B27A0001")
	if err != nil {
		t.Fatal(err)
	}
	if len(fields) != len(s.Fields()) {
		t.Fatalf("got %d stored fields, want %d", len(fields), len(s.Fields()))
	}

	byName := map[string]StoredField{}
	for _, f := range fields {
		byName[f.Name] = f
	}

	ghg := byName["ghg"]
	if !ghg.Value.Valid || ghg.Value.Float64 != 1.00 {
		t.Errorf("stored ghg = %+v, want 1.00", ghg.Value)
	}
	reflev := byName["reflev"]
	if !reflev.Text.Valid || reflev.Text.String != "datum" {
		t.Errorf("stored reflev = %+v, want datum", reflev.Text)
	}
	// A missing statistic persists as NULL.
	ghgw := byName["ghgw"]
	if ghgw.Value.Valid || ghgw.Text.Valid {
		t.Errorf("stored ghgw = %+v, want NULL", ghgw)
	}
}

func TestGetSummaryLatestRun(t *testing.T) {
	c := testClient(t)

	if err := c.SaveSummary("run-1", testSummary(t, "B27A0001")); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveSummary("run-2", testSummary(t, "B27A0001")); err != nil {
		t.Fatal(err)
	}

	fields, err := c.GetSummary("B27A0001")
	if err != nil {
		t.Fatal(err)
	}
	// Only the latest run's fields come back, not both runs concatenated.
	if want := len(testSummary(t, "B27A0001").Fields()); len(fields) != want {
		t.Errorf("got %d fields, want %d from the latest run only", len(fields), want)
	}
}

func TestGetSummaryUnknownSeries(t *testing.T) {
	c := testClient(t)

	fields, err := c.GetSummary("nope")
	if err != nil {
		t.Fatal(err)
	}
	if fields != nil {
		t.Errorf("got %v, want nil for unknown series", fields)
	}
}

func TestListSeries(t *testing.T) {
	c := testClient(t)

	if err := c.SaveSummary("run-1", testSummary(t, "B27A0002")); err != nil {
		t.Fatal(err)
	}
	if err := c.SaveSummary("run-1", testSummary(t, "B27A0001")); err != nil {
		t.Fatal(err)
	}

	names, err := c.ListSeries()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "B27A0001" || names[1] != "B27A0002" {
		t.Errorf("ListSeries() = %v, want sorted pair", names)
	}
}

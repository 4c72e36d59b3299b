package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/tdmeij/Acequia/internal/database"
	"github.com/tdmeij/Acequia/pkg/gxg"
	"github.com/tdmeij/Acequia/pkg/series"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()

	db, err := database.NewClient(filepath.Join(t.TempDir(), "gxg.db"), zap.NewNop().Sugar())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	records := []gxg.YearRecord{
		{
			Year: 2018, N1428: 20, HG3: 1.00, LG3: 0.20,
			HG3W: series.Missing(), LG3S: series.Missing(), VG3: series.Missing(),
			VGApr1: series.Missing(), VGApr15: series.Missing(), VGMar15: series.Missing(),
		},
	}
	summary, _, err := gxg.Summarize(records, "B27A0001", math.NaN(), gxg.RefDatum, false)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.SaveSummary("run-1", summary); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	ctrl := NewController(context.Background(), &wg, db, ":0", zap.NewNop().Sugar())
	return ctrl.setupRouter()
}

func TestGetHealth(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestGetSeries(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest("GET", "/api/series", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp["series"]) != 1 || resp["series"][0] != "B27A0001" {
		t.Errorf("series = %v, want [B27A0001]", resp["series"])
	}
}

func TestGetSummary(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest("GET", "/api/series/B27A0001/gxg", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Series string             `json:"series"`
		Values map[string]float64 `json:"values"`
		Labels map[string]string  `json:"labels"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Series != "B27A0001" {
		t.Errorf("series = %q, want B27A0001", resp.Series)
	}
	if resp.Values["ghg"] != 1.00 {
		t.Errorf("ghg = %v, want 1.00", resp.Values["ghg"])
	}
	if resp.Labels["reflev"] != "datum" {
		t.Errorf("reflev = %q, want datum", resp.Labels["reflev"])
	}
}

func TestGetSummaryNotFound(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest("GET", "/api/series/nope/gxg", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

// Command acequia computes GxG groundwater statistics for a configured
// collection of head series and prints them as a table, optionally storing
// every summary in the SQLite summary store.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"runtime"
	"sort"
	"sync"
	"text/tabwriter"

	"github.com/google/uuid"

	"github.com/tdmeij/Acequia/internal/database"
	"github.com/tdmeij/Acequia/internal/log"
	"github.com/tdmeij/Acequia/pkg/config"
	"github.com/tdmeij/Acequia/pkg/gxg"
	"github.com/tdmeij/Acequia/pkg/series"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

// result carries one series' outcome back from the worker pool
type result struct {
	index   int
	name    string
	summary *gxg.Summary
	err     error
}

func main() {
	cfgFile := flag.String("config", "acequia.yaml", "Path to YAML configuration file")
	refLevel := flag.String("reflev", "", "Reference level override: 'datum' or 'surface'")
	minimal := flag.Bool("minimal", false, "Report only the minimal statistic selection")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("acequia %s\n", version)
		os.Exit(0)
	}

	// Set up logging
	if err := log.Init(*debug); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Load configuration
	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Errorf("Failed to load configuration: %v", err)
		os.Exit(1)
	}

	if *refLevel != "" {
		cfg.Engine.RefLevel = *refLevel
	}
	if *minimal {
		cfg.Engine.Minimal = true
	}

	var store *database.Client
	if cfg.Storage.SQLite != "" {
		store, err = database.NewClient(cfg.Storage.SQLite, log.GetSugaredLogger())
		if err != nil {
			log.Errorf("Failed to open summary store: %v", err)
			os.Exit(1)
		}
		defer store.Close()
	}

	results := computeAll(cfg)

	runID := uuid.NewString()
	failures := 0
	for _, r := range results {
		if r.err != nil {
			log.Errorf("series %s: %v", r.name, r.err)
			failures++
			continue
		}
		printSummary(r.summary)
		if store != nil {
			if err := store.SaveSummary(runID, r.summary); err != nil {
				log.Errorf("series %s: storing summary: %v", r.name, err)
				failures++
			}
		}
	}
	if store != nil {
		log.Infof("run %s: stored %d summaries in %s", runID, len(results)-failures, cfg.Storage.SQLite)
	}

	if failures > 0 {
		os.Exit(1)
	}
}

// computeAll runs the GxG pipeline for every configured series. Each
// series is independent, so the work is spread over a bounded worker
// pool with one engine instance per series.
func computeAll(cfg *config.Config) []result {
	jobs := make(chan int)
	results := make([]result, len(cfg.Series))

	var wg sync.WaitGroup
	for w := 0; w < cfg.Engine.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = computeOne(cfg, i)
			}
		}()
	}

	for i := range cfg.Series {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	sort.SliceStable(results, func(i, j int) bool { return results[i].index < results[j].index })
	return results
}

func computeOne(cfg *config.Config, i int) result {
	sd := cfg.Series[i]
	res := result{index: i, name: sd.Name}

	sr, err := series.LoadCSV(sd.File, nil)
	if err != nil {
		res.err = fmt.Errorf("loading %s: %w", sd.File, err)
		return res
	}
	if sd.Name != "" {
		sr.Name = sd.Name
	}
	res.name = sr.Name

	surface := sd.Surface
	if surface == 0 && cfg.Engine.RefLevel != "surface" {
		surface = math.NaN()
	}

	stats, err := gxg.New(sr, surface, &gxg.Options{
		MaxLag:    cfg.Engine.MaxLag,
		VGRefDate: gxg.VGDate(cfg.Engine.VGRefDate),
		VGMaxLag:  cfg.Engine.VGMaxLag,
		Strict:    cfg.Engine.Strict,
		Logger:    log.GetSugaredLogger(),
	})
	if err != nil {
		res.err = err
		return res
	}

	res.summary, res.err = stats.Summarize(gxg.RefLevel(cfg.Engine.RefLevel), cfg.Engine.Minimal)
	return res
}

// printSummary writes one summary record as an aligned two-column table
func printSummary(s *gxg.Summary) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintf(w, "series\t%s\n", s.Series)
	for _, f := range s.Fields() {
		switch {
		case f.Text != "":
			fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Text)
		case math.IsNaN(f.Value):
			fmt.Fprintf(w, "%s\t-\n", f.Name)
		case s.RefLevel == gxg.RefSurface || f.Name == "n1428" || isCountField(f.Name):
			fmt.Fprintf(w, "%s\t%.0f\n", f.Name, f.Value)
		default:
			fmt.Fprintf(w, "%s\t%.2f\n", f.Name, f.Value)
		}
	}
	fmt.Fprintln(w)
	w.Flush()
}

func isCountField(name string) bool {
	return len(name) > 5 && name[len(name)-5:] == "_nyrs"
}

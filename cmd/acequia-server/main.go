// Command acequia-server serves stored GxG summaries over a read-only
// REST API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"

	"github.com/tdmeij/Acequia/internal/database"
	"github.com/tdmeij/Acequia/internal/log"
	"github.com/tdmeij/Acequia/internal/server"
	"github.com/tdmeij/Acequia/pkg/config"
)

const version = "1.0-" + runtime.GOOS + "/" + runtime.GOARCH

func main() {
	cfgFile := flag.String("config", "acequia.yaml", "Path to YAML configuration file")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("acequia-server %s\n", version)
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
	if cfg.Storage.SQLite == "" {
		log.Error("No summary store configured (storage.sqlite); nothing to serve")
		os.Exit(1)
	}

	db, err := database.NewClient(cfg.Storage.SQLite, log.GetSugaredLogger())
	if err != nil {
		log.Errorf("Failed to open summary store: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	ctrl := server.NewController(ctx, &wg, db, cfg.Server.ListenAddr, log.GetSugaredLogger())
	if err := ctrl.StartController(); err != nil {
		log.Errorf("Failed to start REST server: %v", err)
		os.Exit(1)
	}
	log.Infof("acequia-server listening on %s", cfg.Server.ListenAddr)

	<-ctx.Done()
	wg.Wait()
}

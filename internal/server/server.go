// Package server exposes stored GxG summaries over a small read-only REST
// API.
package server

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tdmeij/Acequia/internal/database"
	"github.com/tdmeij/Acequia/internal/log"
)

// Controller represents the REST server controller
type Controller struct {
	ctx    context.Context
	wg     *sync.WaitGroup
	db     *database.Client
	Server http.Server
	logger *zap.SugaredLogger
}

// NewController creates a new REST server controller backed by the summary
// store
func NewController(ctx context.Context, wg *sync.WaitGroup, db *database.Client, listenAddr string, logger *zap.SugaredLogger) *Controller {
	ctrl := &Controller{
		ctx:    ctx,
		wg:     wg,
		db:     db,
		logger: logger,
	}

	ctrl.Server.Addr = listenAddr
	ctrl.Server.Handler = handlers.CombinedLoggingHandler(os.Stdout, ctrl.setupRouter())
	return ctrl
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	h := NewHandlers(c)
	router.HandleFunc("/api/health", h.GetHealth).Methods("GET")
	router.HandleFunc("/api/series", h.GetSeries).Methods("GET")
	router.HandleFunc("/api/series/{series}/gxg", h.GetSummary).Methods("GET")

	return router
}

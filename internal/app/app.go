package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/smartspend/smartspend/internal/cache"
	"github.com/smartspend/smartspend/internal/config"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, the local cache, router, and server
// lifecycle.
type Application struct {
	cfg    config.Application
	cache  *cache.Store
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	cacheStore, err := cache.Open(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	deps, err := BuildDependencies(context.Background(), cacheStore, cfg)
	if err != nil {
		return nil, err
	}

	SetupMiddleware(r, deps, cfg)
	RegisterRoutes(r, deps, cfg)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Host,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, cache: cacheStore, deps: deps, router: r, srv: srv}, nil
}

// Run starts the coordinator and the HTTP server, blocks until a shutdown
// signal, then flushes unsaved state.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.deps.Coordinator.Start(ctx); err != nil {
		return err
	}

	// Generate this month's fixed expenses on startup. A failure is not
	// fatal: the check reruns on the next start or via the API.
	if created, err := a.deps.FixedExpenseEngine.RunMonthlyCheck(ctx); err != nil {
		log.Errorf("Monthly fixed-expense check failed: %v", err)
	} else if created > 0 {
		log.Infof("Startup check generated %d fixed expense(s)", created)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		if err := a.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		log.Infof("Received %s, shutting down", sig)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("HTTP server shutdown failed: %v", err)
	}
	if err := a.deps.Coordinator.Flush(shutdownCtx); err != nil {
		log.Errorf("Final sync failed, latest state remains in the local cache: %v", err)
	}
	if err := a.cache.Close(); err != nil {
		log.Errorf("Closing local cache failed: %v", err)
	}
	return nil
}

// Command soilapi serves soil survey lookups over HTTP, composing USDA Soil
// Data Access, SoilWeb, EDIT, and CropScape into farmer-facing summaries.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/cropscape"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/edit"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/httpapi"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/sda"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/adapter/soilweb"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/config"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/geo"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/observability"
	"github.com/jjmaynard/soil-conservation-planner-sub001/internal/series"
)

// alwaysReady serves as the readiness check when no local series table is
// configured; every lookup then goes straight to the upstream services.
type alwaysReady struct{}

func (alwaysReady) Ready() bool { return true }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	projector, err := geo.NewProjector()
	if err != nil {
		logger.Error("projection setup failed", "error", err)
		os.Exit(1)
	}

	store := series.NewStore()
	var ready httpapi.ReadinessChecker = alwaysReady{}
	if cfg.SeriesTable != "" {
		if err := store.LoadFile(cfg.SeriesTable, logger); err != nil {
			logger.Error("series table load failed", "path", cfg.SeriesTable, "error", err)
			os.Exit(1)
		}
		ready = store
	} else {
		logger.Info("no series table configured, serving series lookups live from SoilWeb")
	}

	soilWeb := soilweb.NewClient(cfg.SoilWebURL, cfg.UpstreamTimeout, metrics, logger)

	deps := httpapi.Deps{
		MapUnits: sda.NewClient(cfg.SDAURL, cfg.UpstreamTimeout, metrics, logger),
		Table:    store,
		Series:   soilWeb,
		Extents:  soilWeb,
		EcoSites: edit.NewCachedFetcher(
			edit.NewClient(cfg.EDITURL, cfg.UpstreamTimeout, metrics, logger),
			cfg.CacheSize, metrics),
		Crops:    cropscape.NewClient(cfg.CropScapeURL, cfg.UpstreamTimeout, projector, metrics, logger),
		CDLYears: cfg.CDLYears,
	}

	srv := httpapi.NewServer(cfg.HTTPAddr, deps, ready, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

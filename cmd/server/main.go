package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"iirelay/internal/platform/config"
	"iirelay/internal/platform/httpserver"
	"iirelay/internal/platform/logger"
	"iirelay/internal/platform/metrics"
	"iirelay/internal/platform/tracing"
	httptransport "iirelay/internal/transport/http"
)

// serviceName identifies the page service in exported traces.
const serviceName = "iirelay"

// main wires the relay page service: configuration, logging, metrics,
// tracing, the router and the server lifecycle.
func main() {
	if err := config.LoadDotEnv(); err != nil {
		config.Exitf("iirelay: %v", err)
	}
	cfg, err := config.FromEnv()
	if err != nil {
		config.Exitf("iirelay: %v", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, shutdownTracing, err := tracing.Setup(ctx, serviceName, cfg.Tracing)
	if err != nil {
		log.Error("failed to set up tracing", "error", err)
		stop()
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Error("failed to flush traces", "error", err)
		}
	}()
	if cfg.Tracing.Active() {
		log.Info("exporting traces", "endpoint", cfg.Tracing.Endpoint)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	page := httptransport.NewPageHandler(httptransport.PageOptions{
		MaxTimeToLive:    cfg.Login.MaxTimeToLive,
		DerivationOrigin: cfg.Login.DerivationOrigin,
		WindowFeatures:   cfg.Login.WindowFeatures,
		LogLevel:         cfg.LogLevel,
	}, log, m, tp)
	router := httptransport.NewRouter(page, httptransport.RouterConfig{
		AssetsDir:      cfg.AssetsDir,
		FrameAncestors: cfg.FrameAncestorsDirective(),
		Gatherer:       prometheus.DefaultGatherer,
	}, log, m)

	srv := httpserver.New(cfg.Addr, router)
	if err := httpserver.Run(ctx, srv, cfg.ShutdownTimeout, log); err != nil {
		log.Error("relay page service stopped", "error", err)
		_ = shutdownTracing(context.Background())
		stop()
		os.Exit(1)
	}
	log.Info("relay page service stopped")
}

// Package main is the entry point for the devsecboard dashboard server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"devsecboard/internal/config"
	"devsecboard/internal/controller"
	"devsecboard/internal/events"
	"devsecboard/internal/logger"
	"devsecboard/internal/observability"
	"devsecboard/internal/store/memory"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

// Set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	configPath := flag.String("config", "", "Path to config file (default: devsecboard.yaml in current directory)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "devsecboard: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing is only exported when a collector is configured.
	var opts controller.Options
	if cfg.OTELEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
			ServiceName:    cfg.ServiceName,
			ServiceVersion: version,
			CollectorAddr:  cfg.OTELEndpoint,
			SampleRatio:    cfg.TraceSampleRatio,
		})
		if err != nil {
			return fmt.Errorf("failed to init tracing: %w", err)
		}
		defer flush(log, "tracer", shutdownTracer)
		opts.Tracing = true
	}

	if cfg.MetricsEnabled {
		metricsHandler, shutdownMetrics, err := observability.InitMetrics()
		if err != nil {
			return fmt.Errorf("failed to init metrics: %w", err)
		}
		defer flush(log, "metrics", shutdownMetrics)
		opts.MetricsHandler = metricsHandler
		opts.Meter = otel.Meter(observability.MeterName)
	}

	hub := events.NewHub(log, events.WithAllowedOrigins(cfg.CORSAllowedOrigins))

	storeOpts := []memory.Option{memory.WithNotifier(hub)}
	if cfg.SeedEnabled {
		seed, err := memory.LoadSeed(cfg.SeedFile)
		if err != nil {
			return fmt.Errorf("failed to load seed data: %w", err)
		}
		storeOpts = append(storeOpts, memory.WithSeed(seed))
	}
	store := memory.New(storeOpts...)

	if opts.Meter != nil {
		err := observability.RegisterStoreGauges(opts.Meter, store.Stats, func(err error) {
			log.Warn("failed to read store stats", "error", err)
		})
		if err != nil {
			log.Warn("failed to register store gauges", "error", err)
		}
	}

	opts.LegacyRoutes = cfg.LegacyRoutes
	opts.CORSAllowedOrigins = cfg.CORSAllowedOrigins
	opts.RateLimit = cfg.RateLimit
	opts.RateLimitBurst = cfg.RateLimitBurst
	opts.ShutdownTimeout = cfg.ShutdownTimeout

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	srv, err := controller.New(addr, store, hub, log, opts)
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return hub.Run(gctx)
	})
	g.Go(func() error {
		log.Info("devsecboard starting",
			"addr", addr,
			"version", version,
			"seeded", cfg.SeedEnabled,
			"legacy_routes", cfg.LegacyRoutes,
		)
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	log.Info("devsecboard exited properly")
	return nil
}

func flush(log *slog.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("failed to shutdown "+name, "error", err)
	}
}

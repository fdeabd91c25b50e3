package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/glabrego/stackit-cli/internal/config"
	"github.com/glabrego/stackit-cli/internal/gateway"
	"github.com/glabrego/stackit-cli/internal/logger"
	"github.com/glabrego/stackit-cli/internal/metrics"
	"github.com/glabrego/stackit-cli/internal/pipeline"
	"github.com/glabrego/stackit-cli/internal/stackexchange"
	"github.com/glabrego/stackit-cli/internal/storage"
)

const startupTimeout = 15 * time.Second

// app holds the long-lived dependencies shared by every command.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	repo     *storage.Repository
	gateway  *gateway.Gateway
	recorder metrics.Recorder

	closers []func() error
}

type globalFlags struct {
	configPath string
	verbose    bool
}

func openApp(ctx context.Context, flags globalFlags) (*app, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	log, closeLog, err := logger.Open(cfg.LogPath, flags.verbose, level)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: log, closers: []func() error{closeLog}}

	repo, err := storage.NewRepository(cfg.DBPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	a.repo = repo
	a.closers = append(a.closers, repo.Close)

	initCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()
	if err := repo.Init(initCtx); err != nil {
		a.Close()
		return nil, fmt.Errorf("storage schema error: %w", err)
	}
	if err := repo.CheckWritable(initCtx); err != nil {
		a.Close()
		return nil, fmt.Errorf("storage write check failed (%v). Verify STACKIT_DB_PATH is writable: %s", err, cfg.DBPath)
	}

	client := stackexchange.NewClient(cfg.APIBaseURL, cfg.Site, cfg.APIKey, nil, cfg.RateLimit)
	a.gateway = gateway.New(client, cfg.PageSize)
	a.recorder = a.startMetrics()

	log.Info("stackit started", "site", cfg.Site, "db_path", cfg.DBPath, "page_size", cfg.PageSize)
	return a, nil
}

// startMetrics serves the Prometheus registry when an address is configured.
func (a *app) startMetrics() metrics.Recorder {
	if a.cfg.MetricsAddr == "" {
		return metrics.Nop{}
	}
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	recorder := metrics.NewCollector(reg)

	srv := &http.Server{
		Addr:              a.cfg.MetricsAddr,
		Handler:           metrics.Handler(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "addr", a.cfg.MetricsAddr, "error", err)
		}
	}()
	a.closers = append(a.closers, func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	})
	a.logger.Info("serving metrics", "addr", a.cfg.MetricsAddr)
	return recorder
}

func (a *app) pipelineOptions(ctx context.Context) pipeline.Options {
	return pipeline.Options{
		Context:   ctx,
		Logger:    a.logger,
		Recorder:  a.recorder,
		Favorites: a.repo,
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

package main

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/deepresearch/config"
	"github.com/mohammad-safakhou/deepresearch/internal/agent/core"
	"github.com/mohammad-safakhou/deepresearch/internal/agent/telemetry"
	"github.com/mohammad-safakhou/deepresearch/internal/runtime"
	"github.com/mohammad-safakhou/deepresearch/internal/tokenizer"
	"github.com/mohammad-safakhou/deepresearch/provider"
	"github.com/mohammad-safakhou/deepresearch/repository/redis_repository"
	"github.com/mohammad-safakhou/deepresearch/tools/search"
	"github.com/mohammad-safakhou/deepresearch/tools/web_fetch"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search"
	"github.com/mohammad-safakhou/deepresearch/tools/web_search/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "0.1.0"

// app is the process-wide dependency graph. One LLM client and one search
// gateway serve every run.
type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	orch     *core.Orchestrator
	closers  []func(context.Context) error
}

func newLogger(cfg config.GeneralConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.LogLevel != "" {
		lvl, err := zapcore.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("general.log_level: %w", err)
		}
		zc.Level = zap.NewAtomicLevelAt(lvl)
	}
	return zc.Build()
}

func buildApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.General)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := telemetry.NewMetrics(a.registry)

	tel, _, err := runtime.SetupTelemetry(ctx, cfg.Telemetry, runtime.TelemetryOptions{ServiceVersion: version})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, tel.Shutdown)

	llm, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}

	fetcher := web_fetch.NewWebFetcher(cfg.Search.FetchTimeout, cfg.Search.FetchConcurrency, logger.Named("fetch"))
	searcher, err := web_search.NewWebSearcher(cfg.Search, fetcher)
	if err != nil {
		return nil, fmt.Errorf("search provider: %w", err)
	}
	if cfg.Storage.Redis.Enabled {
		rdb, err := redis_repository.Conn(ctx, cfg.Storage.Redis, logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(context.Context) error { return rdb.Close() })
		searcher = cache.New(searcher, rdb, cfg.Search.Provider, cfg.Search.CacheTTL, logger.Named("search_cache"))
	}

	tok, err := tokenizer.New(cfg.Report.TokenizerModel)
	if err != nil {
		return nil, err
	}
	gateway := search.NewGateway(searcher, tok, search.Options{
		Provider: cfg.Search.Provider,
		Depth:    cfg.Search.Depth,
		Logger:   logger.Named("search"),
		Metrics:  metrics,
	})

	streamLevel := zapcore.InfoLevel
	if cfg.General.Debug {
		streamLevel = zapcore.DebugLevel
	}
	a.orch, err = core.NewOrchestrator(core.Deps{
		LLM:                   llm,
		Search:                gateway,
		Logger:                logger.Named("orch"),
		Metrics:               metrics,
		Report:                cfg.Report,
		MaxConcurrentBranches: cfg.Agents.MaxConcurrentBranches,
		StreamLevel:           streamLevel,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (a *app) Close(ctx context.Context) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.logger.Warn("shutdown", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

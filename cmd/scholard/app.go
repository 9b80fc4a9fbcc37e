package main

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/catalog"
	"github.com/fyrsmithlabs/scholard/internal/config"
	"github.com/fyrsmithlabs/scholard/internal/logging"
	"github.com/fyrsmithlabs/scholard/internal/services"
	"github.com/fyrsmithlabs/scholard/internal/telemetry"
)

// app holds everything both serving modes share.
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	tel     *telemetry.Telemetry
	runtime *services.Runtime
	// watcher is nil unless catalog.watch is set with a catalog path.
	watcher *catalog.Watcher
}

// newApp loads configuration, then starts telemetry, logging and services
// in that order. MCP mode logs to stderr since stdout carries the protocol.
func newApp(ctx context.Context, configPath string, logToStderr bool) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	tel, err := telemetry.New(ctx, telemetry.FromObservability(cfg.Observability, version))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	if tel.IsEnabled() {
		tel.SetLoggerProvider(global.GetLoggerProvider())
	}

	logger, err := newLogger(cfg.Observability, tel, logToStderr)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}
	ctx = logging.WithLogger(ctx, logger)

	a := &app{cfg: cfg, logger: logger, tel: tel}

	var cat *catalog.Catalog
	if cfg.Catalog.Watch && cfg.Catalog.Path != "" {
		if a.watcher, err = catalog.NewWatcher(cfg.Catalog.Path, catalog.DefaultDebounce); err != nil {
			_ = tel.Shutdown(ctx)
			return nil, fmt.Errorf("failed to watch catalog: %w", err)
		}
		cat = a.watcher.Current()
	} else if cat, err = catalog.Load(cfg.Catalog.Path); err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if a.runtime, err = services.Build(ctx, cfg, cat); err != nil {
		_ = tel.Shutdown(ctx)
		return nil, fmt.Errorf("failed to build services: %w", err)
	}
	if a.watcher != nil {
		a.watcher.OnReload(func(c *catalog.Catalog) {
			if err := services.ApplyCatalog(ctx, a.runtime, c); err != nil {
				logger.Warn(ctx, "failed to apply reloaded catalog", zap.Error(err))
			}
		})
	}

	logger.Info(ctx, "scholard configured",
		zap.String("version", version),
		zap.String("store", cfg.Store.Driver),
		zap.Bool("simulate_latency", cfg.Latency.Simulate),
		zap.Bool("telemetry", tel.IsEnabled()),
		zap.String("catalog", catalogLabel(cfg.Catalog)),
		logging.Secret("auth_token", cfg.Server.AuthToken),
	)
	return a, nil
}

func newLogger(o config.ObservabilityConfig, tel *telemetry.Telemetry, logToStderr bool) (*logging.Logger, error) {
	logCfg := logging.NewDefaultConfig()
	level, err := logging.LevelFromString(o.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	logCfg.Level = level
	logCfg.Format = o.LogFormat
	if logToStderr {
		logCfg.Output.Stdout = false
		logCfg.Output.Stderr = true
	}
	logCfg.Output.OTEL = tel.LoggerProvider() != nil
	if o.ServiceName != "" {
		logCfg.Fields["service"] = o.ServiceName
	}

	logger, err := logging.NewLogger(logCfg, tel.LoggerProvider())
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

func catalogLabel(c config.CatalogConfig) string {
	if c.Path == "" {
		return "built-in"
	}
	return c.Path
}

// withLogger returns ctx carrying the app logger.
func (a *app) withLogger(ctx context.Context) context.Context {
	return logging.WithLogger(ctx, a.logger)
}

// close releases services and flushes telemetry.
func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.runtime != nil {
		if err := a.runtime.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := a.tel.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("telemetry shutdown: %w", err))
	}
	_ = a.logger.Sync()
	return errors.Join(errs...)
}

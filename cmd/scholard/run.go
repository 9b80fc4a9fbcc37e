package main

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/fyrsmithlabs/scholard/internal/http"
	"github.com/fyrsmithlabs/scholard/internal/mcp"
)

// runServe runs the HTTP API and, when enabled, the catalog watcher until
// ctx is cancelled.
func runServe(ctx context.Context, configPath string) error {
	a, err := newApp(ctx, configPath, false)
	if err != nil {
		return err
	}
	ctx = a.withLogger(ctx)
	defer func() {
		if err := a.close(context.WithoutCancel(ctx)); err != nil {
			a.logger.Warn(ctx, "shutdown completed with errors", zap.Error(err))
		}
	}()

	srvCfg := httpapi.ConfigFrom(a.cfg.Server, version)
	srvCfg.Health = a.tel.Health
	server, err := httpapi.NewServer(a.runtime, a.logger, srvCfg)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), a.cfg.Server.ShutdownTimeout.Duration())
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	if a.watcher != nil {
		g.Go(func() error {
			return a.watcher.Run(gctx)
		})
	}

	err = g.Wait()
	a.logger.Info(ctx, "scholard stopped")
	return err
}

// runMCP serves MCP tools on stdio until the client disconnects or ctx is
// cancelled.
func runMCP(ctx context.Context, configPath string) error {
	a, err := newApp(ctx, configPath, true)
	if err != nil {
		return err
	}
	ctx = a.withLogger(ctx)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := a.close(closeCtx); err != nil {
			a.logger.Warn(ctx, "shutdown completed with errors", zap.Error(err))
		}
	}()

	server, err := mcp.NewServer(&mcp.Config{
		Name:    "scholard",
		Version: version,
		Logger:  a.logger,
	}, a.runtime)
	if err != nil {
		return err
	}

	// A client disconnect ends the session and stops the watcher too.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return server.Run(gctx)
	})
	if a.watcher != nil {
		g.Go(func() error {
			return a.watcher.Run(gctx)
		})
	}
	return g.Wait()
}

// Package http provides the scholard REST API.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/config"
	"github.com/fyrsmithlabs/scholard/internal/logging"
	"github.com/fyrsmithlabs/scholard/internal/services"
	"github.com/fyrsmithlabs/scholard/internal/telemetry"
)

// Server provides the HTTP endpoints for scholard.
type Server struct {
	echo     *echo.Echo
	registry services.Registry
	logger   *logging.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host      string
	Port      int
	RateLimit float64
	RateBurst int
	AuthToken config.Secret
	// BodyLimit caps request bodies, in echo size notation.
	BodyLimit string
	Version   string
	// Health reports telemetry state for GET /health. Nil reports healthy.
	Health func() telemetry.HealthStatus
}

// ConfigFrom builds a server Config from the loaded configuration.
func ConfigFrom(s config.ServerConfig, version string) *Config {
	return &Config{
		Host:      s.Host,
		Port:      s.Port,
		RateLimit: s.RateLimit,
		RateBurst: s.RateBurst,
		AuthToken: s.AuthToken,
		Version:   version,
	}
}

// NewServer creates a new HTTP server.
func NewServer(reg services.Registry, logger *logging.Logger, cfg *Config) (*Server, error) {
	if reg == nil {
		return nil, errors.New("service registry cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "127.0.0.1", Port: 8085}
	}
	if cfg.BodyLimit == "" {
		cfg.BodyLimit = "1M"
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())
	e.Use(requestLogger(logger))
	e.Use(requestContext(logger))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))

	s := &Server{
		echo:     e,
		registry: reg,
		logger:   logger,
		config:   cfg,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")
	if s.config.RateLimit > 0 {
		v1.Use(rateLimiter(s.config.RateLimit, s.config.RateBurst))
	}
	if s.config.AuthToken.IsSet() {
		v1.Use(bearerAuth(s.config.AuthToken))
	}

	notes := v1.Group("/notes")
	notes.POST("/flashcards", s.handleFlashcards)
	notes.POST("/flowchart", s.handleFlowchart)
	notes.POST("/simplify", s.handleSimplify)
	notes.POST("/concepts", s.handleConcepts)

	v1.POST("/citations/search", s.handleCitationSearch)
	v1.POST("/citations/format", s.handleCitationFormat)

	v1.GET("/researchers", s.handleListResearchers)
	v1.POST("/researchers", s.handleAddResearcher)
	v1.POST("/researchers/search", s.handleResearcherSearch)
	v1.GET("/researchers/:id", s.handleGetResearcher)
	v1.GET("/researchers/:id/notifications", s.handleNotifications)
	v1.POST("/researchers/:id/notifications/:nid/read", s.handleMarkRead)

	v1.POST("/connections", s.handleSendConnection)
	v1.POST("/connections/:id/respond", s.handleRespondConnection)
	v1.GET("/connections/:researcher", s.handleConnections)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server. It returns nil after Shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}

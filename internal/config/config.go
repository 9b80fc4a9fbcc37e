// Package config loads scholard configuration from a YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the complete scholard configuration.
type Config struct {
	Server        ServerConfig        `koanf:"server"`
	Latency       LatencyConfig       `koanf:"latency"`
	Store         StoreConfig         `koanf:"store"`
	Catalog       CatalogConfig       `koanf:"catalog"`
	Matcher       MatcherConfig       `koanf:"matcher"`
	Observability ObservabilityConfig `koanf:"observability"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"http_host"`
	Port            int      `koanf:"http_port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
	// RateLimit is the sustained requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit"`
	RateBurst int     `koanf:"rate_burst"`
	// AuthToken, when set, is required as a bearer token on /api routes.
	AuthToken Secret `koanf:"auth_token"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LatencyConfig controls the artificial delay in front of engine calls.
type LatencyConfig struct {
	Simulate   bool     `koanf:"simulate"`
	Citation   Duration `koanf:"citation_delay"`
	Researcher Duration `koanf:"researcher_delay"`
	Transform  Duration `koanf:"transform_delay"`
}

// For returns the delay to apply, or zero when simulation is off.
func (l LatencyConfig) For(d Duration) time.Duration {
	if !l.Simulate {
		return 0
	}
	return d.Duration()
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
}

// CatalogConfig locates the seed catalog.
type CatalogConfig struct {
	// Path is a TOML catalog file. Empty uses the built-in catalog.
	Path  string `koanf:"path"`
	Watch bool   `koanf:"watch"`
}

// MatcherConfig overrides preset thresholds. Zero keeps the preset value.
type MatcherConfig struct {
	CitationThreshold   int `koanf:"citation_threshold"`
	ResearcherThreshold int `koanf:"researcher_threshold"`
}

// ObservabilityConfig holds logging and OpenTelemetry settings.
type ObservabilityConfig struct {
	LogLevel        string  `koanf:"log_level"`
	LogFormat       string  `koanf:"log_format"`
	EnableTelemetry bool    `koanf:"enable_telemetry"`
	ServiceName     string  `koanf:"service_name"`
	OTLPEndpoint    string  `koanf:"otlp_endpoint"`
	OTLPProtocol    string  `koanf:"otlp_protocol"`
	OTLPInsecure    bool    `koanf:"otlp_insecure"`
	SampleRate      float64 `koanf:"sample_rate"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown timeout must be positive"))
	}
	if c.Server.RateLimit < 0 {
		errs = append(errs, errors.New("rate limit cannot be negative"))
	}
	if c.Server.RateLimit > 0 && c.Server.RateBurst < 1 {
		errs = append(errs, errors.New("rate burst must be at least 1 when rate limiting"))
	}

	switch c.Store.Driver {
	case "memory":
	case "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, errors.New("store path required for sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q (memory or sqlite)", c.Store.Driver))
	}

	if c.Catalog.Watch && c.Catalog.Path == "" {
		errs = append(errs, errors.New("catalog watch requires catalog path"))
	}
	if c.Matcher.CitationThreshold < 0 || c.Matcher.CitationThreshold > 100 {
		errs = append(errs, fmt.Errorf("citation threshold %d out of range 0-100", c.Matcher.CitationThreshold))
	}
	if c.Matcher.ResearcherThreshold < 0 || c.Matcher.ResearcherThreshold > 100 {
		errs = append(errs, fmt.Errorf("researcher threshold %d out of range 0-100", c.Matcher.ResearcherThreshold))
	}

	if c.Observability.EnableTelemetry && c.Observability.ServiceName == "" {
		errs = append(errs, errors.New("service name required when telemetry is enabled"))
	}
	switch c.Observability.OTLPProtocol {
	case "grpc", "http/protobuf":
	default:
		errs = append(errs, fmt.Errorf("unknown otlp protocol %q", c.Observability.OTLPProtocol))
	}

	return errors.Join(errs...)
}

// Package store provides local-storage style persistence: string keys,
// JSON values, synchronous reads and writes, no transactions.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get and Delete for a missing key.
	ErrNotFound = errors.New("store: key not found")

	// ErrUnknownDriver is returned by Open for an unsupported driver name.
	ErrUnknownDriver = errors.New("store: unknown driver")
)

// Store is a string-keyed JSON value store.
type Store interface {
	// Get decodes the value stored at key into dst.
	Get(ctx context.Context, key string, dst any) error

	// Set encodes value as JSON and stores it at key, replacing any previous value.
	Set(ctx context.Context, key string, value any) error

	// Delete removes key.
	Delete(ctx context.Context, key string) error

	// Keys returns every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config selects and configures a Store implementation.
type Config struct {
	Driver string `koanf:"driver"`
	Path   string `koanf:"path"`
}

// Validate checks the store configuration.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Driver) {
	case DriverMemory, "":
		return nil
	case DriverSQLite:
		if c.Path == "" {
			return errors.New("store.path is required for the sqlite driver")
		}
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Driver)
	}
}

// Open creates the Store named by cfg.Driver.
func Open(cfg Config) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch strings.ToLower(cfg.Driver) {
	case DriverSQLite:
		return OpenSQLite(cfg.Path)
	default:
		return NewMemoryStore(), nil
	}
}

// List loads every value under prefix into a slice of T, in key order.
func List[T any](ctx context.Context, s Store, prefix string) ([]T, error) {
	keys, err := s.Keys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list keys %q: %w", prefix, err)
	}
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		var v T
		if err := s.Get(ctx, k, &v); err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("get %q: %w", k, err)
		}
		out = append(out, v)
	}
	return out, nil
}

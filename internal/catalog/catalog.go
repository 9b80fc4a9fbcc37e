// Package catalog loads the paper and researcher seed data that backs
// citation search and the researcher directory.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/fyrsmithlabs/scholard/internal/citation"
	"github.com/fyrsmithlabs/scholard/internal/researcher"
)

// ErrInvalidCatalog is returned when a catalog fails to parse or validate.
var ErrInvalidCatalog = errors.New("invalid catalog")

//go:embed default.toml
var defaultCatalog []byte

// Catalog is a snapshot of seed data.
type Catalog struct {
	Papers      []citation.Paper        `toml:"papers"`
	Researchers []researcher.Researcher `toml:"researchers"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file. An empty path loads the built-in catalog.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates TOML catalog data.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidCatalog, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks IDs are present and unique and required text is set.
func (c *Catalog) Validate() error {
	var errs []error

	seen := make(map[string]bool, len(c.Papers))
	for i, p := range c.Papers {
		switch {
		case p.ID == "":
			errs = append(errs, fmt.Errorf("papers[%d]: missing id", i))
		case seen[p.ID]:
			errs = append(errs, fmt.Errorf("papers[%d]: duplicate id %q", i, p.ID))
		}
		seen[p.ID] = true
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("papers[%d]: missing title", i))
		}
		if p.Type != "" && !citation.ValidType(p.Type) {
			errs = append(errs, fmt.Errorf("papers[%d]: unknown type %q", i, p.Type))
		}
	}

	seen = make(map[string]bool, len(c.Researchers))
	for i, r := range c.Researchers {
		switch {
		case r.ID == "":
			errs = append(errs, fmt.Errorf("researchers[%d]: missing id", i))
		case seen[r.ID]:
			errs = append(errs, fmt.Errorf("researchers[%d]: duplicate id %q", i, r.ID))
		}
		seen[r.ID] = true
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("researchers[%d]: %w", i, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidCatalog}, errs...)...)
	}
	return nil
}

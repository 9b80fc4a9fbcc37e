package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/catalog"
	"github.com/fyrsmithlabs/scholard/internal/citation"
	"github.com/fyrsmithlabs/scholard/internal/config"
	"github.com/fyrsmithlabs/scholard/internal/dispatch"
	"github.com/fyrsmithlabs/scholard/internal/logging"
	"github.com/fyrsmithlabs/scholard/internal/matcher"
	"github.com/fyrsmithlabs/scholard/internal/researcher"
	"github.com/fyrsmithlabs/scholard/internal/store"
	"github.com/fyrsmithlabs/scholard/internal/textproc"
)

// Registry provides access to all scholard services.
type Registry interface {
	Transform() *textproc.Service
	Citations() *citation.Service
	Researchers() *researcher.Directory
	Store() store.Store
}

// Options configures the registry with service instances.
type Options struct {
	Transform   *textproc.Service
	Citations   *citation.Service
	Researchers *researcher.Directory
	Store       store.Store
}

type registry struct {
	transform   *textproc.Service
	citations   *citation.Service
	researchers *researcher.Directory
	store       store.Store
}

// NewRegistry creates a new service registry.
func NewRegistry(opts Options) Registry {
	return &registry{
		transform:   opts.Transform,
		citations:   opts.Citations,
		researchers: opts.Researchers,
		store:       opts.Store,
	}
}

func (r *registry) Transform() *textproc.Service        { return r.transform }
func (r *registry) Citations() *citation.Service        { return r.citations }
func (r *registry) Researchers() *researcher.Directory { return r.researchers }
func (r *registry) Store() store.Store                  { return r.store }

// Runtime is a Registry built from configuration. Close releases the
// runners and the store.
type Runtime struct {
	Registry
	runners []*dispatch.Runner
}

// Build constructs every service from cfg and seeds them from cat.
func Build(ctx context.Context, cfg *config.Config, cat *catalog.Catalog) (*Runtime, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if cat == nil {
		var err error
		if cat, err = catalog.Default(); err != nil {
			return nil, err
		}
	}

	st, err := store.Open(store.Config{Driver: cfg.Store.Driver, Path: cfg.Store.Path})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	transformRunner := dispatch.NewRunner(cfg.Latency.For(cfg.Latency.Transform))
	citationRunner := dispatch.NewRunner(cfg.Latency.For(cfg.Latency.Citation))
	researcherRunner := dispatch.NewRunner(cfg.Latency.For(cfg.Latency.Researcher))
	rt := &Runtime{runners: []*dispatch.Runner{transformRunner, citationRunner, researcherRunner}}

	fail := func(err error) (*Runtime, error) {
		rt.closeRunners()
		_ = st.Close()
		return nil, err
	}

	transform, err := textproc.NewService(nil, transformRunner)
	if err != nil {
		return fail(fmt.Errorf("failed to create transform service: %w", err))
	}

	citationCfg := matcher.CitationConfig()
	if cfg.Matcher.CitationThreshold > 0 {
		citationCfg.Threshold = cfg.Matcher.CitationThreshold
	}
	citations, err := citation.NewService(citation.Options{
		Matcher: &citationCfg,
		Papers:  cat.Papers,
		Runner:  citationRunner,
		Store:   st,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create citation service: %w", err))
	}

	researcherCfg := matcher.ResearcherConfig()
	if cfg.Matcher.ResearcherThreshold > 0 {
		researcherCfg.Threshold = cfg.Matcher.ResearcherThreshold
	}
	directory, err := researcher.NewDirectory(researcher.Options{
		Store:   st,
		Matcher: &researcherCfg,
		Runner:  researcherRunner,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to create researcher directory: %w", err))
	}

	rt.Registry = NewRegistry(Options{
		Transform:   transform,
		Citations:   citations,
		Researchers: directory,
		Store:       st,
	})

	if err := ApplyCatalog(ctx, rt, cat); err != nil {
		return fail(err)
	}
	return rt, nil
}

// ApplyCatalog swaps the citation catalog and adds researchers not yet in
// the directory.
func ApplyCatalog(ctx context.Context, reg Registry, cat *catalog.Catalog) error {
	reg.Citations().SetPapers(cat.Papers)
	added, err := reg.Researchers().Seed(ctx, cat.Researchers)
	if err != nil {
		return fmt.Errorf("failed to seed researchers: %w", err)
	}
	logging.FromContext(ctx).Info(ctx, "catalog applied",
		zap.Int("papers", len(cat.Papers)),
		zap.Int("researchers_added", added),
	)
	return nil
}

// Close stops the dispatch runners and closes the store.
func (r *Runtime) Close() error {
	errs := r.closeRunners()
	if r.Registry != nil && r.Store() != nil {
		if err := r.Store().Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close store: %w", err))
		}
	}
	return errors.Join(errs...)
}

func (r *Runtime) closeRunners() []error {
	var errs []error
	for _, runner := range r.runners {
		if err := runner.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

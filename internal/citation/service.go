package citation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/dispatch"
	"github.com/fyrsmithlabs/scholard/internal/logging"
	"github.com/fyrsmithlabs/scholard/internal/matcher"
	"github.com/fyrsmithlabs/scholard/internal/store"
	"github.com/fyrsmithlabs/scholard/internal/textproc"
)

const tracerName = "github.com/fyrsmithlabs/scholard/internal/citation"
const meterName = "citation"

const (
	savedPrefix       = "citation/saved/"
	recentSearchesKey = "citation/recent"
	maxRecentSearches = 10
)

// ErrPaperNotFound is returned when an ID is not in the catalog.
var ErrPaperNotFound = errors.New("paper not found")

// Service searches the paper catalog.
type Service struct {
	matcher *matcher.Matcher
	runner  *dispatch.Runner
	store   store.Store
	papers  atomic.Pointer[[]Paper]

	tracer        trace.Tracer
	searchCounter metric.Int64Counter
}

// Options configures a Service.
type Options struct {
	// Matcher defaults to matcher.CitationConfig().
	Matcher *matcher.Config
	Papers  []Paper
	Runner  *dispatch.Runner
	// Store keeps saved citations and recent searches; nil disables both.
	Store store.Store
}

// NewService creates a citation Service.
func NewService(opts Options) (*Service, error) {
	cfg := matcher.CitationConfig()
	if opts.Matcher != nil {
		cfg = *opts.Matcher
	}

	s := &Service{
		matcher: matcher.New(cfg),
		runner:  opts.Runner,
		store:   opts.Store,
		tracer:  otel.Tracer(tracerName),
	}
	s.SetPapers(opts.Papers)

	var err error
	s.searchCounter, err = otel.Meter(meterName).Int64Counter(
		"citation.searches_total",
		metric.WithDescription("Total number of citation searches"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create search counter: %w", err)
	}
	return s, nil
}

// SetPapers atomically replaces the catalog searched by the service.
func (s *Service) SetPapers(papers []Paper) {
	cp := make([]Paper, len(papers))
	copy(cp, papers)
	s.papers.Store(&cp)
}

// Papers returns the current catalog.
func (s *Service) Papers() []Paper {
	if p := s.papers.Load(); p != nil {
		return *p
	}
	return nil
}

// Get returns the paper with the given ID.
func (s *Service) Get(id string) (Paper, error) {
	for _, p := range s.Papers() {
		if p.ID == id {
			return p, nil
		}
	}
	return Paper{}, fmt.Errorf("%w: %s", ErrPaperNotFound, id)
}

// Search ranks the catalog against query.
func (s *Service) Search(ctx context.Context, query string) ([]Match, error) {
	ctx, span := s.tracer.Start(ctx, "matcher.search",
		trace.WithAttributes(
			attribute.String("preset", s.matcher.Config().Name),
			attribute.Int("query_length", len(query)),
		),
	)
	defer span.End()

	start := time.Now()
	query = textproc.Normalize(query)
	papers := s.Papers()
	candidates := make([]matcher.Candidate, len(papers))
	for i, p := range papers {
		candidates[i] = p.Candidate()
	}

	results, err := dispatch.Do(ctx, s.runner, "citations", func() []matcher.Result {
		return s.matcher.Search(query, candidates)
	})
	if err != nil {
		span.RecordError(err)
		matcher.ObserveSearch(s.matcher.Config().Name, -1, time.Since(start))
		return nil, fmt.Errorf("citation search: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, r := range results {
		matches = append(matches, Match{
			Paper:            r.Candidate.Payload.(Paper),
			MatchPercentage:  r.Score,
			MatchingKeywords: r.MatchingKeywords,
		})
	}

	matcher.ObserveSearch(s.matcher.Config().Name, len(matches), time.Since(start))
	s.searchCounter.Add(ctx, 1)
	span.SetAttributes(attribute.Int("results", len(matches)))
	logging.FromContext(ctx).Debug(ctx, "citation search completed",
		zap.Int("results", len(matches)),
		zap.Duration("duration", time.Since(start)),
	)

	if err := s.recordSearch(ctx, query); err != nil {
		logging.FromContext(ctx).Warn(ctx, "failed to record recent search", zap.Error(err))
	}
	return matches, nil
}

// Format renders the paper with the given ID in style.
func (s *Service) Format(ctx context.Context, id string, style Style) (string, error) {
	p, err := s.Get(id)
	if err != nil {
		return "", err
	}
	return Format(p, style), nil
}

// Save bookmarks a paper.
func (s *Service) Save(ctx context.Context, id string) (Paper, error) {
	p, err := s.Get(id)
	if err != nil {
		return Paper{}, err
	}
	if s.store == nil {
		return p, nil
	}
	if err := s.store.Set(ctx, savedPrefix+p.ID, p); err != nil {
		return Paper{}, fmt.Errorf("save citation: %w", err)
	}
	return p, nil
}

// Saved returns the bookmarked papers.
func (s *Service) Saved(ctx context.Context) ([]Paper, error) {
	if s.store == nil {
		return []Paper{}, nil
	}
	return store.List[Paper](ctx, s.store, savedPrefix)
}

// Unsave removes a bookmark.
func (s *Service) Unsave(ctx context.Context, id string) error {
	if s.store == nil {
		return nil
	}
	return s.store.Delete(ctx, savedPrefix+id)
}

// RecentSearches returns the latest queries, newest first.
func (s *Service) RecentSearches(ctx context.Context) ([]string, error) {
	recent := []string{}
	if s.store == nil {
		return recent, nil
	}
	if err := s.store.Get(ctx, recentSearchesKey, &recent); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	return recent, nil
}

func (s *Service) recordSearch(ctx context.Context, query string) error {
	if s.store == nil || strings.TrimSpace(query) == "" {
		return nil
	}
	recent, err := s.RecentSearches(ctx)
	if err != nil {
		return err
	}
	next := []string{query}
	for _, q := range recent {
		if q != query && len(next) < maxRecentSearches {
			next = append(next, q)
		}
	}
	return s.store.Set(ctx, recentSearchesKey, next)
}

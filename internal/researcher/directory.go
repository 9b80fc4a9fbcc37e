package researcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/dispatch"
	"github.com/fyrsmithlabs/scholard/internal/logging"
	"github.com/fyrsmithlabs/scholard/internal/matcher"
	"github.com/fyrsmithlabs/scholard/internal/store"
	"github.com/fyrsmithlabs/scholard/internal/textproc"
)

const tracerName = "github.com/fyrsmithlabs/scholard/internal/researcher"

const (
	researcherPrefix = "researcher/"
	profileKey       = "profile/self"
)

// Directory is the store-backed researcher directory.
type Directory struct {
	store   store.Store
	matcher *matcher.Matcher
	runner  *dispatch.Runner
	now     func() time.Time
	tracer  trace.Tracer
}

// Options configures a Directory.
type Options struct {
	Store store.Store
	// Matcher defaults to matcher.ResearcherConfig().
	Matcher *matcher.Config
	Runner  *dispatch.Runner
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewDirectory creates a Directory.
func NewDirectory(opts Options) (*Directory, error) {
	if opts.Store == nil {
		return nil, errors.New("researcher directory requires a store")
	}
	cfg := matcher.ResearcherConfig()
	if opts.Matcher != nil {
		cfg = *opts.Matcher
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Directory{
		store:   opts.Store,
		matcher: matcher.New(cfg),
		runner:  opts.Runner,
		now:     now,
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Add stores a new researcher, assigning an ID, profile URL and date when missing.
func (d *Directory) Add(ctx context.Context, r Researcher) (Researcher, error) {
	if err := r.Validate(); err != nil {
		return Researcher{}, err
	}
	if r.ID == "" {
		r.ID = "researcher-" + uuid.NewString()
	}
	if r.ProfileURL == "" {
		r.ProfileURL = profileURL(r.Name)
	}
	if r.DateAdded.IsZero() {
		r.DateAdded = d.now().UTC()
	}
	if r.Keywords == nil {
		r.Keywords = []string{}
	}
	if err := d.store.Set(ctx, researcherPrefix+r.ID, r); err != nil {
		return Researcher{}, fmt.Errorf("add researcher: %w", err)
	}
	logging.FromContext(ctx).Info(ctx, "researcher added",
		zap.String("researcher_id", r.ID),
		zap.String("field", r.Field),
	)
	return r, nil
}

// Seed adds every researcher whose ID is not yet in the directory and
// returns how many were added.
func (d *Directory) Seed(ctx context.Context, researchers []Researcher) (int, error) {
	added := 0
	for _, r := range researchers {
		if r.ID != "" {
			if _, err := d.Get(ctx, r.ID); err == nil {
				continue
			} else if !errors.Is(err, ErrNotFound) {
				return added, err
			}
		}
		if _, err := d.Add(ctx, r); err != nil {
			return added, fmt.Errorf("seed %q: %w", r.ID, err)
		}
		added++
	}
	return added, nil
}

// Get returns the researcher with the given ID.
func (d *Directory) Get(ctx context.Context, id string) (Researcher, error) {
	var r Researcher
	if err := d.store.Get(ctx, researcherPrefix+id, &r); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Researcher{}, fmt.Errorf("researcher %s: %w", id, ErrNotFound)
		}
		return Researcher{}, err
	}
	return r, nil
}

// Remove deletes a researcher from the directory.
func (d *Directory) Remove(ctx context.Context, id string) error {
	if err := d.store.Delete(ctx, researcherPrefix+id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("researcher %s: %w", id, ErrNotFound)
		}
		return err
	}
	return nil
}

// List returns every researcher, oldest first.
func (d *Directory) List(ctx context.Context) ([]Researcher, error) {
	rs, err := store.List[Researcher](ctx, d.store, researcherPrefix)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rs, func(i, j int) bool {
		if !rs[i].DateAdded.Equal(rs[j].DateAdded) {
			return rs[i].DateAdded.Before(rs[j].DateAdded)
		}
		return rs[i].ID < rs[j].ID
	})
	return rs, nil
}

// Search matches the directory against an interest query.
func (d *Directory) Search(ctx context.Context, query string) ([]Match, error) {
	ctx, span := d.tracer.Start(ctx, "matcher.search",
		trace.WithAttributes(
			attribute.String("preset", d.matcher.Config().Name),
			attribute.Int("query_length", len(query)),
		),
	)
	defer span.End()

	start := time.Now()
	preset := d.matcher.Config().Name

	rs, err := d.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	candidates := make([]matcher.Candidate, len(rs))
	for i, r := range rs {
		candidates[i] = r.Candidate()
	}

	query = textproc.Normalize(query)
	results, err := dispatch.Do(ctx, d.runner, "researchers", func() []matcher.Result {
		return d.matcher.Search(query, candidates)
	})
	if err != nil {
		span.RecordError(err)
		matcher.ObserveSearch(preset, -1, time.Since(start))
		return nil, fmt.Errorf("researcher search: %w", err)
	}

	matches := make([]Match, 0, len(results))
	for _, res := range results {
		matches = append(matches, Match{
			Researcher:       res.Candidate.Payload.(Researcher),
			MatchScore:       res.Score,
			MatchingKeywords: res.MatchingKeywords,
		})
	}
	matcher.ObserveSearch(preset, len(matches), time.Since(start))
	span.SetAttributes(attribute.Int("results", len(matches)))
	return matches, nil
}

// Profile returns the local user's research profile.
func (d *Directory) Profile(ctx context.Context) (Profile, error) {
	var p Profile
	if err := d.store.Get(ctx, profileKey, &p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Profile{}, fmt.Errorf("profile: %w", ErrNotFound)
		}
		return Profile{}, err
	}
	return p, nil
}

// UpdateProfile saves the local user's profile. A public profile is listed in
// the directory; making it private removes the listing.
func (d *Directory) UpdateProfile(ctx context.Context, p Profile) (Profile, error) {
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	if p.Keywords == nil {
		p.Keywords = []string{}
	}

	prev, err := d.Profile(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}
	p.ResearcherID = prev.ResearcherID

	switch {
	case p.IsPublic:
		listing := Researcher{
			ID:         p.ResearcherID,
			Name:       p.Name,
			University: p.University,
			Field:      p.Field,
			Department: p.Field,
			Keywords:   p.Keywords,
			Bio:        p.Bio,
			Email:      p.Email,
		}
		if p.ResearcherID != "" {
			if existing, err := d.Get(ctx, p.ResearcherID); err == nil {
				listing.DateAdded = existing.DateAdded
				listing.Publications = existing.Publications
				listing.Verified = existing.Verified
			}
		}
		added, err := d.Add(ctx, listing)
		if err != nil {
			return Profile{}, err
		}
		p.ResearcherID = added.ID
	case p.ResearcherID != "":
		if err := d.Remove(ctx, p.ResearcherID); err != nil && !errors.Is(err, ErrNotFound) {
			return Profile{}, err
		}
		p.ResearcherID = ""
	}

	if err := d.store.Set(ctx, profileKey, p); err != nil {
		return Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

package researcher

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/scholard/internal/store"
)

// stepClock returns strictly increasing times so ordering is deterministic.
type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func newStepClock() *stepClock {
	return &stepClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newTestDirectory(t *testing.T) *Directory {
	t.Helper()
	d, err := NewDirectory(Options{Store: store.NewMemoryStore(), Now: newStepClock().Now})
	require.NoError(t, err)
	return d
}

func seedResearchers() []Researcher {
	return []Researcher{
		{
			ID:           "r_ml",
			Name:         "Dr. Sarah Chen",
			University:   "Stanford University",
			Field:        "Computer Science",
			Keywords:     []string{"machine learning", "nlp"},
			Bio:          "Researcher working on machine learning and nlp for education",
			Publications: 47,
		},
		{
			ID:           "r_bio",
			Name:         "Prof. James Wilson",
			University:   "MIT",
			Field:        "Biology",
			Keywords:     []string{"genomics", "crispr"},
			Bio:          "Studies gene editing in plants",
			Publications: 32,
		},
	}
}

func TestNewDirectory_RequiresStore(t *testing.T) {
	_, err := NewDirectory(Options{})
	require.Error(t, err)
}

func TestResearcher_MatchableText(t *testing.T) {
	r := Researcher{Field: "Physics", Bio: "Quantum Optics", Keywords: []string{"Lasers", "photons"}, University: "ETH"}
	assert.Equal(t, "physics quantum optics lasers photons eth", r.MatchableText())
}

func TestProfileURL(t *testing.T) {
	assert.Equal(t, "/profile/dr.-sarah-chen", profileURL("  Dr. Sarah   Chen "))
}

func TestParseKeywords(t *testing.T) {
	assert.Equal(t, []string{"ai", "machine learning"}, ParseKeywords(" ai, ,machine learning ,"))
	assert.Equal(t, []string{}, ParseKeywords(""))
}

func TestProfile_Validate(t *testing.T) {
	err := Profile{Name: "Ada"}.Validate()
	require.ErrorIs(t, err, ErrInvalidProfile)
	assert.Contains(t, err.Error(), "missing bio, email, field, university")

	ok := Profile{Name: "Ada", Email: "ada@example.org", University: "UCL", Field: "Maths", Bio: "Numbers"}
	assert.NoError(t, ok.Validate())
}

func TestDirectory_AddAndGet(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)

	added, err := d.Add(ctx, Researcher{Name: "Ada Lovelace", Field: "Mathematics"})
	require.NoError(t, err)
	assert.NotEmpty(t, added.ID)
	assert.Equal(t, "/profile/ada-lovelace", added.ProfileURL)
	assert.False(t, added.DateAdded.IsZero())
	assert.Equal(t, []string{}, added.Keywords)

	got, err := d.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added.Name, got.Name)

	_, err = d.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.Add(ctx, Researcher{Name: "No Field"})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestDirectory_SeedSkipsExisting(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)

	n, err := d.Seed(ctx, seedResearchers())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = d.Seed(ctx, seedResearchers())
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	list, err := d.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r_ml", list[0].ID)
	assert.Equal(t, "r_bio", list[1].ID)
}

func TestDirectory_Search(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)
	_, err := d.Seed(ctx, seedResearchers())
	require.NoError(t, err)

	matches, err := d.Search(ctx, "machine learning models")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "r_ml", matches[0].ID)
	assert.GreaterOrEqual(t, matches[0].MatchScore, 30)
	assert.LessOrEqual(t, matches[0].MatchScore, 100)
	assert.Contains(t, matches[0].MatchingKeywords, "machine learning")

	matches, err = d.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDirectory_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t)

	_, err := d.Profile(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	p := Profile{
		Name:       "Ada Lovelace",
		Email:      "ada@example.org",
		University: "UCL",
		Field:      "Mathematics",
		Keywords:   []string{"analytical engines"},
		Bio:        "Writes programs for engines",
		IsPublic:   true,
	}
	saved, err := d.UpdateProfile(ctx, p)
	require.NoError(t, err)
	require.NotEmpty(t, saved.ResearcherID)

	listed, err := d.Get(ctx, saved.ResearcherID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", listed.Name)

	// Updating keeps the same listing.
	p.Bio = "Writes the first programs"
	again, err := d.UpdateProfile(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, saved.ResearcherID, again.ResearcherID)
	listed, err = d.Get(ctx, saved.ResearcherID)
	require.NoError(t, err)
	assert.Equal(t, "Writes the first programs", listed.Bio)

	p.IsPublic = false
	private, err := d.UpdateProfile(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, private.ResearcherID)
	_, err = d.Get(ctx, saved.ResearcherID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = d.UpdateProfile(ctx, Profile{Name: "x"})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestDirectory_SQLiteBacked(t *testing.T) {
	ctx := context.Background()
	s, err := store.OpenSQLite(t.TempDir() + "/scholard.db")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	d, err := NewDirectory(Options{Store: s})
	require.NoError(t, err)
	_, err = d.Seed(ctx, seedResearchers())
	require.NoError(t, err)

	got, err := d.Get(ctx, "r_bio")
	require.NoError(t, err)
	assert.Equal(t, []string{"genomics", "crispr"}, got.Keywords)
	assert.True(t, errors.Is(d.Remove(ctx, "nope"), ErrNotFound))
}

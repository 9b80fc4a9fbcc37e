package citation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/scholard/internal/dispatch"
	"github.com/fyrsmithlabs/scholard/internal/store"
)

func testPapers() []Paper {
	return []Paper{
		{
			ID:            "p_ml",
			Type:          TypeArticle,
			Title:         "Machine Learning in Education",
			Authors:       "Elena Rodriguez",
			Year:          "2022",
			Source:        "EdTech Review",
			Excerpt:       "Review of machine learning for assessment.",
			CitationCount: 23,
			Keywords:      []string{"machine learning", "assessment"},
		},
		{
			ID:            "p_q",
			Type:          TypeArticle,
			Title:         "Quantum Cryptography",
			Authors:       "Michael Anderson",
			Year:          "2023",
			Source:        "Quantum Science",
			Excerpt:       "Quantum key distribution.",
			CitationCount: 89,
		},
	}
}

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	if opts.Papers == nil {
		opts.Papers = testPapers()
	}
	svc, err := NewService(opts)
	require.NoError(t, err)
	return svc
}

func TestService_Search(t *testing.T) {
	svc := newTestService(t, Options{})

	matches, err := svc.Search(context.Background(), "machine learning")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "p_ml", matches[0].ID)
	assert.Equal(t, 100, matches[0].MatchPercentage)
	assert.Equal(t, []string{"machine learning"}, matches[0].MatchingKeywords)
}

func TestService_SearchEmpty(t *testing.T) {
	svc := newTestService(t, Options{})

	matches, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestService_SearchOrdering(t *testing.T) {
	svc := newTestService(t, Options{})

	matches, err := svc.Search(context.Background(), "quantum machine learning review")
	require.NoError(t, err)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].MatchPercentage, matches[i].MatchPercentage)
	}
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.MatchPercentage, 25)
		assert.LessOrEqual(t, m.MatchPercentage, 100)
	}
}

func TestService_SetPapers(t *testing.T) {
	svc := newTestService(t, Options{})
	svc.SetPapers([]Paper{{ID: "p_new", Title: "Graph Theory Basics", Authors: "Ada Lovelace"}})

	_, err := svc.Get("p_ml")
	assert.ErrorIs(t, err, ErrPaperNotFound)

	matches, err := svc.Search(context.Background(), "graph theory")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "p_new", matches[0].ID)
}

func TestService_Format(t *testing.T) {
	svc := newTestService(t, Options{})

	got, err := svc.Format(context.Background(), "p_ml", StyleAPA)
	require.NoError(t, err)
	assert.Contains(t, got, "Rodriguez, E. (2022). Machine Learning in Education.")

	_, err = svc.Format(context.Background(), "missing", StyleAPA)
	assert.ErrorIs(t, err, ErrPaperNotFound)
}

func TestService_SavedAndRecent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Options{Store: store.NewMemoryStore()})

	_, err := svc.Save(ctx, "p_q")
	require.NoError(t, err)
	saved, err := svc.Saved(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "p_q", saved[0].ID)

	require.NoError(t, svc.Unsave(ctx, "p_q"))
	saved, err = svc.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)

	for _, q := range []string{"quantum", "machine learning", "quantum"} {
		_, err := svc.Search(ctx, q)
		require.NoError(t, err)
	}
	recent, err := svc.RecentSearches(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"quantum", "machine learning"}, recent)
}

func TestService_WithoutStore(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, Options{})

	_, err := svc.Save(ctx, "p_q")
	require.NoError(t, err)
	saved, err := svc.Saved(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestService_SearchSuperseded(t *testing.T) {
	runner := dispatch.NewRunner(100 * time.Millisecond)
	defer runner.Close()
	svc := newTestService(t, Options{Runner: runner})

	ctx := dispatch.WithSession(context.Background(), "s1")
	type outcome struct {
		matches []Match
		err     error
	}
	first := make(chan outcome, 1)
	go func() {
		m, err := svc.Search(ctx, "quantum")
		first <- outcome{m, err}
	}()

	time.Sleep(20 * time.Millisecond)
	matches, err := svc.Search(ctx, "machine learning")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	got := <-first
	assert.ErrorIs(t, got.err, dispatch.ErrSuperseded)
}

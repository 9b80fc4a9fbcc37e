package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/scholard/internal/citation"
	"github.com/fyrsmithlabs/scholard/internal/logging"
	"github.com/fyrsmithlabs/scholard/internal/services"
	"github.com/fyrsmithlabs/scholard/internal/textproc"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	rt, err := services.Build(context.Background(), nil, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rt.Close() })

	s, err := NewServer(&Config{Name: "scholard-test", Version: "test", Logger: logging.NewTestLogger().Logger}, rt)
	require.NoError(t, err)
	return s
}

func TestNewServer(t *testing.T) {
	t.Run("requires registry", func(t *testing.T) {
		_, err := NewServer(nil, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registry is required")
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		rt, err := services.Build(context.Background(), nil, nil)
		require.NoError(t, err)
		t.Cleanup(func() { _ = rt.Close() })

		s, err := NewServer(nil, rt)
		require.NoError(t, err)
		assert.NotNil(t, s.mcp)
	})
}

func TestGenerateFlashcards(t *testing.T) {
	s := newTestServer(t)
	out, summary, err := s.generateFlashcards(context.Background(), textInput{
		Text: "Photosynthesis is the process by which plants convert light into energy\nshort",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, "What is Photosynthesis?", out.Flashcards[0].Question)
	assert.Equal(t, "Generated 1 flashcards", summary)

	out, _, err = s.generateFlashcards(context.Background(), textInput{Text: "tiny"})
	require.NoError(t, err)
	assert.Zero(t, out.Count)
	assert.NotNil(t, out.Flashcards)
}

func TestGenerateFlowchart(t *testing.T) {
	s := newTestServer(t)

	out, _, err := s.generateFlowchart(context.Background(), textInput{})
	require.NoError(t, err)
	require.Len(t, out.Nodes, 1)
	assert.Equal(t, textproc.NodeStart, out.Nodes[0].Type)
	assert.Empty(t, out.Edges)

	out, summary, err := s.generateFlowchart(context.Background(), textInput{
		Text: "First, gather the materials\nThen mix the solution carefully",
	})
	require.NoError(t, err)
	assert.Equal(t, len(out.Nodes)-1, len(out.Edges))
	assert.Equal(t, textproc.NodeEnd, out.Nodes[len(out.Nodes)-1].Type)
	assert.Contains(t, summary, "edges")
}

func TestSimplifyAndConcepts(t *testing.T) {
	s := newTestServer(t)

	simple, _, err := s.simplifyText(context.Background(), textInput{Text: "We utilize several tools to facilitate learning."})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, simple.ReadabilityScore, 0.0)
	assert.LessOrEqual(t, simple.ReadabilityScore, 100.0)

	cm, summary, err := s.extractConcepts(context.Background(), textInput{Text: "The main idea is photosynthesis."})
	require.NoError(t, err)
	assert.Equal(t, []string{"The main idea is photosynthesis"}, cm.Main)
	assert.Equal(t, "1 main concepts, 0 supporting, 0 connections", summary)
}

func TestSearchCitations(t *testing.T) {
	s := newTestServer(t)

	_, _, err := s.searchCitations(context.Background(), searchInput{Query: "  "})
	require.ErrorIs(t, err, errInvalidInput)

	out, summary, err := s.searchCitations(context.Background(), searchInput{Query: "machine learning", Limit: 2})
	require.NoError(t, err)
	require.NotEmpty(t, out.Results)
	assert.LessOrEqual(t, out.Count, 2)
	assert.Equal(t, "paper_2", out.Results[0].ID)
	assert.Equal(t, "https://doi.org/10.5678/etr.2022.089", out.Results[0].SourceURL)
	assert.Contains(t, summary, "[paper_2]")
}

func TestFormatCitation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		in      formatInput
		wantErr error
		style   string
	}{
		{name: "default APA", in: formatInput{PaperID: "paper_1"}, style: "APA"},
		{name: "case-insensitive style", in: formatInput{PaperID: "paper_1", Style: "harvard"}, style: "Harvard"},
		{name: "unknown style", in: formatInput{PaperID: "paper_1", Style: "vancouver"}, wantErr: citation.ErrUnknownFormat},
		{name: "unknown paper", in: formatInput{PaperID: "nope"}, wantErr: citation.ErrPaperNotFound},
		{name: "missing paper", in: formatInput{}, wantErr: errInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, summary, err := s.formatCitation(context.Background(), tt.in)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.style, out.Style)
			assert.Equal(t, out.Citation, summary)
			assert.Contains(t, out.Citation, "Artificial Intelligence")
		})
	}
}

func TestSearchResearchers(t *testing.T) {
	s := newTestServer(t)

	out, _, err := s.searchResearchers(context.Background(), searchInput{Query: "machine learning models"})
	require.NoError(t, err)
	require.NotEmpty(t, out.Results)
	assert.Equal(t, "researcher_1", out.Results[0].ID)
	assert.Contains(t, out.Results[0].MatchingKeywords, "machine learning")
	for i := 1; i < len(out.Results); i++ {
		assert.GreaterOrEqual(t, out.Results[i-1].MatchScore, out.Results[i].MatchScore)
	}

	_, _, err = s.searchResearchers(context.Background(), searchInput{})
	assert.ErrorIs(t, err, errInvalidInput)
}

func TestToolsOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s := newTestServer(t)

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := s.mcp.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	tools, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"generate_flashcards", "generate_flowchart", "simplify_text", "extract_concepts",
		"search_citations", "format_citation", "search_researchers",
	}, names)

	res, err := cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "format_citation",
		Arguments: map[string]any{"paper_id": "paper_1", "style": "MLA"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Artificial Intelligence")

	res, err = cs.CallTool(ctx, &mcp.CallToolParams{
		Name:      "format_citation",
		Arguments: map[string]any{"paper_id": "missing"},
	})
	if err == nil {
		assert.True(t, res.IsError, "tool errors are reported in the result")
	}
}

func TestCategorizeError(t *testing.T) {
	assert.Equal(t, "", categorizeError(nil))
	assert.Equal(t, "validation_error", categorizeError(errInvalidInput))
	assert.Equal(t, "not_found", categorizeError(citation.ErrPaperNotFound))
	assert.Equal(t, "cancelled", categorizeError(context.Canceled))
	assert.Equal(t, "internal_error", categorizeError(assert.AnError))
}

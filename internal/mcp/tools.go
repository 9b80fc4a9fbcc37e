package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/scholard/internal/citation"
	"github.com/fyrsmithlabs/scholard/internal/dispatch"
	"github.com/fyrsmithlabs/scholard/internal/textproc"
)

// errInvalidInput marks tool arguments that fail validation.
var errInvalidInput = errors.New("invalid input")

const defaultSearchLimit = 10

type textInput struct {
	Text string `json:"text" jsonschema:"Study notes or passage to transform"`
}

type searchInput struct {
	Query string `json:"query" jsonschema:"Free-text search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum results to return (default 10)"`
}

type formatInput struct {
	PaperID string `json:"paper_id" jsonschema:"Catalog paper ID, as returned by search_citations"`
	Style   string `json:"style,omitempty" jsonschema:"APA, MLA, Chicago, IEEE or Harvard (default APA)"`
}

type flashcardsOutput struct {
	Count      int                  `json:"count"`
	Flashcards []textproc.Flashcard `json:"flashcards"`
}

type flowchartOutput struct {
	Nodes []textproc.FlowchartNode `json:"nodes"`
	Edges []textproc.FlowchartEdge `json:"edges"`
}

type citationResult struct {
	ID               string   `json:"id"`
	Type             string   `json:"type"`
	Title            string   `json:"title"`
	Authors          string   `json:"authors"`
	Year             string   `json:"year"`
	Source           string   `json:"source"`
	MatchPercentage  int      `json:"match_percentage"`
	MatchingKeywords []string `json:"matching_keywords"`
	SourceURL        string   `json:"source_url"`
	Accessible       bool     `json:"accessible"`
}

type citationSearchOutput struct {
	Count   int              `json:"count"`
	Results []citationResult `json:"results"`
}

type formatOutput struct {
	PaperID    string `json:"paper_id"`
	Style      string `json:"style"`
	Citation   string `json:"citation"`
	SourceURL  string `json:"source_url"`
	Accessible bool   `json:"accessible"`
}

type researcherResult struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	University       string   `json:"university"`
	Field            string   `json:"field"`
	Keywords         []string `json:"keywords"`
	ProfileURL       string   `json:"profile_url"`
	MatchScore       int      `json:"match_score"`
	MatchingKeywords []string `json:"matching_keywords"`
}

type researcherSearchOutput struct {
	Count   int                `json:"count"`
	Results []researcherResult `json:"results"`
}

// toolFunc returns the structured result and a one-line text summary.
type toolFunc[In, Out any] func(ctx context.Context, in In) (Out, string, error)

// addTool registers fn with metrics, logging and per-session cancellation.
func addTool[In, Out any](s *Server, name, description string, fn toolFunc[In, Out]) {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        name,
		Description: description,
	}, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		if req != nil && req.Session != nil && req.Session.ID() != "" {
			ctx = dispatch.WithSession(ctx, req.Session.ID())
		}

		start := time.Now()
		s.metrics.IncrementActive(ctx, name)
		out, summary, err := fn(ctx, in)
		s.metrics.DecrementActive(ctx, name)
		s.metrics.RecordInvocation(ctx, name, time.Since(start), err)

		if err != nil {
			s.logger.Warn(ctx, "tool call failed", zap.String("tool", name), zap.Error(err))
			var zero Out
			return nil, zero, err
		}
		s.logger.Debug(ctx, "tool call completed",
			zap.String("tool", name),
			zap.Duration("duration", time.Since(start)),
		)
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: summary}},
		}, out, nil
	})
}

func (s *Server) registerTools() {
	addTool(s, "generate_flashcards",
		"Generate question/answer flashcards from study notes", s.generateFlashcards)
	addTool(s, "generate_flowchart",
		"Turn a step-by-step description into a linear flowchart of start, process, decision and end nodes", s.generateFlowchart)
	addTool(s, "simplify_text",
		"Simplify academic text, extract key points and score readability", s.simplifyText)
	addTool(s, "extract_concepts",
		"Extract main concepts, supporting concepts and their relationships", s.extractConcepts)
	addTool(s, "search_citations",
		"Search the paper catalog and rank matches by relevance", s.searchCitations)
	addTool(s, "format_citation",
		"Format a catalog paper as a reference in APA, MLA, Chicago, IEEE or Harvard style", s.formatCitation)
	addTool(s, "search_researchers",
		"Find researchers whose interests match a query", s.searchResearchers)
}

func (s *Server) generateFlashcards(ctx context.Context, in textInput) (flashcardsOutput, string, error) {
	cards, err := s.registry.Transform().Flashcards(ctx, in.Text)
	if err != nil {
		return flashcardsOutput{}, "", err
	}
	if cards == nil {
		cards = []textproc.Flashcard{}
	}
	return flashcardsOutput{Count: len(cards), Flashcards: cards},
		fmt.Sprintf("Generated %d flashcards", len(cards)), nil
}

func (s *Server) generateFlowchart(ctx context.Context, in textInput) (flowchartOutput, string, error) {
	chart, err := s.registry.Transform().Flowchart(ctx, in.Text)
	if err != nil {
		return flowchartOutput{}, "", err
	}
	out := flowchartOutput{Nodes: chart.Nodes, Edges: chart.Edges}
	if out.Edges == nil {
		out.Edges = []textproc.FlowchartEdge{}
	}
	return out, fmt.Sprintf("Flowchart with %d nodes and %d edges", len(out.Nodes), len(out.Edges)), nil
}

func (s *Server) simplifyText(ctx context.Context, in textInput) (textproc.SimplifiedContent, string, error) {
	out, err := s.registry.Transform().Simplify(ctx, in.Text)
	if err != nil {
		return textproc.SimplifiedContent{}, "", err
	}
	return out, fmt.Sprintf("Readability %.1f, %d key points", out.ReadabilityScore, len(out.KeyPoints)), nil
}

func (s *Server) extractConcepts(ctx context.Context, in textInput) (textproc.ConceptMap, string, error) {
	out, err := s.registry.Transform().Concepts(ctx, in.Text)
	if err != nil {
		return textproc.ConceptMap{}, "", err
	}
	return out, fmt.Sprintf("%d main concepts, %d supporting, %d connections",
		len(out.Main), len(out.Supporting), len(out.Connections)), nil
}

func (s *Server) searchCitations(ctx context.Context, in searchInput) (citationSearchOutput, string, error) {
	if strings.TrimSpace(in.Query) == "" {
		return citationSearchOutput{}, "", fmt.Errorf("%w: query is required", errInvalidInput)
	}
	matches, err := s.registry.Citations().Search(ctx, in.Query)
	if err != nil {
		return citationSearchOutput{}, "", err
	}

	out := citationSearchOutput{Results: []citationResult{}}
	for _, m := range limit(matches, in.Limit) {
		out.Results = append(out.Results, citationResult{
			ID:               m.ID,
			Type:             string(m.Type),
			Title:            m.Title,
			Authors:          m.Authors,
			Year:             m.Year,
			Source:           m.Source,
			MatchPercentage:  m.MatchPercentage,
			MatchingKeywords: nonNil(m.MatchingKeywords),
			SourceURL:        citation.SourceURL(m.Paper),
			Accessible:       citation.IsAccessible(m.Paper),
		})
	}
	out.Count = len(out.Results)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d papers", out.Count)
	for _, r := range out.Results {
		fmt.Fprintf(&sb, "\n%d%% %s (%s) [%s]", r.MatchPercentage, r.Title, r.Year, r.ID)
	}
	return out, sb.String(), nil
}

func (s *Server) formatCitation(ctx context.Context, in formatInput) (formatOutput, string, error) {
	if strings.TrimSpace(in.PaperID) == "" {
		return formatOutput{}, "", fmt.Errorf("%w: paper_id is required", errInvalidInput)
	}
	style := citation.StyleAPA
	if in.Style != "" {
		var err error
		if style, err = citation.ParseStyle(in.Style); err != nil {
			return formatOutput{}, "", err
		}
	}

	formatted, err := s.registry.Citations().Format(ctx, in.PaperID, style)
	if err != nil {
		return formatOutput{}, "", err
	}
	paper, err := s.registry.Citations().Get(in.PaperID)
	if err != nil {
		return formatOutput{}, "", err
	}
	return formatOutput{
		PaperID:    in.PaperID,
		Style:      string(style),
		Citation:   formatted,
		SourceURL:  citation.SourceURL(paper),
		Accessible: citation.IsAccessible(paper),
	}, formatted, nil
}

func (s *Server) searchResearchers(ctx context.Context, in searchInput) (researcherSearchOutput, string, error) {
	if strings.TrimSpace(in.Query) == "" {
		return researcherSearchOutput{}, "", fmt.Errorf("%w: query is required", errInvalidInput)
	}
	matches, err := s.registry.Researchers().Search(ctx, in.Query)
	if err != nil {
		return researcherSearchOutput{}, "", err
	}

	out := researcherSearchOutput{Results: []researcherResult{}}
	for _, m := range limit(matches, in.Limit) {
		out.Results = append(out.Results, researcherResult{
			ID:               m.ID,
			Name:             m.Name,
			University:       m.University,
			Field:            m.Field,
			Keywords:         nonNil(m.Keywords),
			ProfileURL:       m.ProfileURL,
			MatchScore:       m.MatchScore,
			MatchingKeywords: nonNil(m.MatchingKeywords),
		})
	}
	out.Count = len(out.Results)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d researchers", out.Count)
	for _, r := range out.Results {
		fmt.Fprintf(&sb, "\n%d%% %s, %s (%s)", r.MatchScore, r.Name, r.University, r.Field)
	}
	return out, sb.String(), nil
}

func limit[T any](items []T, n int) []T {
	if n <= 0 {
		n = defaultSearchLimit
	}
	if len(items) > n {
		return items[:n]
	}
	return items
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/scholard/internal/citation"
)

func (c *cli) citeCmd() *cobra.Command {
	cite := &cobra.Command{
		Use:   "cite",
		Short: "Search and format citations from the paper catalog",
	}

	var limit int
	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Rank catalog papers against a query",
		Example: `  scholar cite search "machine learning in education"
  scholar cite search --limit 3 --json neural networks`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCiteSearch(cmd, strings.Join(args, " "), limit)
		},
	}
	search.Flags().IntVarP(&limit, "limit", "n", 10, "maximum results")

	var style string
	format := &cobra.Command{
		Use:     "format <paper-id>",
		Short:   "Format a catalog paper as a reference",
		Example: `  scholar cite format paper_1 --style mla`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCiteFormat(cmd, args[0], style)
		},
	}
	format.Flags().StringVarP(&style, "style", "s", string(citation.StyleAPA), "APA, MLA, Chicago, IEEE or Harvard")

	cite.AddCommand(search, format)
	return cite
}

func (c *cli) runCiteSearch(cmd *cobra.Command, query string, limit int) error {
	s, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	matches, err := s.Citations().Search(s.ctx, query)
	if err != nil {
		return err
	}
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	out := cmd.OutOrStdout()
	if c.jsonOutput {
		return printJSON(out, matches)
	}
	if len(matches) == 0 {
		note(out, fmt.Sprintf("No papers match %q.", query))
		return nil
	}

	heading(out, fmt.Sprintf("%d papers for %q", len(matches), query))
	rows := make([][]string, len(matches))
	for i, m := range matches {
		rows[i] = []string{
			strconv.Itoa(m.MatchPercentage) + "%",
			m.ID,
			m.Title,
			m.Year,
			joinOrDash(m.MatchingKeywords),
		}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Match", "ID", "Title", "Year", "Keywords"},
		rows,
		[]columnAlignment{alignRight},
	))
	return nil
}

func (c *cli) runCiteFormat(cmd *cobra.Command, id, styleName string) error {
	style, err := citation.ParseStyle(styleName)
	if err != nil {
		return err
	}
	s, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	formatted, err := s.Citations().Format(s.ctx, id, style)
	if err != nil {
		return err
	}
	paper, err := s.Citations().Get(id)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if c.jsonOutput {
		return printJSON(out, map[string]any{
			"paper_id":   id,
			"style":      style,
			"citation":   formatted,
			"source_url": citation.SourceURL(paper),
			"accessible": citation.IsAccessible(paper),
		})
	}
	heading(out, string(style))
	fmt.Fprintln(out, formatted)
	field(out, "Source", citation.SourceURL(paper))
	if !citation.IsAccessible(paper) {
		note(out, "No open link or DOI; the source URL is a search.")
	}
	return nil
}

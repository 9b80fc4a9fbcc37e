package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func (c *cli) researchersCmd() *cobra.Command {
	researchers := &cobra.Command{
		Use:     "researchers",
		Aliases: []string{"r"},
		Short:   "Browse the researcher directory",
	}

	search := &cobra.Command{
		Use:     "search <query>",
		Short:   "Find researchers whose interests match a query",
		Example: `  scholar researchers search machine learning models`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResearcherSearch(cmd, strings.Join(args, " "))
		},
	}
	list := &cobra.Command{
		Use:   "list",
		Short: "List every researcher in the directory",
		Args:  cobra.NoArgs,
		RunE:  c.runResearcherList,
	}

	researchers.AddCommand(search, list)
	return researchers
}

func (c *cli) runResearcherSearch(cmd *cobra.Command, query string) error {
	s, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	matches, err := s.Researchers().Search(s.ctx, query)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if c.jsonOutput {
		return printJSON(out, matches)
	}
	if len(matches) == 0 {
		note(out, fmt.Sprintf("No researchers match %q.", query))
		return nil
	}

	heading(out, fmt.Sprintf("%d researchers for %q", len(matches), query))
	rows := make([][]string, len(matches))
	for i, m := range matches {
		rows[i] = []string{
			strconv.Itoa(m.MatchScore) + "%",
			m.Name,
			m.University,
			m.Field,
			joinOrDash(m.MatchingKeywords),
		}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Match", "Name", "University", "Field", "Shared interests"},
		rows,
		[]columnAlignment{alignRight},
	))
	return nil
}

func (c *cli) runResearcherList(cmd *cobra.Command, args []string) error {
	s, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	all, err := s.Researchers().List(s.ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if c.jsonOutput {
		return printJSON(out, all)
	}

	heading(out, fmt.Sprintf("%d researchers", len(all)))
	rows := make([][]string, len(all))
	for i, r := range all {
		rows[i] = []string{r.ID, r.Name, r.University, r.Field, strconv.Itoa(r.Publications)}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"ID", "Name", "University", "Field", "Publications"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	))
	return nil
}

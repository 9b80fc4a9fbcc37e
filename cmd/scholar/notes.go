package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func (c *cli) notesCommands() []*cobra.Command {
	return []*cobra.Command{
		{
			Use:   "flashcards [file|-]",
			Short: "Generate flashcards from notes",
			Args:  cobra.MaximumNArgs(1),
			RunE:  c.runFlashcards,
		},
		{
			Use:   "flowchart [file|-]",
			Short: "Turn step-by-step notes into a flowchart",
			Args:  cobra.MaximumNArgs(1),
			RunE:  c.runFlowchart,
		},
		{
			Use:   "simplify [file|-]",
			Short: "Simplify academic text and score its readability",
			Args:  cobra.MaximumNArgs(1),
			RunE:  c.runSimplify,
		},
		{
			Use:   "concepts [file|-]",
			Short: "Extract a concept map from notes",
			Args:  cobra.MaximumNArgs(1),
			RunE:  c.runConcepts,
		},
	}
}

func (c *cli) runFlashcards(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	s, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	cards, err := s.Transform().Flashcards(s.ctx, input)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if c.jsonOutput {
		return printJSON(out, cards)
	}
	if len(cards) == 0 {
		note(out, `No flashcards found. Definitions like "X is Y" or "Term: meaning" work best.`)
		return nil
	}

	heading(out, fmt.Sprintf("%d flashcards", len(cards)))
	rows := make([][]string, len(cards))
	for i, card := range cards {
		rows[i] = []string{strconv.Itoa(i + 1), card.Question, card.Answer, string(card.Difficulty)}
	}
	fmt.Fprintln(out, renderTable(
		[]string{"#", "Question", "Answer", "Difficulty"},
		rows,
		[]columnAlignment{alignRight},
	))
	return nil
}

func (c *cli) runFlowchart(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	s, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	chart, err := s.Transform().Flowchart(s.ctx, input)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if c.jsonOutput {
		return printJSON(out, chart)
	}

	heading(out, fmt.Sprintf("Flowchart: %d nodes, %d edges", len(chart.Nodes), len(chart.Edges)))
	rows := make([][]string, len(chart.Nodes))
	for i, n := range chart.Nodes {
		rows[i] = []string{n.ID, string(n.Type), n.Label}
	}
	fmt.Fprintln(out, renderTable([]string{"Node", "Type", "Label"}, rows, nil))
	for _, e := range chart.Edges {
		fmt.Fprintf(out, "  %s → %s\n", e.Source, e.Target)
	}
	return nil
}

func (c *cli) runSimplify(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	s, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.Transform().Simplify(s.ctx, input)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if c.jsonOutput {
		return printJSON(out, res)
	}

	heading(out, "Simplified text")
	field(out, "Readability", fmt.Sprintf("%.1f / 100", res.ReadabilityScore))
	field(out, "Length", fmt.Sprintf("%d → %d characters", res.OriginalLength, res.SimplifiedLength))
	if len(res.KeyPoints) > 0 {
		heading(out, "Key points")
		list(out, res.KeyPoints)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, res.SimplifiedText)
	if len(res.Improvements) > 0 {
		fmt.Fprintln(out)
		heading(out, "Changes")
		list(out, res.Improvements)
	}
	return nil
}

func (c *cli) runConcepts(cmd *cobra.Command, args []string) error {
	input, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	s, err := c.open(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	cm, err := s.Transform().Concepts(s.ctx, input)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if c.jsonOutput {
		return printJSON(out, cm)
	}

	heading(out, "Main concepts")
	if len(cm.Main) == 0 {
		note(out, "  none")
	}
	list(out, cm.Main)
	heading(out, "Supporting concepts")
	if len(cm.Supporting) == 0 {
		note(out, "  none")
	}
	list(out, cm.Supporting)
	if len(cm.Connections) > 0 {
		heading(out, "Connections")
		rows := make([][]string, len(cm.Connections))
		for i, conn := range cm.Connections {
			rows[i] = []string{conn.From, conn.Relationship, conn.To}
		}
		fmt.Fprintln(out, renderTable([]string{"From", "Relationship", "To"}, rows, nil))
	}
	return nil
}

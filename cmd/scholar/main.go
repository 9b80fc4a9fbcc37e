// Package main implements the scholar CLI, which runs the scholard engines
// in-process against local notes and the configured catalog.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/fyrsmithlabs/scholard/internal/catalog"
	"github.com/fyrsmithlabs/scholard/internal/config"
	"github.com/fyrsmithlabs/scholard/internal/logging"
	"github.com/fyrsmithlabs/scholard/internal/services"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// cli holds the flags shared by every command.
type cli struct {
	configPath string
	jsonOutput bool
	verbose    bool
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "scholar",
		Short: "Study tools on the command line",
		Long: `scholar turns notes into flashcards, flowcharts, simplified text and concept
maps, searches and formats citations, and finds researchers by interest.

Input is read from a file argument or from stdin when the argument is "-" or
missing.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ~/.config/scholard/config.yaml)")
	root.PersistentFlags().BoolVar(&c.jsonOutput, "json", false, "print JSON instead of tables")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(c.notesCommands()...)
	root.AddCommand(c.citeCmd(), c.researchersCmd())
	return root
}

// session is an in-process service runtime for one command.
type session struct {
	services.Registry
	ctx   context.Context
	close func() error
}

func (c *cli) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := logging.NewDefaultConfig()
	logCfg.Format = "console"
	logCfg.Output.Stdout = false
	logCfg.Output.Stderr = true
	logCfg.Caller = false
	logCfg.Level = zapcore.WarnLevel
	if c.verbose {
		logCfg.Level = zapcore.DebugLevel
	}
	logger, err := logging.NewLogger(logCfg, nil)
	if err != nil {
		return nil, err
	}
	ctx := logging.WithLogger(cmd.Context(), logger)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	// The CLI never simulates latency.
	cfg.Latency.Simulate = false
	rt, err := services.Build(ctx, cfg, cat)
	if err != nil {
		return nil, err
	}
	return &session{Registry: rt, ctx: ctx, close: rt.Close}, nil
}

// readInput reads the named file, or stdin for "-" or no argument.
func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", args[0], err)
	}
	return string(data), nil
}

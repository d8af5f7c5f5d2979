// ABOUTME: Root Cobra command for lifelog CLI.
// ABOUTME: Opens config and storage via PersistentPre/PostRunE.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/lifelog/lifelog/internal/config"
	"github.com/lifelog/lifelog/internal/engine"
	"github.com/lifelog/lifelog/internal/service"
	"github.com/lifelog/lifelog/internal/storage"
	"github.com/spf13/cobra"
)

var (
	cfg     *config.Config
	repo    storage.Repository
	svc     *service.Insights
	logger  *slog.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lifelog",
	Short: "Personal activity correlation engine",
	Long: `Lifelog finds statistically significant correlations in the daily
metrics you track: sleep, mood, caffeine, exercise, spending, and more.

WHAT IT ANSWERS:

  Does less sleep predict worse mood two days later?
  Does caffeine after lunch cut my sleep short?
  Do long work days drive up my spending?

QUICK START:

  $ lifelog log sleep_hours 7.5         # Log today's sleep
  $ lifelog log mood 6                  # Log today's mood
  $ lifelog scan                        # Find correlations (needs 14+ days)
  $ lifelog correlations                # Browse what was found
  $ lifelog pin <id>                    # Keep an insight on top
  $ lifelog dismiss <id>                # Hide a spurious one

SERVER MODE:

  $ lifelog serve                       # REST API + Prometheus metrics

MCP INTEGRATION:

  Run 'lifelog mcp' to start the Model Context Protocol server for use with
  Claude Desktop or other MCP-compatible AI assistants:

  {
    "mcpServers": {
      "lifelog": { "command": "lifelog", "args": ["mcp"] }
    }
  }

SYNC:

  Curation decisions (pins, dismissals) and feedback sync across devices
  via Charm Cloud; correlations themselves are recomputed locally.

  $ lifelog sync link      # Link device to your Charm account
  $ lifelog sync push      # Upload curation state
  $ lifelog sync pull      # Apply remote curation state

DATA STORAGE:

  Daily values and correlations live in SQLite at ~/.local/share/lifelog.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip storage setup for commands that don't need it
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}

		svc = service.New(repo, engine.NewScanner(repo, logger), logger)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

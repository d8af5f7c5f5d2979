// ABOUTME: CLI command for starting MCP server.
// ABOUTME: Runs stdio-based MCP server for AI assistant integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/lifelog/lifelog/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to explore your correlations through
a standardized protocol. The server communicates via stdin/stdout.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "lifelog": {
        "command": "lifelog",
        "args": ["mcp"]
      }
    }
  }

AVAILABLE TOOLS:

  log_metric                 Record a daily metric value
  list_metrics               List the trackable metric catalog
  calculate_correlations     Run a pairwise correlation scan
  list_correlations          List discovered correlations
  get_correlation            Get one correlation by ID
  update_correlation_status  Pin, dismiss, or reactivate
  submit_feedback            Record whether an insight was helpful
  correlation_stats          Summarize correlations

AVAILABLE RESOURCES:

  lifelog://catalog          Metric catalog grouped by category
  lifelog://insights         Strongest non-dismissed correlations
  lifelog://summary          Counts by status and strength`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(svc, cfg.GetUserID())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

// ABOUTME: CLI command for exporting user data.
// ABOUTME: Emits daily values, correlations, and feedback as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export your data as JSON",
	Long: `Export all data for the configured user as JSON: daily metric values,
correlations with their curation status, and feedback.

EXAMPLES:

  lifelog export                     # Print to stdout
  lifelog export -o backup.json      # Save to file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		export, err := svc.Export(cmd.Context(), cfg.GetUserID())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		data, err := json.MarshalIndent(export, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			color.Green("✓ Exported to %s", exportOutput)
		} else {
			fmt.Println(string(data))
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")
	rootCmd.AddCommand(exportCmd)
}

// ABOUTME: CLI command for listing the trackable metric catalog.
// ABOUTME: Supports filtering by category.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var metricsCategory string

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List trackable metrics",
	Long: `List the catalog of trackable metrics.

CATEGORIES:

  fitness, health, mindfulness, nutrition, finance, routine

EXAMPLES:

  lifelog metrics                       # Full catalog
  lifelog metrics --category nutrition  # Only nutrition metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		metrics, err := svc.ListAvailableMetrics(cmd.Context(), metricsCategory)
		if err != nil {
			return fmt.Errorf("failed to list metrics: %w", err)
		}

		if len(metrics) == 0 {
			fmt.Println("No metrics found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, m := range metrics {
			fmt.Printf("%s %s %s %s\n",
				padRight(m.ID, 20),
				padRight(string(m.Category), 12),
				padRight(m.Unit, 8),
				faint.Sprint(m.DisplayName))
		}

		return nil
	},
}

func init() {
	metricsCmd.Flags().StringVarP(&metricsCategory, "category", "c", "", "filter by category")
	rootCmd.AddCommand(metricsCmd)
}

// ABOUTME: CLI command for running a pairwise correlation scan.
// ABOUTME: Reports examined pairs, skips, per-pair errors, and upserts.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/lifelog/lifelog/internal/models"
	"github.com/spf13/cobra"
)

var (
	scanMaxLag     int
	scanMinSamples int
	scanWorkers    int
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find correlations in your logged metrics",
	Long: `Scan every ordered pair of logged metrics at every lag from 0 to
--max-lag days, and store the statistically significant results.

A pair needs at least --min-samples days where both metrics have values
(after lag alignment). Pins and dismissals on existing correlations are
preserved; only the computed numbers refresh.

EXAMPLES:

  lifelog scan                    # Defaults: 3-day lag window, 14 samples
  lifelog scan --max-lag 7        # Look up to a week ahead
  lifelog scan --min-samples 30   # Demand a month of overlap`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cfg.ScanOptions()
		if cmd.Flags().Changed("max-lag") {
			opts.MaxLagDays = &scanMaxLag
		}
		if scanMinSamples > 0 {
			opts.MinSampleSize = scanMinSamples
		}
		if scanWorkers > 0 {
			opts.Workers = scanWorkers
		}

		result, err := svc.CalculateCorrelations(cmd.Context(), cfg.GetUserID(), opts)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		color.Green("✓ Scan complete")
		fmt.Printf("  Pairs examined:  %d\n", result.PairsExamined)
		fmt.Printf("  Pairs skipped:   %d\n", result.PairsSkipped)
		fmt.Printf("  Correlations:    %d\n", result.CalculatedCount)
		if result.PairErrors > 0 {
			color.Yellow("  Pair errors:     %d (see logs)", result.PairErrors)
		}

		if result.CalculatedCount == 0 {
			fmt.Printf("\nNo significant correlations yet. Keep logging; %d aligned days per pair are required.\n",
				opts.MinSampleSize)
			return nil
		}

		fmt.Println()
		for _, c := range result.Records {
			printCorrelationLine(c)
		}
		return nil
	},
}

// printCorrelationLine renders one correlation in the list format shared by
// scan and correlations commands.
func printCorrelationLine(c *models.Correlation) {
	faint := color.New(color.Faint)

	statusColor := color.New(color.FgWhite)
	switch c.Status {
	case models.StatusPinned:
		statusColor = color.New(color.FgGreen)
	case models.StatusDismissed:
		statusColor = color.New(color.Faint)
	}

	fmt.Printf("%s %s %s → %s  lag %dd  r=%+.3f  p=%.3f  n=%d  %s\n",
		faint.Sprint(c.ID.String()[:8]),
		statusColor.Sprint(padRight(string(c.Status), 9)),
		c.DriverMetricID,
		c.OutcomeMetricID,
		c.LagDays,
		c.Coefficient,
		c.PValue,
		c.SampleSize,
		faint.Sprint(c.StrengthBucket()))
}

func init() {
	scanCmd.Flags().IntVar(&scanMaxLag, "max-lag", 0, "largest lag in days to test (default 3)")
	scanCmd.Flags().IntVar(&scanMinSamples, "min-samples", 0, "minimum aligned days per pair (default 14)")
	scanCmd.Flags().IntVar(&scanWorkers, "workers", 0, "concurrent pair workers (default 4)")
	rootCmd.AddCommand(scanCmd)
}

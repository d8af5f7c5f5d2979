// ABOUTME: CLI command for logging daily metric values.
// ABOUTME: Upserts one value per metric per day, defaulting to today.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/lifelog/lifelog/internal/models"
	"github.com/spf13/cobra"
)

var logDate string

var logCmd = &cobra.Command{
	Use:     "log <metric> <value>",
	Aliases: []string{"l"},
	Short:   "Log a daily metric value",
	Long: `Log a daily value for a tracked metric. Logging the same metric twice
on the same day replaces the earlier value.

Examples:
  lifelog log sleep_hours 7.5
  lifelog log mood 6
  lifelog log caffeine_mg 180 --date 2025-08-30
  lifelog log spending 42.80`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		metricID := args[0]
		if !models.IsValidMetricID(metricID) {
			return fmt.Errorf("unknown metric: %s\nRun 'lifelog metrics' to see the catalog", metricID)
		}

		value, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid value: %s", args[1])
		}

		date := time.Now().UTC()
		if logDate != "" {
			date, err = time.Parse(models.DateLayout, logDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", logDate)
			}
		}

		point := models.DailyMetricPoint{
			UserID:   cfg.GetUserID(),
			MetricID: metricID,
			Date:     date,
			Value:    value,
		}
		if err := svc.LogDailyValue(cmd.Context(), point); err != nil {
			return fmt.Errorf("failed to log value: %w", err)
		}

		color.Green("✓ Logged %s", metricID)
		fmt.Printf("  %s %.2f\n",
			color.New(color.Faint).Sprint(date.Format(models.DateLayout)),
			value)

		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "day to log (YYYY-MM-DD, default: today)")
	rootCmd.AddCommand(logCmd)
}

// ABOUTME: CLI commands for browsing and curating correlations.
// ABOUTME: Covers list, show, pin, dismiss, restore, and stats.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/lifelog/lifelog/internal/models"
	"github.com/spf13/cobra"
)

var (
	corrStatus  string
	corrMinCoef float64
	corrLag     int
	corrLimit   int
)

var correlationsCmd = &cobra.Command{
	Use:     "correlations",
	Aliases: []string{"corr", "c"},
	Short:   "List discovered correlations",
	Long: `List correlations found by the scanner, strongest first.

OUTPUT FORMAT:

  Each line shows: ID  STATUS  DRIVER → OUTCOME  LAG  r  p  n  STRENGTH

  The ID is an 8-character prefix usable with show/pin/dismiss commands.

FILTERING:

  lifelog correlations                      # All, strongest first
  lifelog correlations --status pinned      # Only pinned
  lifelog correlations --min-coefficient 0.7
  lifelog correlations --lag 1 -n 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := models.CorrelationFilter{
			Status:         models.Status(corrStatus),
			MinCoefficient: corrMinCoef,
			Limit:          corrLimit,
		}
		if cmd.Flags().Changed("lag") {
			filter.LagDays = &corrLag
		}

		correlations, err := svc.ListCorrelations(cmd.Context(), cfg.GetUserID(), filter)
		if err != nil {
			return fmt.Errorf("failed to list correlations: %w", err)
		}

		if len(correlations) == 0 {
			fmt.Println("No correlations found. Run 'lifelog scan' after logging at least two weeks of data.")
			return nil
		}

		for _, c := range correlations {
			printCorrelationLine(c)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one correlation in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveCorrelation(cmd, args[0])
		if err != nil {
			return err
		}

		faint := color.New(color.Faint)
		fmt.Printf("%s → %s (lag %d days)\n", c.DriverMetricID, c.OutcomeMetricID, c.LagDays)
		fmt.Printf("  ID:           %s\n", c.ID)
		fmt.Printf("  Status:       %s\n", c.Status)
		fmt.Printf("  Coefficient:  %+.3f (%s)\n", c.Coefficient, c.StrengthBucket())
		fmt.Printf("  P-value:      %.5f\n", c.PValue)
		fmt.Printf("  Sample size:  %d aligned days\n", c.SampleSize)
		fmt.Printf("  Detected:     %s\n", faint.Sprint(c.DetectedAt.Format("2006-01-02 15:04")))
		fmt.Printf("  Updated:      %s\n", faint.Sprint(c.UpdatedAt.Format("2006-01-02 15:04")))

		feedback, err := repo.ListFeedback(cmd.Context(), c.ID)
		if err == nil && len(feedback) > 0 {
			fmt.Printf("\n  Feedback (%d):\n", len(feedback))
			for _, f := range feedback {
				verdict := "helpful"
				if !f.IsHelpful {
					verdict = "not helpful"
				}
				line := fmt.Sprintf("    %s %s", f.CreatedAt.Format("2006-01-02"), verdict)
				if f.Comment != nil && *f.Comment != "" {
					line += faint.Sprintf(" (%s)", truncate(*f.Comment, 60))
				}
				fmt.Println(line)
			}
		}
		return nil
	},
}

var pinCmd = &cobra.Command{
	Use:   "pin <id>",
	Short: "Pin a correlation so it stays on top",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], models.StatusPinned)
	},
}

var dismissCmd = &cobra.Command{
	Use:   "dismiss <id>",
	Short: "Dismiss a correlation you consider spurious",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], models.StatusDismissed)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <id>",
	Short: "Return a pinned or dismissed correlation to active",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(cmd, args[0], models.StatusActive)
	},
}

var feedbackHelpful bool
var feedbackComment string

var feedbackCmd = &cobra.Command{
	Use:   "feedback <id>",
	Short: "Record whether an insight was helpful",
	Long: `Record feedback on a correlation. Feedback is append-only; repeated
feedback on the same correlation accumulates.

Examples:
  lifelog feedback a1b2c3d4 --helpful
  lifelog feedback a1b2c3d4 --helpful=false --comment "coincidence, I was sick"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := resolveCorrelation(cmd, args[0])
		if err != nil {
			return err
		}

		if _, err := svc.SubmitFeedback(cmd.Context(), cfg.GetUserID(), c.ID, feedbackHelpful, feedbackComment); err != nil {
			return fmt.Errorf("failed to record feedback: %w", err)
		}

		color.Green("✓ Feedback recorded for %s → %s", c.DriverMetricID, c.OutcomeMetricID)
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize your correlations",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := svc.GetStats(cmd.Context(), cfg.GetUserID())
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total correlations: %d\n", stats.Total)
		for _, st := range models.AllStatuses {
			fmt.Printf("  %s %d\n", padRight(string(st)+":", 11), stats.ByStatus[st])
		}
		fmt.Printf("Strong (|r| > %.1f):   %d\n", models.StrongThreshold, stats.Strong)
		fmt.Printf("Moderate:             %d\n", stats.Moderate)
		if stats.MeanAbsCoefficient != nil {
			fmt.Printf("Mean |coefficient|:   %.3f\n", *stats.MeanAbsCoefficient)
		}
		return nil
	},
}

// setStatus updates a correlation's lifecycle state and prints the result.
func setStatus(cmd *cobra.Command, idArg string, status models.Status) error {
	c, err := resolveCorrelation(cmd, idArg)
	if err != nil {
		return err
	}

	updated, err := svc.UpdateStatus(cmd.Context(), cfg.GetUserID(), c.ID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	color.Green("✓ %s: %s → %s (lag %dd)", updated.Status, updated.DriverMetricID, updated.OutcomeMetricID, updated.LagDays)

	if cfg.AutoSync {
		if err := pushCuration(updated); err != nil {
			color.Yellow("⚠ Cloud sync failed: %v", err)
		}
	}
	return nil
}

// resolveCorrelation accepts a full UUID or an unambiguous 8+ character prefix.
func resolveCorrelation(cmd *cobra.Command, idArg string) (*models.Correlation, error) {
	userID := cfg.GetUserID()

	if id, err := uuid.Parse(idArg); err == nil {
		c, err := svc.GetCorrelation(cmd.Context(), userID, id)
		if err != nil {
			return nil, fmt.Errorf("correlation not found: %s", idArg)
		}
		return c, nil
	}

	correlations, err := svc.ListCorrelations(cmd.Context(), userID, models.CorrelationFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list correlations: %w", err)
	}
	return matchByIDPrefix(correlations, idArg)
}

// matchByIDPrefix finds the single correlation whose ID starts with idArg.
// Prefixes shorter than 4 characters never match.
func matchByIDPrefix(correlations []*models.Correlation, idArg string) (*models.Correlation, error) {
	var match *models.Correlation
	for _, c := range correlations {
		if len(idArg) >= 4 && strings.HasPrefix(c.ID.String(), idArg) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous prefix %s: matches multiple correlations", idArg)
			}
			match = c
		}
	}
	if match == nil {
		return nil, fmt.Errorf("correlation not found: %s", idArg)
	}
	return match, nil
}

func init() {
	correlationsCmd.Flags().StringVarP(&corrStatus, "status", "s", "", "filter by status (active, pinned, dismissed)")
	correlationsCmd.Flags().Float64Var(&corrMinCoef, "min-coefficient", 0, "minimum |coefficient|")
	correlationsCmd.Flags().IntVar(&corrLag, "lag", 0, "only correlations at this exact lag")
	correlationsCmd.Flags().IntVarP(&corrLimit, "limit", "n", 50, "max number of results")

	feedbackCmd.Flags().BoolVar(&feedbackHelpful, "helpful", true, "whether the insight was helpful")
	feedbackCmd.Flags().StringVar(&feedbackComment, "comment", "", "optional free-text comment")

	rootCmd.AddCommand(correlationsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(pinCmd)
	rootCmd.AddCommand(dismissCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(statsCmd)
}

// ABOUTME: Insights service facade: the operations the presentation layer consumes.
// ABOUTME: Explicitly constructed with injected storage and scanner; no package-level state.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lifelog/lifelog/internal/engine"
	"github.com/lifelog/lifelog/internal/models"
	"github.com/lifelog/lifelog/internal/storage"
	"github.com/lifelog/lifelog/internal/telemetry"
)

// Insights wraps the correlation engine and store behind the operations the
// API, CLI and MCP surfaces share.
type Insights struct {
	repo    storage.Repository
	scanner *engine.Scanner
	logger  *slog.Logger
}

// New constructs the service with its collaborators.
func New(repo storage.Repository, scanner *engine.Scanner, logger *slog.Logger) *Insights {
	if logger == nil {
		logger = slog.Default()
	}
	return &Insights{repo: repo, scanner: scanner, logger: logger}
}

// ListAvailableMetrics returns the metric catalog, optionally by category.
func (s *Insights) ListAvailableMetrics(ctx context.Context, category string) ([]models.MetricDefinition, error) {
	return s.repo.ListMetricDefinitions(ctx, category)
}

// LogDailyValue writes one daily metric point. The extraction pipeline is
// the usual writer; the CLI shares this path.
func (s *Insights) LogDailyValue(ctx context.Context, point models.DailyMetricPoint) error {
	if point.UserID == "" {
		return fmt.Errorf("user id is required")
	}
	if _, err := s.repo.GetMetricDefinition(ctx, point.MetricID); err != nil {
		return fmt.Errorf("metric %s: %w", point.MetricID, err)
	}
	return s.repo.UpsertDailyValue(ctx, point)
}

// ListCorrelations returns a user's correlations matching the filter.
func (s *Insights) ListCorrelations(ctx context.Context, userID string, filter models.CorrelationFilter) ([]*models.Correlation, error) {
	if filter.Status != "" && !models.IsValidStatus(string(filter.Status)) {
		return nil, fmt.Errorf("status %q: %w", filter.Status, storage.ErrInvalidStatus)
	}
	return s.repo.ListCorrelations(ctx, userID, filter)
}

// GetCorrelation returns one correlation scoped to the user.
func (s *Insights) GetCorrelation(ctx context.Context, userID string, id uuid.UUID) (*models.Correlation, error) {
	return s.repo.GetCorrelation(ctx, userID, id)
}

// CalculateCorrelations runs the full pairwise scan and returns whatever
// subset succeeded plus counters; it never fails wholesale because of one
// pair. Interrupted scans return the partial result alongside the context
// error.
func (s *Insights) CalculateCorrelations(ctx context.Context, userID string, opts models.ScanOptions) (*models.ScanResult, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	start := time.Now()
	result, err := s.scanner.Scan(ctx, userID, opts)
	duration := time.Since(start)

	if err != nil {
		telemetry.ObserveScan(duration, telemetry.OutcomeError, examinedOrZero(result), upsertedOrZero(result))
		return result, err
	}

	telemetry.ObserveScan(duration, telemetry.OutcomeSuccess, result.PairsExamined, result.CalculatedCount)
	return result, nil
}

// UpdateStatus pins, dismisses, or reactivates a correlation. It is the
// only path that changes curation state.
func (s *Insights) UpdateStatus(ctx context.Context, userID string, id uuid.UUID, status string) (*models.Correlation, error) {
	if !models.IsValidStatus(status) {
		return nil, fmt.Errorf("status %q: %w", status, storage.ErrInvalidStatus)
	}
	return s.repo.UpdateCorrelationStatus(ctx, userID, id, models.Status(status))
}

// SubmitFeedback appends a reaction to a correlation. The correlation must
// exist and belong to the user; the record itself is never mutated.
func (s *Insights) SubmitFeedback(ctx context.Context, userID string, id uuid.UUID, isHelpful bool, comment string) (*models.Feedback, error) {
	if _, err := s.repo.GetCorrelation(ctx, userID, id); err != nil {
		return nil, err
	}

	f := models.NewFeedback(id, userID, isHelpful)
	if comment != "" {
		f.WithComment(comment)
	}
	if err := s.repo.AddFeedback(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// GetStats returns aggregate correlation statistics for the dashboard.
func (s *Insights) GetStats(ctx context.Context, userID string) (*models.CorrelationStats, error) {
	return s.repo.CorrelationStats(ctx, userID)
}

// Export bundles the user's stored data for backup.
func (s *Insights) Export(ctx context.Context, userID string) (*storage.ExportData, error) {
	return s.repo.GetAllData(ctx, userID)
}

func examinedOrZero(r *models.ScanResult) int {
	if r == nil {
		return 0
	}
	return r.PairsExamined
}

func upsertedOrZero(r *models.ScanResult) int {
	if r == nil {
		return 0
	}
	return r.CalculatedCount
}

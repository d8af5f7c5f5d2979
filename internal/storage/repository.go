// ABOUTME: Repository interface for correlation engine storage.
// ABOUTME: Defines the contract for catalog, daily metrics, correlations, and feedback.
package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/lifelog/lifelog/internal/models"
)

// Repository defines the storage interface for the correlation backend.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Metric catalog (read-only input to the engine)
	ListMetricDefinitions(ctx context.Context, category string) ([]models.MetricDefinition, error)
	GetMetricDefinition(ctx context.Context, id string) (*models.MetricDefinition, error)

	// Daily metric values (written by the extraction pipeline)
	UpsertDailyValue(ctx context.Context, point models.DailyMetricPoint) error
	DailyValues(ctx context.Context, userID, metricID string) ([]models.DailyMetricPoint, error)
	AlignedPairs(ctx context.Context, userID, driverID, outcomeID string, lagDays int) ([]float64, []float64, error)
	DistinctMetricIDs(ctx context.Context, userID string) ([]string, error)

	// Correlation records and lifecycle
	UpsertCorrelation(ctx context.Context, c *models.Correlation) (*models.Correlation, error)
	GetCorrelation(ctx context.Context, userID string, id uuid.UUID) (*models.Correlation, error)
	ListCorrelations(ctx context.Context, userID string, filter models.CorrelationFilter) ([]*models.Correlation, error)
	UpdateCorrelationStatus(ctx context.Context, userID string, id uuid.UUID, status models.Status) (*models.Correlation, error)
	CorrelationStats(ctx context.Context, userID string) (*models.CorrelationStats, error)

	// Feedback log (append-only)
	AddFeedback(ctx context.Context, f *models.Feedback) error
	ListFeedback(ctx context.Context, correlationID uuid.UUID) ([]*models.Feedback, error)
	CountFeedback(ctx context.Context, correlationID uuid.UUID) (int, error)

	// Export/Import
	GetAllData(ctx context.Context, userID string) (*ExportData, error)

	// Lifecycle
	Close() error
}

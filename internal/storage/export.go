// ABOUTME: Full-data export for backups and the CLI export command.
// ABOUTME: Bundles a user's daily values, correlations, and feedback as one document.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/lifelog/lifelog/internal/models"
)

// ExportData bundles everything the product stores for one user.
type ExportData struct {
	UserID      string                    `json:"user_id"`
	ExportedAt  time.Time                 `json:"exported_at"`
	Metrics     []models.MetricDefinition `json:"metrics"`
	DailyValues []models.DailyMetricPoint `json:"daily_values"`
	Results     []*models.Correlation     `json:"correlations"`
	Feedback    []*models.Feedback        `json:"feedback"`
}

// GetAllData exports a user's data for backup.
func (d *DB) GetAllData(ctx context.Context, userID string) (*ExportData, error) {
	export := &ExportData{
		UserID:     userID,
		ExportedAt: time.Now().UTC(),
	}

	var err error
	if export.Metrics, err = d.ListMetricDefinitions(ctx, ""); err != nil {
		return nil, fmt.Errorf("export metrics: %w", err)
	}

	ids, err := d.DistinctMetricIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("export metric ids: %w", err)
	}
	for _, id := range ids {
		points, err := d.DailyValues(ctx, userID, id)
		if err != nil {
			return nil, fmt.Errorf("export daily values: %w", err)
		}
		export.DailyValues = append(export.DailyValues, points...)
	}

	if export.Results, err = d.ListCorrelations(ctx, userID, models.CorrelationFilter{}); err != nil {
		return nil, fmt.Errorf("export correlations: %w", err)
	}

	for _, c := range export.Results {
		entries, err := d.ListFeedback(ctx, c.ID)
		if err != nil {
			return nil, fmt.Errorf("export feedback: %w", err)
		}
		export.Feedback = append(export.Feedback, entries...)
	}

	return export, nil
}

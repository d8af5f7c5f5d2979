// ABOUTME: Metric catalog queries and built-in catalog seeding.
// ABOUTME: The catalog is read-only input to the correlation engine.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lifelog/lifelog/internal/models"
)

// seedCatalog inserts the built-in metric definitions, skipping ones that
// already exist so local edits survive restarts.
func (d *DB) seedCatalog() error {
	query := `
		INSERT OR IGNORE INTO metric_definitions (id, name, display_name, category, unit, data_type)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, m := range models.BuiltinMetrics {
		if _, err := d.db.Exec(query, m.ID, m.Name, m.DisplayName, string(m.Category), m.Unit, string(m.DataType)); err != nil {
			return fmt.Errorf("seed metric %s: %w", m.ID, err)
		}
	}
	return nil
}

// ListMetricDefinitions returns catalog entries, optionally filtered by category.
func (d *DB) ListMetricDefinitions(ctx context.Context, category string) ([]models.MetricDefinition, error) {
	query := `
		SELECT id, name, display_name, category, unit, data_type
		FROM metric_definitions
	`
	var args []interface{}
	if category != "" {
		query += " WHERE category = ?"
		args = append(args, category)
	}
	query += " ORDER BY category, id"

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list metric definitions: %w", err)
	}
	defer rows.Close()

	var defs []models.MetricDefinition
	for rows.Next() {
		var m models.MetricDefinition
		var category, dataType string
		if err := rows.Scan(&m.ID, &m.Name, &m.DisplayName, &category, &m.Unit, &dataType); err != nil {
			return nil, fmt.Errorf("scan metric definition: %w", err)
		}
		m.Category = models.MetricCategory(category)
		m.DataType = models.DataType(dataType)
		defs = append(defs, m)
	}

	return defs, rows.Err()
}

// GetMetricDefinition returns a single catalog entry by id.
func (d *DB) GetMetricDefinition(ctx context.Context, id string) (*models.MetricDefinition, error) {
	query := `
		SELECT id, name, display_name, category, unit, data_type
		FROM metric_definitions
		WHERE id = ?
	`
	var m models.MetricDefinition
	var category, dataType string
	err := d.db.QueryRowContext(ctx, query, id).Scan(&m.ID, &m.Name, &m.DisplayName, &category, &m.Unit, &dataType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("metric %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get metric definition: %w", err)
	}
	m.Category = models.MetricCategory(category)
	m.DataType = models.DataType(dataType)
	return &m, nil
}

// ABOUTME: Correlation record persistence: idempotent upsert, retrieval, status machine, stats.
// ABOUTME: The unique (user, driver, outcome, lag) constraint is the concurrency guarantee.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lifelog/lifelog/internal/models"
)

// UpsertCorrelation inserts a correlation or, when the (user, driver,
// outcome, lag) tuple already exists, refreshes the computed fields only.
// Status is never touched by recomputation; the stored record keeps its
// original id, status, and detected_at. Returns the stored row.
func (d *DB) UpsertCorrelation(ctx context.Context, c *models.Correlation) (*models.Correlation, error) {
	query := `
		INSERT INTO correlations (
			id, user_id, driver_metric_id, outcome_metric_id, lag_days,
			coefficient, p_value, sample_size, data_points_count, status,
			detected_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, driver_metric_id, outcome_metric_id, lag_days) DO UPDATE SET
			coefficient       = excluded.coefficient,
			p_value           = excluded.p_value,
			sample_size       = excluded.sample_size,
			data_points_count = excluded.data_points_count,
			updated_at        = excluded.updated_at
	`
	_, err := d.db.ExecContext(ctx, query,
		c.ID.String(),
		c.UserID,
		c.DriverMetricID,
		c.OutcomeMetricID,
		c.LagDays,
		c.Coefficient,
		c.PValue,
		c.SampleSize,
		c.DataPointsCount,
		string(c.Status),
		c.DetectedAt.Format(time.RFC3339),
		c.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert correlation: %w", err)
	}

	return d.getByTuple(ctx, c.UserID, c.DriverMetricID, c.OutcomeMetricID, c.LagDays)
}

// GetCorrelation retrieves a correlation by id, scoped to the user.
func (d *DB) GetCorrelation(ctx context.Context, userID string, id uuid.UUID) (*models.Correlation, error) {
	query := selectCorrelation + " WHERE user_id = ? AND id = ?"
	c, err := d.scanCorrelation(d.db.QueryRowContext(ctx, query, userID, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("correlation %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

// ListCorrelations returns a user's correlations matching the filter,
// strongest first, then most recently updated.
func (d *DB) ListCorrelations(ctx context.Context, userID string, filter models.CorrelationFilter) ([]*models.Correlation, error) {
	query := selectCorrelation + " WHERE user_id = ?"
	args := []interface{}{userID}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, string(filter.Status))
	}
	if filter.MinCoefficient > 0 {
		query += " AND ABS(coefficient) >= ?"
		args = append(args, filter.MinCoefficient)
	}
	if filter.LagDays != nil {
		query += " AND lag_days = ?"
		args = append(args, *filter.LagDays)
	}

	query += " ORDER BY ABS(coefficient) DESC, updated_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list correlations: %w", err)
	}
	defer rows.Close()

	return d.scanCorrelations(rows)
}

// UpdateCorrelationStatus is the only path that changes a record's status.
// Invalid target values are rejected before any mutation.
func (d *DB) UpdateCorrelationStatus(ctx context.Context, userID string, id uuid.UUID, status models.Status) (*models.Correlation, error) {
	if !models.IsValidStatus(string(status)) {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}

	result, err := d.db.ExecContext(ctx,
		"UPDATE correlations SET status = ?, updated_at = ? WHERE user_id = ? AND id = ?",
		string(status), time.Now().UTC().Format(time.RFC3339), userID, id.String())
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("correlation %s: %w", id, ErrNotFound)
	}

	return d.GetCorrelation(ctx, userID, id)
}

// CorrelationStats aggregates a user's correlations. Safe on zero records:
// counts are zero and the mean is nil, never NaN.
func (d *DB) CorrelationStats(ctx context.Context, userID string) (*models.CorrelationStats, error) {
	stats := &models.CorrelationStats{ByStatus: make(map[models.Status]int)}

	rows, err := d.db.QueryContext(ctx,
		"SELECT status, COUNT(*) FROM correlations WHERE user_id = ? GROUP BY status", userID)
	if err != nil {
		return nil, fmt.Errorf("stats by status: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		stats.ByStatus[models.Status(status)] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var mean sql.NullFloat64
	err = d.db.QueryRowContext(ctx, `
		SELECT
			COUNT(CASE WHEN ABS(coefficient) > ? THEN 1 END),
			COUNT(CASE WHEN ABS(coefficient) BETWEEN ? AND ? THEN 1 END),
			AVG(ABS(coefficient))
		FROM correlations
		WHERE user_id = ?
	`, models.StrongThreshold, models.ModerateThreshold, models.StrongThreshold, userID).
		Scan(&stats.Strong, &stats.Moderate, &mean)
	if err != nil {
		return nil, fmt.Errorf("stats buckets: %w", err)
	}
	if mean.Valid {
		stats.MeanAbsCoefficient = &mean.Float64
	}

	return stats, nil
}

const selectCorrelation = `
	SELECT id, user_id, driver_metric_id, outcome_metric_id, lag_days,
	       coefficient, p_value, sample_size, data_points_count, status,
	       detected_at, updated_at
	FROM correlations
`

func (d *DB) getByTuple(ctx context.Context, userID, driver, outcome string, lagDays int) (*models.Correlation, error) {
	query := selectCorrelation + `
		WHERE user_id = ? AND driver_metric_id = ? AND outcome_metric_id = ? AND lag_days = ?
	`
	c, err := d.scanCorrelation(d.db.QueryRowContext(ctx, query, userID, driver, outcome, lagDays))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("correlation tuple: %w", ErrNotFound)
		}
		return nil, err
	}
	return c, nil
}

// scanCorrelation scans a single row into a Correlation struct.
func (d *DB) scanCorrelation(row *sql.Row) (*models.Correlation, error) {
	var c models.Correlation
	var idStr, status, detectedAt, updatedAt string

	err := row.Scan(&idStr, &c.UserID, &c.DriverMetricID, &c.OutcomeMetricID, &c.LagDays,
		&c.Coefficient, &c.PValue, &c.SampleSize, &c.DataPointsCount, &status,
		&detectedAt, &updatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan correlation: %w", err)
	}

	c.ID, _ = uuid.Parse(idStr)
	c.Status = models.Status(status)
	c.DetectedAt, _ = time.Parse(time.RFC3339, detectedAt)
	c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

	return &c, nil
}

// scanCorrelations scans multiple rows into a slice of Correlations.
func (d *DB) scanCorrelations(rows *sql.Rows) ([]*models.Correlation, error) {
	var correlations []*models.Correlation

	for rows.Next() {
		var c models.Correlation
		var idStr, status, detectedAt, updatedAt string

		err := rows.Scan(&idStr, &c.UserID, &c.DriverMetricID, &c.OutcomeMetricID, &c.LagDays,
			&c.Coefficient, &c.PValue, &c.SampleSize, &c.DataPointsCount, &status,
			&detectedAt, &updatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan correlation: %w", err)
		}

		c.ID, _ = uuid.Parse(idStr)
		c.Status = models.Status(status)
		c.DetectedAt, _ = time.Parse(time.RFC3339, detectedAt)
		c.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)

		correlations = append(correlations, &c)
	}

	return correlations, rows.Err()
}

// ABOUTME: Daily metric value queries, including the lag-aligned pair join.
// ABOUTME: One value per user/metric/day; alignment uses exact date matches only.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/lifelog/lifelog/internal/models"
)

// UpsertDailyValue stores one value per user/metric/day. The extraction
// pipeline overwrites the day's value when a log is re-classified.
func (d *DB) UpsertDailyValue(ctx context.Context, point models.DailyMetricPoint) error {
	query := `
		INSERT INTO daily_metrics (user_id, metric_id, date, value)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, metric_id, date) DO UPDATE SET value = excluded.value
	`
	_, err := d.db.ExecContext(ctx, query, point.UserID, point.MetricID, point.DayKey(), point.Value)
	if err != nil {
		return fmt.Errorf("upsert daily value: %w", err)
	}
	return nil
}

// DailyValues returns a user's series for one metric, oldest first.
func (d *DB) DailyValues(ctx context.Context, userID, metricID string) ([]models.DailyMetricPoint, error) {
	query := `
		SELECT user_id, metric_id, date, value
		FROM daily_metrics
		WHERE user_id = ? AND metric_id = ?
		ORDER BY date
	`
	rows, err := d.db.QueryContext(ctx, query, userID, metricID)
	if err != nil {
		return nil, fmt.Errorf("daily values: %w", err)
	}
	defer rows.Close()

	var points []models.DailyMetricPoint
	for rows.Next() {
		var p models.DailyMetricPoint
		var date string
		if err := rows.Scan(&p.UserID, &p.MetricID, &date, &p.Value); err != nil {
			return nil, fmt.Errorf("scan daily value: %w", err)
		}
		p.Date, _ = time.Parse(models.DateLayout, date)
		points = append(points, p)
	}

	return points, rows.Err()
}

// AlignedPairs joins the driver's value on day D with the outcome's value on
// day D+lagDays. Only exact date matches survive the join; days missing on
// either side are dropped, never interpolated.
func (d *DB) AlignedPairs(ctx context.Context, userID, driverID, outcomeID string, lagDays int) ([]float64, []float64, error) {
	query := `
		SELECT drv.value, out.value
		FROM daily_metrics drv
		JOIN daily_metrics out
		  ON out.user_id = drv.user_id
		 AND out.metric_id = ?
		 AND out.date = date(drv.date, ?)
		WHERE drv.user_id = ? AND drv.metric_id = ?
		ORDER BY drv.date
	`
	offset := fmt.Sprintf("+%d days", lagDays)
	rows, err := d.db.QueryContext(ctx, query, outcomeID, offset, userID, driverID)
	if err != nil {
		return nil, nil, fmt.Errorf("aligned pairs: %w", err)
	}
	defer rows.Close()

	var xs, ys []float64
	for rows.Next() {
		var x, y float64
		if err := rows.Scan(&x, &y); err != nil {
			return nil, nil, fmt.Errorf("scan aligned pair: %w", err)
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}

	return xs, ys, rows.Err()
}

// DistinctMetricIDs returns the metric ids with at least one data point for
// the user. This is the scan orchestrator's pair universe.
func (d *DB) DistinctMetricIDs(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT DISTINCT metric_id
		FROM daily_metrics
		WHERE user_id = ?
		ORDER BY metric_id
	`
	rows, err := d.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("distinct metric ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan metric id: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CountDailyValues returns how many raw data points back a user's pair scan.
func (d *DB) CountDailyValues(ctx context.Context, userID string) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM daily_metrics WHERE user_id = ?", userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count daily values: %w", err)
	}
	return count, nil
}

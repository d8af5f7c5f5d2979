// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines metric_definitions, daily_metrics, correlations, and correlation_feedback.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS metric_definitions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		display_name TEXT NOT NULL,
		category TEXT NOT NULL,
		unit TEXT NOT NULL,
		data_type TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_metrics (
		user_id TEXT NOT NULL,
		metric_id TEXT NOT NULL,
		date TEXT NOT NULL,
		value REAL NOT NULL,
		UNIQUE(user_id, metric_id, date),
		FOREIGN KEY (metric_id) REFERENCES metric_definitions(id)
	);

	CREATE TABLE IF NOT EXISTS correlations (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		driver_metric_id TEXT NOT NULL,
		outcome_metric_id TEXT NOT NULL,
		lag_days INTEGER NOT NULL CHECK (lag_days >= 0),
		coefficient REAL NOT NULL CHECK (coefficient BETWEEN -1 AND 1),
		p_value REAL NOT NULL CHECK (p_value BETWEEN 0.001 AND 0.999),
		sample_size INTEGER NOT NULL,
		data_points_count INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'active'
			CHECK (status IN ('active', 'pinned', 'dismissed')),
		detected_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		CHECK (driver_metric_id <> outcome_metric_id),
		UNIQUE(user_id, driver_metric_id, outcome_metric_id, lag_days)
	);

	CREATE TABLE IF NOT EXISTS correlation_feedback (
		id TEXT PRIMARY KEY,
		correlation_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		is_helpful INTEGER NOT NULL,
		comment TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (correlation_id) REFERENCES correlations(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_daily_metrics_user_metric ON daily_metrics(user_id, metric_id, date);
	CREATE INDEX IF NOT EXISTS idx_correlations_user ON correlations(user_id);
	CREATE INDEX IF NOT EXISTS idx_correlations_user_status ON correlations(user_id, status);
	CREATE INDEX IF NOT EXISTS idx_feedback_correlation ON correlation_feedback(correlation_id);
	`

	_, err := d.db.Exec(schema)
	return err
}

// ABOUTME: Append-only feedback log operations.
// ABOUTME: Feedback references a correlation but never mutates it.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lifelog/lifelog/internal/models"
)

// AddFeedback appends a feedback entry. Multiple submissions per correlation
// are permitted; there is no per-user idempotency key.
func (d *DB) AddFeedback(ctx context.Context, f *models.Feedback) error {
	query := `
		INSERT INTO correlation_feedback (id, correlation_id, user_id, is_helpful, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.ExecContext(ctx, query,
		f.ID.String(),
		f.CorrelationID.String(),
		f.UserID,
		f.IsHelpful,
		f.Comment,
		f.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("add feedback: %w", err)
	}
	return nil
}

// ListFeedback returns feedback for a correlation, newest first.
func (d *DB) ListFeedback(ctx context.Context, correlationID uuid.UUID) ([]*models.Feedback, error) {
	query := `
		SELECT id, correlation_id, user_id, is_helpful, comment, created_at
		FROM correlation_feedback
		WHERE correlation_id = ?
		ORDER BY created_at DESC
	`
	rows, err := d.db.QueryContext(ctx, query, correlationID.String())
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	defer rows.Close()

	var entries []*models.Feedback
	for rows.Next() {
		var f models.Feedback
		var idStr, corrStr, createdAt string
		var comment sql.NullString

		if err := rows.Scan(&idStr, &corrStr, &f.UserID, &f.IsHelpful, &comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}

		f.ID, _ = uuid.Parse(idStr)
		f.CorrelationID, _ = uuid.Parse(corrStr)
		f.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		if comment.Valid {
			f.Comment = &comment.String
		}

		entries = append(entries, &f)
	}

	return entries, rows.Err()
}

// CountFeedback returns the number of feedback entries for a correlation.
func (d *DB) CountFeedback(ctx context.Context, correlationID uuid.UUID) (int, error) {
	var count int
	err := d.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM correlation_feedback WHERE correlation_id = ?",
		correlationID.String()).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count feedback: %w", err)
	}
	return count, nil
}

// ABOUTME: Feedback model for user reactions to surfaced correlations.
// ABOUTME: Append-only; repeat submissions per correlation are allowed.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Feedback records one user reaction to a correlation. It never mutates the
// correlation itself.
type Feedback struct {
	ID            uuid.UUID `json:"id"`
	CorrelationID uuid.UUID `json:"correlation_id"`
	UserID        string    `json:"user_id"`
	IsHelpful     bool      `json:"is_helpful"`
	Comment       *string   `json:"comment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewFeedback creates a feedback entry with a fresh ID and timestamp.
func NewFeedback(correlationID uuid.UUID, userID string, isHelpful bool) *Feedback {
	return &Feedback{
		ID:            uuid.New(),
		CorrelationID: correlationID,
		UserID:        userID,
		IsHelpful:     isHelpful,
		CreatedAt:     time.Now().UTC(),
	}
}

// WithComment attaches an optional comment.
func (f *Feedback) WithComment(comment string) *Feedback {
	f.Comment = &comment
	return f
}

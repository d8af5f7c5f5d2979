// ABOUTME: Curation sync operations for Charm KV storage.
// ABOUTME: Pushes and pulls status overrides and feedback, the only non-recomputable data.
package charm

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/lifelog/lifelog/internal/models"
	"github.com/lifelog/lifelog/internal/storage"
)

// CurationRecord mirrors a correlation's user-set status in the cloud.
// Correlations themselves are recomputable from daily metrics, so only
// the curation decision is synced, keyed by the correlation's natural tuple.
type CurationRecord struct {
	UserID    string        `json:"user_id"`
	Driver    string        `json:"driver_metric_id"`
	Outcome   string        `json:"outcome_metric_id"`
	LagDays   int           `json:"lag_days"`
	Status    models.Status `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// curationKey builds the KV key for a curation record.
func curationKey(userID, driver, outcome string, lagDays int) string {
	return CurationPrefix + userID + ":" + driver + ":" + outcome + ":" + strconv.Itoa(lagDays)
}

// parseCurationKey splits a curation key back into its tuple parts.
func parseCurationKey(key string) (userID, driver, outcome string, lagDays int, err error) {
	rest := strings.TrimPrefix(key, CurationPrefix)
	parts := strings.Split(rest, ":")
	if len(parts) != 4 {
		return "", "", "", 0, fmt.Errorf("malformed curation key: %s", key)
	}
	lag, err := strconv.Atoi(parts[3])
	if err != nil {
		return "", "", "", 0, fmt.Errorf("malformed lag in curation key %s: %w", key, err)
	}
	return parts[0], parts[1], parts[2], lag, nil
}

// feedbackKey builds the KV key for a feedback entry.
func feedbackKey(f *models.Feedback) string {
	return FeedbackPrefix + f.ID.String()
}

// PushCuration stores a correlation's status decision in the KV store.
func (c *Client) PushCuration(cor *models.Correlation) error {
	rec := CurationRecord{
		UserID:    cor.UserID,
		Driver:    cor.DriverMetricID,
		Outcome:   cor.OutcomeMetricID,
		LagDays:   cor.LagDays,
		Status:    cor.Status,
		UpdatedAt: time.Now().UTC(),
	}

	key := curationKey(rec.UserID, rec.Driver, rec.Outcome, rec.LagDays)
	data, err := marshalJSON(rec)
	if err != nil {
		return fmt.Errorf("marshal curation: %w", err)
	}
	return c.set(key, data)
}

// PullCurations retrieves all curation records from the KV store.
func (c *Client) PullCurations() ([]CurationRecord, error) {
	allData, err := c.listByPrefix(CurationPrefix)
	if err != nil {
		return nil, fmt.Errorf("list curations: %w", err)
	}

	var records []CurationRecord
	for _, data := range allData {
		rec, err := unmarshalJSON[CurationRecord](data)
		if err != nil {
			continue // Skip invalid entries
		}
		records = append(records, *rec)
	}
	return records, nil
}

// PushFeedback stores a feedback entry in the KV store.
func (c *Client) PushFeedback(f *models.Feedback) error {
	data, err := marshalJSON(f)
	if err != nil {
		return fmt.Errorf("marshal feedback: %w", err)
	}
	return c.set(feedbackKey(f), data)
}

// PullFeedback retrieves all feedback entries from the KV store.
func (c *Client) PullFeedback() ([]*models.Feedback, error) {
	allData, err := c.listByPrefix(FeedbackPrefix)
	if err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}

	var entries []*models.Feedback
	for _, data := range allData {
		f, err := unmarshalJSON[models.Feedback](data)
		if err != nil {
			continue // Skip invalid entries
		}
		entries = append(entries, f)
	}
	return entries, nil
}

// PushAll uploads every curated status and feedback entry for a user.
// Active records are pushed too so remote dismissals can be undone locally.
func (c *Client) PushAll(ctx context.Context, repo storage.Repository, userID string) (int, error) {
	correlations, err := repo.ListCorrelations(ctx, userID, models.CorrelationFilter{})
	if err != nil {
		return 0, fmt.Errorf("list correlations: %w", err)
	}

	pushed := 0
	for _, cor := range correlations {
		if err := c.PushCuration(cor); err != nil {
			return pushed, fmt.Errorf("push curation %s->%s lag %d: %w",
				cor.DriverMetricID, cor.OutcomeMetricID, cor.LagDays, err)
		}
		pushed++

		feedback, err := repo.ListFeedback(ctx, cor.ID)
		if err != nil {
			return pushed, fmt.Errorf("list feedback: %w", err)
		}
		for _, f := range feedback {
			if err := c.PushFeedback(f); err != nil {
				return pushed, fmt.Errorf("push feedback %s: %w", f.ID, err)
			}
		}
	}
	return pushed, nil
}

// ApplyRemote applies pulled curation records to the local store. A remote
// status wins when it differs from the local one; correlations not present
// locally are skipped since a rescan will recreate them.
func (c *Client) ApplyRemote(ctx context.Context, repo storage.Repository, userID string) (int, error) {
	records, err := c.PullCurations()
	if err != nil {
		return 0, err
	}

	correlations, err := repo.ListCorrelations(ctx, userID, models.CorrelationFilter{})
	if err != nil {
		return 0, fmt.Errorf("list correlations: %w", err)
	}

	byTuple := make(map[string]*models.Correlation, len(correlations))
	for _, cor := range correlations {
		byTuple[curationKey(cor.UserID, cor.DriverMetricID, cor.OutcomeMetricID, cor.LagDays)] = cor
	}

	applied := 0
	for _, rec := range records {
		if rec.UserID != userID {
			continue
		}
		local, ok := byTuple[curationKey(rec.UserID, rec.Driver, rec.Outcome, rec.LagDays)]
		if !ok || local.Status == rec.Status {
			continue
		}
		if _, err := repo.UpdateCorrelationStatus(ctx, userID, local.ID, rec.Status); err != nil {
			return applied, fmt.Errorf("apply curation %s->%s lag %d: %w",
				rec.Driver, rec.Outcome, rec.LagDays, err)
		}
		applied++
	}
	return applied, nil
}

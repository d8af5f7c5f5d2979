// ABOUTME: Tests for the Insights service facade.
// ABOUTME: Validation happens before mutation; feedback leaves correlations untouched.
package service

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lifelog/lifelog/internal/engine"
	"github.com/lifelog/lifelog/internal/models"
	"github.com/lifelog/lifelog/internal/storage"
)

func setupService(t *testing.T) (*Insights, *storage.DB) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.DiscardHandler)
	return New(db, engine.NewScanner(db, logger), logger), db
}

func seedCorrelated(t *testing.T, svc *Insights, userID string, days int) {
	t.Helper()
	ctx := context.Background()
	start, _ := time.Parse(models.DateLayout, "2025-07-01")
	values := []float64{7.2, 5.9, 8.1, 6.4, 7.8, 5.5, 6.9, 8.3, 6.1, 7.0, 5.8, 8.0, 6.6, 7.4, 5.6, 7.9, 6.2, 8.2, 6.8, 7.1}

	for i := 0; i < days; i++ {
		v := values[i%len(values)]
		date := start.AddDate(0, 0, i)
		if err := svc.LogDailyValue(ctx, models.DailyMetricPoint{UserID: userID, MetricID: "sleep_hours", Date: date, Value: v}); err != nil {
			t.Fatalf("LogDailyValue failed: %v", err)
		}
		if err := svc.LogDailyValue(ctx, models.DailyMetricPoint{UserID: userID, MetricID: "mood", Date: date, Value: 10 - v}); err != nil {
			t.Fatalf("LogDailyValue failed: %v", err)
		}
	}
}

func TestLogDailyValueValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	date, _ := time.Parse(models.DateLayout, "2025-07-01")

	err := svc.LogDailyValue(ctx, models.DailyMetricPoint{UserID: "u1", MetricID: "not_a_metric", Date: date, Value: 1})
	if err == nil {
		t.Error("unknown metric accepted")
	}
	if err := svc.LogDailyValue(ctx, models.DailyMetricPoint{MetricID: "mood", Date: date, Value: 1}); err == nil {
		t.Error("missing user accepted")
	}
}

func TestCalculateThenCurate(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()
	seedCorrelated(t, svc, "u1", 18)

	result, err := svc.CalculateCorrelations(ctx, "u1", models.ScanOptions{})
	if err != nil {
		t.Fatalf("CalculateCorrelations failed: %v", err)
	}
	if result.CalculatedCount == 0 {
		t.Fatal("expected records from anti-correlated seed data")
	}

	records, err := svc.ListCorrelations(ctx, "u1", models.CorrelationFilter{MinCoefficient: 0.5})
	if err != nil {
		t.Fatalf("ListCorrelations failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("expected strong correlations in listing")
	}
	for _, c := range records {
		if c.AbsCoefficient() < 0.5 {
			t.Errorf("filter leaked |r|=%v", c.AbsCoefficient())
		}
	}

	target := records[0]
	pinned, err := svc.UpdateStatus(ctx, "u1", target.ID, "pinned")
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if pinned.Status != models.StatusPinned {
		t.Errorf("status = %q, want pinned", pinned.Status)
	}

	// Invalid status is rejected before any mutation.
	if _, err := svc.UpdateStatus(ctx, "u1", target.ID, "starred"); !errors.Is(err, storage.ErrInvalidStatus) {
		t.Errorf("invalid status: got %v, want ErrInvalidStatus", err)
	}
	unchanged, _ := svc.GetCorrelation(ctx, "u1", target.ID)
	if unchanged.Status != models.StatusPinned {
		t.Errorf("rejected update mutated status to %q", unchanged.Status)
	}

	// Recomputation preserves curation.
	if _, err := svc.CalculateCorrelations(ctx, "u1", models.ScanOptions{}); err != nil {
		t.Fatalf("rescan failed: %v", err)
	}
	after, _ := svc.GetCorrelation(ctx, "u1", target.ID)
	if after.Status != models.StatusPinned {
		t.Errorf("rescan reset status to %q", after.Status)
	}
}

func TestSubmitFeedback(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()
	seedCorrelated(t, svc, "u1", 18)

	if _, err := svc.CalculateCorrelations(ctx, "u1", models.ScanOptions{}); err != nil {
		t.Fatalf("scan failed: %v", err)
	}
	records, _ := svc.ListCorrelations(ctx, "u1", models.CorrelationFilter{Limit: 1})
	if len(records) == 0 {
		t.Fatal("no records to react to")
	}
	target := records[0]

	f, err := svc.SubmitFeedback(ctx, "u1", target.ID, true, "this matches my experience")
	if err != nil {
		t.Fatalf("SubmitFeedback failed: %v", err)
	}
	if f.Comment == nil || *f.Comment == "" {
		t.Error("comment lost")
	}

	// Feedback on another user's record is not found.
	if _, err := svc.SubmitFeedback(ctx, "intruder", target.ID, false, ""); !storage.IsNotFound(err) {
		t.Errorf("cross-user feedback: got %v, want not found", err)
	}

	// Re-fetch: correlation untouched, feedback queryable independently.
	after, _ := svc.GetCorrelation(ctx, "u1", target.ID)
	if after.Coefficient != target.Coefficient || after.Status != target.Status {
		t.Error("feedback mutated the correlation")
	}
	count, err := db.CountFeedback(ctx, target.ID)
	if err != nil {
		t.Fatalf("CountFeedback failed: %v", err)
	}
	if count != 1 {
		t.Errorf("feedback count = %d, want 1", count)
	}
}

func TestGetCorrelationUnknownID(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	if _, err := svc.GetCorrelation(ctx, "u1", uuid.New()); !storage.IsNotFound(err) {
		t.Errorf("unknown id: got %v, want not found", err)
	}
	if _, err := svc.UpdateStatus(ctx, "u1", uuid.New(), "pinned"); !storage.IsNotFound(err) {
		t.Errorf("unknown id update: got %v, want not found", err)
	}
}

func TestGetStatsEmptyUser(t *testing.T) {
	svc, _ := setupService(t)

	stats, err := svc.GetStats(context.Background(), "new-user")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Total != 0 || stats.MeanAbsCoefficient != nil {
		t.Errorf("empty stats wrong: %+v", stats)
	}
}

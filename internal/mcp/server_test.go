// ABOUTME: Tests for MCP server, tools, and resources.
// ABOUTME: Covers NewServer, tool handlers, and resource handlers.
package mcp

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/lifelog/lifelog/internal/engine"
	"github.com/lifelog/lifelog/internal/models"
	"github.com/lifelog/lifelog/internal/service"
	"github.com/lifelog/lifelog/internal/storage"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// setupTestServer wires a temp SQLite store behind the MCP server.
func setupTestServer(t *testing.T) (*Server, *storage.DB) {
	t.Helper()

	db, err := storage.Open(filepath.Join(t.TempDir(), "lifelog.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.DiscardHandler)
	svc := service.New(db, engine.NewScanner(db, logger), logger)

	server, err := NewServer(svc, "u1")
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	return server, db
}

// seedCorrelatedPair logs two perfectly anti-correlated metrics for u1.
func seedCorrelatedPair(t *testing.T, db *storage.DB) {
	t.Helper()
	ctx := context.Background()
	start, _ := time.Parse(models.DateLayout, "2025-08-01")
	values := []float64{7.2, 5.9, 8.1, 6.4, 7.8, 5.5, 6.9, 8.3, 6.1, 7.0, 5.8, 8.0, 6.6, 7.4, 5.6, 7.9}

	for i, v := range values {
		date := start.AddDate(0, 0, i)
		points := []models.DailyMetricPoint{
			{UserID: "u1", MetricID: "sleep_hours", Date: date, Value: v},
			{UserID: "u1", MetricID: "stress", Date: date, Value: 10 - v},
		}
		for _, p := range points {
			if err := db.UpsertDailyValue(ctx, p); err != nil {
				t.Fatalf("seed failed: %v", err)
			}
		}
	}
}

func TestNewServer(t *testing.T) {
	server, _ := setupTestServer(t)

	if server.mcpServer == nil {
		t.Error("Expected non-nil mcpServer")
	}
	if server.svc == nil {
		t.Error("Expected non-nil service")
	}
	if server.userID != "u1" {
		t.Errorf("userID = %q, want u1", server.userID)
	}
}

func TestHandleLogMetric(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		input   logMetricInput
		wantErr bool
	}{
		{
			name:  "valid metric defaults to today",
			input: logMetricInput{MetricID: "sleep_hours", Value: 7.5},
		},
		{
			name:  "valid metric with explicit date",
			input: logMetricInput{MetricID: "mood", Value: 6, Date: "2025-08-14"},
		},
		{
			name:    "unknown metric",
			input:   logMetricInput{MetricID: "blood_sugar", Value: 90},
			wantErr: true,
		},
		{
			name:    "malformed date",
			input:   logMetricInput{MetricID: "mood", Value: 6, Date: "14/08/2025"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := server.handleLogMetric(ctx, &mcp.CallToolRequest{}, tt.input)

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
				return
			}
			if output.Message == "" {
				t.Error("Expected non-empty Message")
			}
		})
	}
}

func TestHandleListMetrics(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, output, err := server.handleListMetrics(ctx, &mcp.CallToolRequest{}, listMetricsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	metrics, ok := output.([]models.MetricDefinition)
	if !ok {
		t.Fatalf("Expected metric slice output, got %T", output)
	}
	if len(metrics) == 0 {
		t.Error("Expected seeded catalog to be non-empty")
	}

	_, output, err = server.handleListMetrics(ctx, &mcp.CallToolRequest{}, listMetricsInput{Category: "nutrition"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	filtered, ok := output.([]models.MetricDefinition)
	if !ok {
		t.Fatalf("Expected metric slice output, got %T", output)
	}
	for _, m := range filtered {
		if m.Category != models.CategoryNutrition {
			t.Errorf("category filter leaked %s", m.ID)
		}
	}
}

func TestHandleCalculateAndList(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	seedCorrelatedPair(t, db)

	maxLag := 1
	_, output, err := server.handleCalculate(ctx, &mcp.CallToolRequest{}, calculateInput{MaxLagDays: &maxLag})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, ok := output.(*models.ScanResult)
	if !ok {
		t.Fatalf("Expected scan result, got %T", output)
	}
	if result.CalculatedCount == 0 {
		t.Fatal("Expected correlations from perfectly anti-correlated data")
	}

	_, output, err = server.handleListCorrelations(ctx, &mcp.CallToolRequest{}, listCorrelationsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	correlations, ok := output.([]*models.Correlation)
	if !ok {
		t.Fatalf("Expected correlation slice, got %T", output)
	}
	if len(correlations) == 0 {
		t.Error("Expected listed correlations")
	}
	for _, c := range correlations {
		if c.UserID != "u1" {
			t.Errorf("foreign user record leaked: %s", c.UserID)
		}
	}
}

func TestHandleListCorrelationsEmpty(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	_, output, err := server.handleListCorrelations(ctx, &mcp.CallToolRequest{}, listCorrelationsInput{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, ok := output.(map[string]any); !ok {
		t.Errorf("Expected message map for empty results, got %T", output)
	}
}

func TestHandleCurationFlow(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	seedCorrelatedPair(t, db)

	if _, _, err := server.handleCalculate(ctx, &mcp.CallToolRequest{}, calculateInput{}); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	_, output, err := server.handleListCorrelations(ctx, &mcp.CallToolRequest{}, listCorrelationsInput{Limit: 1})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	correlations := output.([]*models.Correlation)
	id := correlations[0].ID.String()

	// Pin it.
	_, output, err = server.handleUpdateStatus(ctx, &mcp.CallToolRequest{}, updateStatusInput{ID: id, Status: "pinned"})
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	updated, ok := output.(*models.Correlation)
	if !ok || updated.Status != models.StatusPinned {
		t.Errorf("Expected pinned correlation, got %#v", output)
	}

	// Invalid status rejected.
	if _, _, err := server.handleUpdateStatus(ctx, &mcp.CallToolRequest{}, updateStatusInput{ID: id, Status: "archived"}); err == nil {
		t.Error("Expected error for invalid status")
	}

	// Feedback.
	_, fb, err := server.handleSubmitFeedback(ctx, &mcp.CallToolRequest{}, submitFeedbackInput{
		ID: id, IsHelpful: true, Comment: "matches my experience",
	})
	if err != nil {
		t.Fatalf("feedback failed: %v", err)
	}
	if fb.Message == "" {
		t.Error("Expected non-empty feedback message")
	}

	// Fetch single.
	_, output, err = server.handleGetCorrelation(ctx, &mcp.CallToolRequest{}, correlationIDInput{ID: id})
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	got, ok := output.(*models.Correlation)
	if !ok || got.Status != models.StatusPinned {
		t.Errorf("Expected pinned record back, got %#v", output)
	}
}

func TestHandleGetCorrelationBadID(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	if _, _, err := server.handleGetCorrelation(ctx, &mcp.CallToolRequest{}, correlationIDInput{ID: "not-a-uuid"}); err == nil {
		t.Error("Expected error for malformed id")
	}
	if _, _, err := server.handleGetCorrelation(ctx, &mcp.CallToolRequest{}, correlationIDInput{
		ID: "6f1e19d2-4a4b-4be7-9d3f-111111111111",
	}); err == nil {
		t.Error("Expected error for unknown id")
	}
}

func TestHandleStats(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	seedCorrelatedPair(t, db)

	if _, _, err := server.handleCalculate(ctx, &mcp.CallToolRequest{}, calculateInput{}); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	_, output, err := server.handleStats(ctx, &mcp.CallToolRequest{}, struct{}{})
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	stats, ok := output.(*models.CorrelationStats)
	if !ok {
		t.Fatalf("Expected stats, got %T", output)
	}
	if stats.Total == 0 {
		t.Error("Expected non-zero total after scan")
	}
}

func TestHandleCatalogResource(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := server.handleCatalogResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Contents) == 0 {
		t.Fatal("Expected non-empty contents")
	}
	if result.Contents[0].URI != "lifelog://catalog" {
		t.Errorf("URI = %s, want lifelog://catalog", result.Contents[0].URI)
	}
	if result.Contents[0].MIMEType != "application/json" {
		t.Errorf("MIMEType = %s, want application/json", result.Contents[0].MIMEType)
	}
	if !contains(result.Contents[0].Text, "sleep_hours") {
		t.Error("Expected sleep_hours in catalog")
	}
}

func TestHandleInsightsResource(t *testing.T) {
	server, db := setupTestServer(t)
	ctx := context.Background()
	seedCorrelatedPair(t, db)

	if _, _, err := server.handleCalculate(ctx, &mcp.CallToolRequest{}, calculateInput{}); err != nil {
		t.Fatalf("calculate failed: %v", err)
	}

	result, err := server.handleInsightsResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "lifelog://insights" {
		t.Errorf("URI = %s, want lifelog://insights", result.Contents[0].URI)
	}
	if !contains(result.Contents[0].Text, "sleep_hours") {
		t.Error("Expected discovered driver in insights payload")
	}
}

func TestHandleSummaryResourceEmpty(t *testing.T) {
	server, _ := setupTestServer(t)
	ctx := context.Background()

	result, err := server.handleSummaryResource(ctx, &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Contents[0].URI != "lifelog://summary" {
		t.Errorf("URI = %s, want lifelog://summary", result.Contents[0].URI)
	}
	if !contains(result.Contents[0].Text, "\"total\": 0") {
		t.Errorf("Expected zero total in empty summary, got %s", result.Contents[0].Text)
	}
}

// Helper function.
func contains(s, substr string) bool {
	return len(s) >= len(substr) && (s == substr || len(s) > 0 && containsImpl(s, substr))
}

func containsImpl(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// ABOUTME: MCP tool implementations for the correlation store.
// ABOUTME: Covers metric logging, scans, curation, and feedback.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lifelog/lifelog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerTools() {
	// log_metric
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "log_metric",
		Description: "Record a daily value for a tracked metric (sleep_hours, mood, caffeine_mg, etc.)",
	}, s.handleLogMetric)

	// list_metrics
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_metrics",
		Description: "List the trackable metric catalog, optionally filtered by category",
	}, s.handleListMetrics)

	// calculate_correlations
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "calculate_correlations",
		Description: "Run a pairwise correlation scan over the user's logged metrics",
	}, s.handleCalculate)

	// list_correlations
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_correlations",
		Description: "List discovered correlations, optionally filtered by status, strength, or lag",
	}, s.handleListCorrelations)

	// get_correlation
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "get_correlation",
		Description: "Get a single correlation by ID",
	}, s.handleGetCorrelation)

	// update_correlation_status
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "update_correlation_status",
		Description: "Pin, dismiss, or reactivate a correlation",
	}, s.handleUpdateStatus)

	// submit_feedback
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "submit_feedback",
		Description: "Record whether a correlation insight was helpful",
	}, s.handleSubmitFeedback)

	// correlation_stats
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "correlation_stats",
		Description: "Summarize the user's correlations by status and strength",
	}, s.handleStats)
}

// Tool input/output types

type logMetricInput struct {
	MetricID string  `json:"metric_id" jsonschema:"metric from the catalog (sleep_hours, mood, steps, ...)"`
	Value    float64 `json:"value" jsonschema:"the daily value"`
	Date     string  `json:"date,omitempty" jsonschema:"day (YYYY-MM-DD), defaults to today"`
}

type simpleOutput struct {
	Message string `json:"message"`
}

type listMetricsInput struct {
	Category string `json:"category,omitempty" jsonschema:"filter by category (fitness, health, mindfulness, nutrition, finance, routine)"`
}

type calculateInput struct {
	// Pointer so an explicit 0 (same-day pairs only) is distinguishable
	// from an absent field.
	MaxLagDays *int `json:"max_lag_days,omitempty" jsonschema:"largest driver-to-outcome lag to test (default 3, 0 tests same-day pairs only)"`
	MinSamples int  `json:"min_samples,omitempty" jsonschema:"minimum aligned days required per pair (default 14)"`
}

type listCorrelationsInput struct {
	Status         string  `json:"status,omitempty" jsonschema:"filter by status (active, pinned, dismissed)"`
	MinCoefficient float64 `json:"min_coefficient,omitempty" jsonschema:"minimum |coefficient|"`
	LagDays        *int    `json:"lag_days,omitempty" jsonschema:"only correlations at this exact lag"`
	Limit          int     `json:"limit,omitempty" jsonschema:"max results (default 20)"`
}

type correlationIDInput struct {
	ID string `json:"id" jsonschema:"correlation ID"`
}

type updateStatusInput struct {
	ID     string `json:"id" jsonschema:"correlation ID"`
	Status string `json:"status" jsonschema:"new status: active, pinned, or dismissed"`
}

type submitFeedbackInput struct {
	ID        string `json:"id" jsonschema:"correlation ID"`
	IsHelpful bool   `json:"is_helpful" jsonschema:"whether the insight was helpful"`
	Comment   string `json:"comment,omitempty" jsonschema:"optional free-text comment"`
}

// Tool handlers

func (s *Server) handleLogMetric(ctx context.Context, req *mcp.CallToolRequest, input logMetricInput) (*mcp.CallToolResult, simpleOutput, error) {
	date := time.Now().UTC()
	if input.Date != "" {
		parsed, err := time.Parse(models.DateLayout, input.Date)
		if err != nil {
			return nil, simpleOutput{}, fmt.Errorf("invalid date %q: %w", input.Date, err)
		}
		date = parsed
	}

	point := models.DailyMetricPoint{
		UserID:   s.userID,
		MetricID: input.MetricID,
		Date:     date,
		Value:    input.Value,
	}
	if err := s.svc.LogDailyValue(ctx, point); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to log metric: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Logged %s = %.2f for %s", input.MetricID, input.Value, date.Format(models.DateLayout)),
	}, nil
}

func (s *Server) handleListMetrics(ctx context.Context, req *mcp.CallToolRequest, input listMetricsInput) (*mcp.CallToolResult, any, error) {
	metrics, err := s.svc.ListAvailableMetrics(ctx, input.Category)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	if len(metrics) == 0 {
		return nil, map[string]any{"message": "No metrics found."}, nil
	}
	return nil, metrics, nil
}

func (s *Server) handleCalculate(ctx context.Context, req *mcp.CallToolRequest, input calculateInput) (*mcp.CallToolResult, any, error) {
	opts := models.ScanOptions{
		MaxLagDays:    input.MaxLagDays,
		MinSampleSize: input.MinSamples,
	}.Normalize()

	result, err := s.svc.CalculateCorrelations(ctx, s.userID, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("scan failed: %w", err)
	}
	return nil, result, nil
}

func (s *Server) handleListCorrelations(ctx context.Context, req *mcp.CallToolRequest, input listCorrelationsInput) (*mcp.CallToolResult, any, error) {
	if input.Limit <= 0 {
		input.Limit = 20
	}

	filter := models.CorrelationFilter{
		Status:         models.Status(input.Status),
		MinCoefficient: input.MinCoefficient,
		LagDays:        input.LagDays,
		Limit:          input.Limit,
	}
	correlations, err := s.svc.ListCorrelations(ctx, s.userID, filter)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list correlations: %w", err)
	}

	if len(correlations) == 0 {
		return nil, map[string]any{"message": "No correlations found. Run calculate_correlations after logging at least two weeks of data."}, nil
	}
	return nil, correlations, nil
}

func (s *Server) handleGetCorrelation(ctx context.Context, req *mcp.CallToolRequest, input correlationIDInput) (*mcp.CallToolResult, any, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid correlation id: %w", err)
	}

	c, err := s.svc.GetCorrelation(ctx, s.userID, id)
	if err != nil {
		return nil, nil, fmt.Errorf("correlation not found: %s", input.ID)
	}
	return nil, c, nil
}

func (s *Server) handleUpdateStatus(ctx context.Context, req *mcp.CallToolRequest, input updateStatusInput) (*mcp.CallToolResult, any, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid correlation id: %w", err)
	}

	c, err := s.svc.UpdateStatus(ctx, s.userID, id, input.Status)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update status: %w", err)
	}
	return nil, c, nil
}

func (s *Server) handleSubmitFeedback(ctx context.Context, req *mcp.CallToolRequest, input submitFeedbackInput) (*mcp.CallToolResult, simpleOutput, error) {
	id, err := uuid.Parse(input.ID)
	if err != nil {
		return nil, simpleOutput{}, fmt.Errorf("invalid correlation id: %w", err)
	}

	if _, err := s.svc.SubmitFeedback(ctx, s.userID, id, input.IsHelpful, input.Comment); err != nil {
		return nil, simpleOutput{}, fmt.Errorf("failed to submit feedback: %w", err)
	}

	return nil, simpleOutput{
		Message: fmt.Sprintf("Recorded feedback on correlation %s", input.ID),
	}, nil
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	stats, err := s.svc.GetStats(ctx, s.userID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get stats: %w", err)
	}
	return nil, stats, nil
}

// ABOUTME: MCP resource implementations for the correlation store.
// ABOUTME: Provides lifelog://catalog, lifelog://insights, and lifelog://summary resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lifelog/lifelog/internal/models"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) registerResources() {
	// lifelog://catalog - the trackable metric catalog
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "lifelog://catalog",
		Name:        "Metric Catalog",
		Description: "All trackable metrics with units and data types",
		MIMEType:    "application/json",
	}, s.handleCatalogResource)

	// lifelog://insights - strongest active and pinned correlations
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "lifelog://insights",
		Name:        "Current Insights",
		Description: "Strongest non-dismissed correlations for the user",
		MIMEType:    "application/json",
	}, s.handleInsightsResource)

	// lifelog://summary - dashboard stats
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         "lifelog://summary",
		Name:        "Correlation Summary",
		Description: "Correlation counts by status and strength bucket",
		MIMEType:    "application/json",
	}, s.handleSummaryResource)
}

// Resource handlers

func (s *Server) handleCatalogResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	metrics, err := s.svc.ListAvailableMetrics(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}

	byCategory := make(map[string][]models.MetricDefinition)
	for _, m := range metrics {
		byCategory[string(m.Category)] = append(byCategory[string(m.Category)], m)
	}

	return jsonResource("lifelog://catalog", map[string]any{
		"metrics": byCategory,
		"total":   len(metrics),
	})
}

func (s *Server) handleInsightsResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	pinned, err := s.svc.ListCorrelations(ctx, s.userID, models.CorrelationFilter{
		Status: models.StatusPinned,
		Limit:  20,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pinned correlations: %w", err)
	}

	active, err := s.svc.ListCorrelations(ctx, s.userID, models.CorrelationFilter{
		Status: models.StatusActive,
		Limit:  10,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list active correlations: %w", err)
	}

	return jsonResource("lifelog://insights", map[string]any{
		"generated_at": time.Now().UTC().Format(time.RFC3339),
		"pinned":       pinned,
		"active":       active,
	})
}

func (s *Server) handleSummaryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	stats, err := s.svc.GetStats(ctx, s.userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stats: %w", err)
	}

	return jsonResource("lifelog://summary", stats)
}

func jsonResource(uri string, payload any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

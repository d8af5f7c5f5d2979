// ABOUTME: MCP server setup for the lifelog correlation store.
// ABOUTME: Wraps MCP server around the insights service for LLM access.
package mcp

import (
	"context"

	"github.com/lifelog/lifelog/internal/service"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server with insights access.
type Server struct {
	mcpServer *mcp.Server
	svc       *service.Insights
	userID    string
}

// NewServer creates a new MCP server bound to one user's data.
func NewServer(svc *service.Insights, userID string) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "lifelog",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		svc:       svc,
		userID:    userID,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// ABOUTME: HTTP server wiring for the correlation API.
// ABOUTME: gin router with versioned routes, health probe, and Prometheus metrics.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lifelog/lifelog/internal/service"
)

// Server exposes the Insights service over REST.
type Server struct {
	svc    *service.Insights
	logger *slog.Logger
	router *gin.Engine
}

// NewServer builds the router and registers all routes.
func NewServer(svc *service.Insights, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{svc: svc, logger: logger, router: router}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/metrics", s.listMetricDefinitions)

		user := v1.Group("/users/:user_id")
		{
			user.GET("/correlations", s.listCorrelations)
			user.GET("/correlations/stats", s.getStats)
			user.GET("/correlations/:id", s.getCorrelation)
			user.POST("/correlations/calculate", s.calculateCorrelations)
			user.PATCH("/correlations/:id/status", s.updateStatus)
			user.POST("/correlations/:id/feedback", s.submitFeedback)
		}
	}
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP on the given address until the listener fails.
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", slog.String("addr", addr))
	return s.router.Run(addr)
}

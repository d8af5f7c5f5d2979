// ABOUTME: REST handlers mapping HTTP requests onto the Insights service.
// ABOUTME: Soft conditions are 200s, not-found is 404, validation is 400, storage failures 500.
package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lifelog/lifelog/internal/models"
	"github.com/lifelog/lifelog/internal/storage"
)

type calculateRequest struct {
	// Pointer so an explicit 0 (same-day pairs only) is distinguishable
	// from an absent field.
	MaxLagDays *int `json:"max_lag_days"`
	MinSamples int  `json:"min_samples"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type feedbackRequest struct {
	// Pointer so a missing boolean is distinguishable from false.
	IsHelpful *bool  `json:"is_helpful"`
	Comment   string `json:"comment"`
}

func (s *Server) listMetricDefinitions(c *gin.Context) {
	defs, err := s.svc.ListAvailableMetrics(c.Request.Context(), c.Query("category"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": defs})
}

func (s *Server) listCorrelations(c *gin.Context) {
	filter := models.CorrelationFilter{
		Status: models.Status(c.Query("status")),
	}

	if v := c.Query("min_coefficient"); v != "" {
		minCoefficient, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_coefficient must be a number"})
			return
		}
		filter.MinCoefficient = minCoefficient
	}
	if v := c.Query("lag_days"); v != "" {
		lag, err := strconv.Atoi(v)
		if err != nil || lag < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "lag_days must be a non-negative integer"})
			return
		}
		filter.LagDays = &lag
	}
	if v := c.DefaultQuery("limit", "50"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		filter.Limit = limit
	}

	records, err := s.svc.ListCorrelations(c.Request.Context(), c.Param("user_id"), filter)
	if err != nil {
		s.fail(c, err)
		return
	}
	if records == nil {
		records = []*models.Correlation{}
	}
	c.JSON(http.StatusOK, gin.H{"correlations": records, "count": len(records)})
}

func (s *Server) getCorrelation(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	record, err := s.svc.GetCorrelation(c.Request.Context(), c.Param("user_id"), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) calculateCorrelations(c *gin.Context) {
	var req calculateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	opts := models.ScanOptions{
		MaxLagDays:    req.MaxLagDays,
		MinSampleSize: req.MinSamples,
	}

	result, err := s.svc.CalculateCorrelations(c.Request.Context(), c.Param("user_id"), opts)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) updateStatus(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := s.svc.UpdateStatus(c.Request.Context(), c.Param("user_id"), id, req.Status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) submitFeedback(c *gin.Context) {
	id, ok := s.parseID(c)
	if !ok {
		return
	}

	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.IsHelpful == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "is_helpful is required"})
		return
	}

	feedback, err := s.svc.SubmitFeedback(c.Request.Context(), c.Param("user_id"), id, *req.IsHelpful, req.Comment)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, feedback)
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.svc.GetStats(c.Request.Context(), c.Param("user_id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (s *Server) parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id must be a UUID"})
		return uuid.Nil, false
	}
	return id, true
}

// fail maps service errors onto HTTP statuses.
func (s *Server) fail(c *gin.Context, err error) {
	switch {
	case storage.IsNotFound(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

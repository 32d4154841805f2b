package http

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"finops-dashboard-go/internal/models"
	"finops-dashboard-go/internal/store"
)

func (s *Server) listAnomalies(c *gin.Context) {
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	if status == "all" {
		status = ""
	}
	if status != "" && !models.ValidAnomalyStatus(status) {
		c.JSON(400, gin.H{"error": "invalid_status_filter"})
		return
	}

	ctx := c.Request.Context()
	list, err := s.store.ListAnomalies(ctx, ownerID(c), status)
	if err != nil {
		s.fail(c, "list anomalies", err)
		return
	}
	stats, err := s.store.AnomalyStats(ctx, ownerID(c))
	if err != nil {
		s.fail(c, "anomaly stats", err)
		return
	}
	c.JSON(200, gin.H{"anomalies": list, "stats": stats})
}

func (s *Server) createAnomaly(c *gin.Context) {
	var in struct {
		Title            string   `json:"title"`
		Description      string   `json:"description"`
		Severity         string   `json:"severity"`
		Category         string   `json:"category"`
		Amount           *float64 `json:"amount"`
		PotentialSavings *float64 `json:"potential_savings"`
		AIConfidence     *float64 `json:"ai_confidence"`
		AIRecommendation string   `json:"ai_recommendation"`
	}
	if !s.bindValid(c, schemaAnomaly, &in) {
		return
	}

	a := models.Anomaly{
		Title:            strings.TrimSpace(in.Title),
		Description:      strings.TrimSpace(in.Description),
		Severity:         in.Severity,
		Category:         strings.TrimSpace(in.Category),
		Amount:           in.Amount,
		PotentialSavings: in.PotentialSavings,
		AIConfidence:     in.AIConfidence,
		AIRecommendation: strings.TrimSpace(in.AIRecommendation),
		DetectedAt:       s.now().UTC(),
	}
	if err := s.store.CreateAnomaly(c.Request.Context(), ownerID(c), &a); err != nil {
		s.fail(c, "save anomaly", err)
		return
	}
	c.JSON(201, a)
}

func (s *Server) updateAnomaly(c *gin.Context) {
	var in struct {
		Status string `json:"status"`
	}
	if !s.bindValid(c, schemaAnomalyStatus, &in) {
		return
	}

	a, err := s.store.SetAnomalyStatus(c.Request.Context(), ownerID(c), c.Param("id"), in.Status, s.now())
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(404, gin.H{"error": "anomaly_not_found"})
		return
	}
	if err != nil {
		s.fail(c, "update anomaly", err)
		return
	}
	c.JSON(200, a)
}

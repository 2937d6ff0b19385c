package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rahhaltours/admin-backend/internal/services"
)

// StatsHandler serves the dashboard aggregates.
type StatsHandler struct {
	reportingSvc *services.ReportingService
	auditSvc     *services.AuditService
	logger       *logrus.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(reportingSvc *services.ReportingService, auditSvc *services.AuditService, logger *logrus.Logger) *StatsHandler {
	return &StatsHandler{reportingSvc: reportingSvc, auditSvc: auditSvc, logger: logger}
}

// DashboardSummary returns the home-screen counters.
func (h *StatsHandler) DashboardSummary(c *gin.Context) {
	summary, err := h.reportingSvc.DashboardSummary(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CityActivity returns the per-city trip and booking breakdown.
func (h *StatsHandler) CityActivity(c *gin.Context) {
	activity, err := h.reportingSvc.CityActivity(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}

// ListAuditLogs returns the admin action trail.
func (h *StatsHandler) ListAuditLogs(c *gin.Context) {
	entries, err := h.auditSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auditLogs": entries})
}

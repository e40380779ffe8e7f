package handler

import (
	"pago-gateway/internal/adapter/http/dto"
	"pago-gateway/internal/adapter/http/middleware"
	"pago-gateway/internal/core/ports"
	"pago-gateway/pkg/apperror"
	"pago-gateway/pkg/response"

	"github.com/gin-gonic/gin"
)

// DashboardHandler handles dashboard endpoints.
type DashboardHandler struct {
	reportingSvc ports.ReportingService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(reportingSvc ports.ReportingService) *DashboardHandler {
	return &DashboardHandler{reportingSvc: reportingSvc}
}

// GetStats handles GET /api/v1/dashboard/stats.
func (h *DashboardHandler) GetStats(c *gin.Context) {
	agent, ok := middleware.AgentFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	stats, err := h.reportingSvc.GetDashboardStats(c.Request.Context(), agent.ID, c.DefaultQuery("period", "all"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.NewDashboardStatsResponse(stats))
}

package handler

import (
	"github.com/gin-gonic/gin"

	"fretenota/internal/service"
)

// StatsHandler handles dashboard statistics endpoints.
type StatsHandler struct {
	statsService service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Dashboard handles GET /api/v1/stats/dashboard
// @Summary Dashboard statistics
// @Description Invoice counts by status and sync state, 12-month totals and per-carrier breakdown
// @Tags stats
// @Produce json
// @Success 200 {object} Response{data=service.Dashboard} "Dashboard data"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /stats/dashboard [get]
func (h *StatsHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.statsService.GetDashboard(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, dashboard)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fretenota/internal/domain"
	"fretenota/internal/service"
)

// ReportHandler handles summary report endpoints.
type ReportHandler struct {
	reportService service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

func reportFilters(c *gin.Context) *domain.InvoiceFilters {
	return &domain.InvoiceFilters{
		Status:         domain.InvoiceStatus(c.Query("status")),
		Transportadora: c.Query("transportadora"),
		DateFrom:       c.Query("date_from"),
		DateTo:         c.Query("date_to"),
	}
}

// WhatsApp handles GET /api/v1/reports/whatsapp
// @Summary WhatsApp-formatted summary
// @Description Plain-text period summary using WhatsApp markup, ready to paste into a chat
// @Tags reports
// @Produce plain
// @Param status query string false "Invoice status filter"
// @Param transportadora query string false "Carrier filter"
// @Param date_from query string false "Emission date from (DD/MM/YYYY)"
// @Param date_to query string false "Emission date to (DD/MM/YYYY)"
// @Success 200 {string} string "Summary text"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /reports/whatsapp [get]
func (h *ReportHandler) WhatsApp(c *gin.Context) {
	text, err := h.reportService.WhatsAppSummary(c.Request.Context(), reportFilters(c))
	if err != nil {
		HandleError(c, err)
		return
	}

	c.String(http.StatusOK, text)
}

// Send handles POST /api/v1/reports/whatsapp
// @Summary Email the summary
// @Description Build the WhatsApp-formatted summary and deliver it by email
// @Tags reports
// @Accept json
// @Produce json
// @Param body body SendReportRequest true "Recipient"
// @Success 200 {object} Response{data=MessageResponse} "Sent"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /reports/whatsapp [post]
func (h *ReportHandler) Send(c *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.reportService.SendSummary(c.Request.Context(), body.Email, reportFilters(c)); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "summary sent"})
}

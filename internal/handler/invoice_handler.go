package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fretenota/internal/csvexport"
	"fretenota/internal/domain"
	"fretenota/internal/service"
)

// InvoiceHandler handles nota fiscal endpoints.
type InvoiceHandler struct {
	invoiceService service.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler.
func NewInvoiceHandler(invoiceService service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// Upload handles POST /api/v1/invoices/upload
// @Summary Upload an invoice PDF
// @Description Upload a nota fiscal PDF; fields are extracted from the text layer and a record is created
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice PDF"
// @Success 201 {object} Response{data=domain.Invoice} "Invoice created"
// @Failure 400 {object} ErrorResponseBody "Missing file or not a PDF"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Security BearerAuth
// @Router /invoices/upload [post]
func (h *InvoiceHandler) Upload(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	inv, err := h.invoiceService.CreateFromUpload(c.Request.Context(), service.FileUploadInput{
		UploadedBy: userID,
		File:       file,
		Header:     header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, inv)
}

// List handles GET /api/v1/invoices
// @Summary List invoices
// @Description List invoices with optional filters and pagination
// @Tags invoices
// @Produce json
// @Param status query string false "Invoice status" Enums(pendente, processada, cancelada)
// @Param transportadora query string false "Carrier name (exact)"
// @Param date_from query string false "Emission date from (DD/MM/YYYY)"
// @Param date_to query string false "Emission date to (DD/MM/YYYY)"
// @Param search query string false "Matches numero, issuer or recipient name"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.Invoice,meta=PagMeta} "List of invoices"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	filters := &domain.InvoiceFilters{
		Status:         domain.InvoiceStatus(c.Query("status")),
		Transportadora: c.Query("transportadora"),
		DateFrom:       c.Query("date_from"),
		DateTo:         c.Query("date_to"),
		Search:         c.Query("search"),
	}
	if filters.Status != "" && !domain.ValidInvoiceStatuses[filters.Status] {
		RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "invalid invoice status; allowed: pendente, processada, cancelada")
		return
	}

	invoices, total, err := h.invoiceService.List(c.Request.Context(), filters, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, invoices, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// ExportCSV handles GET /api/v1/invoices/export
// @Summary Export invoices as CSV
// @Description Download all invoices matching the filters as a CSV file (Excel-compatible, UTF-8 BOM)
// @Tags invoices
// @Produce text/csv
// @Param status query string false "Invoice status" Enums(pendente, processada, cancelada)
// @Param transportadora query string false "Carrier name (exact)"
// @Param date_from query string false "Emission date from (DD/MM/YYYY)"
// @Param date_to query string false "Emission date to (DD/MM/YYYY)"
// @Success 200 {file} binary "CSV bytes"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /invoices/export [get]
func (h *InvoiceHandler) ExportCSV(c *gin.Context) {
	filters := &domain.InvoiceFilters{
		Status:         domain.InvoiceStatus(c.Query("status")),
		Transportadora: c.Query("transportadora"),
		DateFrom:       c.Query("date_from"),
		DateTo:         c.Query("date_to"),
		Search:         c.Query("search"),
	}
	if filters.Status != "" && !domain.ValidInvoiceStatuses[filters.Status] {
		RespondError(c, http.StatusBadRequest, "INVALID_STATUS", "invalid invoice status; allowed: pendente, processada, cancelada")
		return
	}

	invoices, _, err := h.invoiceService.List(c.Request.Context(), filters, 0, 10000)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="`+csvexport.BuildFilename("notas fiscais")+`"`)
	c.Status(http.StatusOK)

	_, _ = c.Writer.Write(csvexport.BOM)
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteInvoices(invoices); err != nil {
		return
	}
	w.Flush()
}

// GetByID handles GET /api/v1/invoices/:id
// @Summary Get invoice by ID
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=domain.Invoice} "Invoice"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Update handles PATCH /api/v1/invoices/:id
// @Summary Edit an invoice
// @Description Partially update invoice fields; omitted fields are left unchanged. Any edit marks the spreadsheet mirror stale.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Param body body UpdateInvoiceRequest true "Fields to update"
// @Success 200 {object} Response{data=domain.Invoice} "Updated invoice"
// @Failure 400 {object} ErrorResponseBody "Invalid status"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /invoices/{id} [patch]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	var input service.UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// Validate handles GET /api/v1/invoices/:id/validate
// @Summary Validate an invoice
// @Description Run field checks (CNPJ check digits, access key, date and value formats) against one invoice
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=validator.Report} "Validation report"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /invoices/{id}/validate [get]
func (h *InvoiceHandler) Validate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	report, err := h.invoiceService.Validate(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, report)
}

// Delete handles DELETE /api/v1/invoices/:id
// @Summary Delete an invoice
// @Description Delete an invoice and its stored PDF
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse} "Deleted"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Security BearerAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "invoice deleted"})
}

// SyncNow handles POST /api/v1/invoices/:id/sync
// @Summary Sync one invoice to the spreadsheet
// @Description Push the invoice to the Google Sheets mirror immediately
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice ID (UUID)"
// @Success 200 {object} Response{data=domain.Invoice} "Synced invoice"
// @Failure 404 {object} ErrorResponseBody "Not found"
// @Failure 409 {object} ErrorResponseBody "Sheet header or match key problem"
// @Failure 503 {object} ErrorResponseBody "Mirror not configured"
// @Security BearerAuth
// @Router /invoices/{id}/sync [post]
func (h *InvoiceHandler) SyncNow(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid invoice id")
		return
	}

	inv, err := h.invoiceService.SyncNow(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, inv)
}

// ResyncAll handles POST /api/v1/invoices/resync
// @Summary Resync all invoices
// @Description Push every invoice to the spreadsheet mirror
// @Tags invoices
// @Produce json
// @Success 200 {object} Response{data=ResyncResponse} "Count of invoices pushed"
// @Failure 503 {object} ErrorResponseBody "Mirror not configured"
// @Security BearerAuth
// @Router /invoices/resync [post]
func (h *InvoiceHandler) ResyncAll(c *gin.Context) {
	count, err := h.invoiceService.ResyncAll(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"count": count})
}

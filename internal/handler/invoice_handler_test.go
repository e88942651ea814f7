package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fretenota/internal/domain"
	"fretenota/internal/handler"
	"fretenota/internal/middleware"
	"fretenota/internal/service"
	"fretenota/internal/validator"
	"fretenota/mocks"
)

// setAuthContext injects the values the auth middleware would have set.
func setAuthContext(c *gin.Context, userID uuid.UUID, role domain.UserRole) {
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, string(role))
}

func strPtr(s string) *string { return &s }

func TestInvoiceHandler_Upload_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	userID := uuid.New()
	inv := &domain.Invoice{
		ID:       uuid.New(),
		NumeroNF: strPtr("000012345"),
		Status:   domain.InvoiceStatusPendente,
	}

	mockSvc.On("CreateFromUpload", mock.Anything, mock.AnythingOfType("service.FileUploadInput")).
		Return(inv, nil)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, _ := writer.CreateFormFile("file", "nota.pdf")
	_, _ = part.Write([]byte("%PDF-1.4 test"))
	writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/upload", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	setAuthContext(c, userID, domain.RoleMember)

	h.Upload(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Upload_MissingFile(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	writer.Close()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/upload", body)
	c.Request.Header.Set("Content-Type", writer.FormDataContentType())
	setAuthContext(c, uuid.New(), domain.RoleMember)

	h.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "CreateFromUpload", mock.Anything, mock.Anything)
}

func TestInvoiceHandler_Upload_NoAuthContext(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/upload", nil)

	h.Upload(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestInvoiceHandler_List_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	invoices := []domain.Invoice{
		{ID: uuid.New(), Status: domain.InvoiceStatusPendente},
		{ID: uuid.New(), Status: domain.InvoiceStatusProcessada},
	}

	mockSvc.On("List", mock.Anything, mock.MatchedBy(func(f *domain.InvoiceFilters) bool {
		return f.Status == domain.InvoiceStatusPendente && f.Search == "rapidao"
	}), 0, 20).Return(invoices, 2, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices?status=pendente&search=rapidao", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Meta)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_List_InvalidStatus(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices?status=arquivada", nil)

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceHandler_List_ClampsLimit(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	mockSvc.On("List", mock.Anything, mock.AnythingOfType("*domain.InvoiceFilters"), 0, 20).
		Return([]domain.Invoice{}, 0, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices?limit=5000", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_GetByID_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	inv := &domain.Invoice{ID: id, Status: domain.InvoiceStatusPendente}

	mockSvc.On("GetByID", mock.Anything, id).Return(inv, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvoiceHandler_GetByID_BadID(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/not-a-uuid", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_GetByID_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("GetByID", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoiceHandler_Update_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	inv := &domain.Invoice{ID: id, Status: domain.InvoiceStatusProcessada}

	mockSvc.On("Update", mock.Anything, id, mock.MatchedBy(func(in service.UpdateInvoiceInput) bool {
		return in.Status != nil && *in.Status == "processada"
	})).Return(inv, nil)

	body, _ := json.Marshal(map[string]string{"status": "processada"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPatch, "/api/v1/invoices/"+id.String(), bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Update_InvalidStatus(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("Update", mock.Anything, id, mock.AnythingOfType("service.UpdateInvoiceInput")).
		Return(nil, domain.ErrInvalidStatus)

	body, _ := json.Marshal(map[string]string{"status": "arquivada"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPatch, "/api/v1/invoices/"+id.String(), bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Update(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvoiceHandler_Validate_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	report := &validator.Report{
		Valid: false,
		Issues: []validator.Issue{
			{Field: "cnpj_emitente", Rule: "cnpj", Severity: validator.SeverityError, Message: "dígitos verificadores do CNPJ inválidos"},
		},
	}
	mockSvc.On("Validate", mock.Anything, id).Return(report, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/"+id.String()+"/validate", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Validate(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"valid":false`)
	assert.Contains(t, w.Body.String(), "cnpj_emitente")
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_Validate_NotFound(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("Validate", mock.Anything, id).Return(nil, domain.ErrInvoiceNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/invoices/"+id.String()+"/validate", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Validate(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvoiceHandler_Delete_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("Delete", mock.Anything, id).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodDelete, "/api/v1/invoices/"+id.String(), nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestInvoiceHandler_SyncNow_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	inv := &domain.Invoice{ID: id, SyncStatus: domain.SyncStatusSynced}
	mockSvc.On("SyncNow", mock.Anything, id).Return(inv, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/"+id.String()+"/sync", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.SyncNow(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvoiceHandler_SyncNow_MirrorDisabled(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	id := uuid.New()
	mockSvc.On("SyncNow", mock.Anything, id).Return(nil, domain.ErrSheetsNotConfigured)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/"+id.String()+"/sync", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.SyncNow(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestInvoiceHandler_ResyncAll_Success(t *testing.T) {
	mockSvc := new(mocks.MockInvoiceService)
	h := handler.NewInvoiceHandler(mockSvc)

	mockSvc.On("ResyncAll", mock.Anything).Return(17, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/invoices/resync", nil)

	h.ResyncAll(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":17`)
}

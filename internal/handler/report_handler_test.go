package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fretenota/internal/domain"
	"fretenota/internal/handler"
	"fretenota/mocks"
)

func TestReportHandler_WhatsApp_ReturnsPlainText(t *testing.T) {
	mockSvc := new(mocks.MockReportService)
	h := handler.NewReportHandler(mockSvc)

	summary := "*Resumo de Notas Fiscais*\n\n• NF 000012345 | 15/03/2026 | - | R$ 1.234,56\n"

	mockSvc.On("WhatsAppSummary", mock.Anything, mock.MatchedBy(func(f *domain.InvoiceFilters) bool {
		return f.DateFrom == "01/03/2026" && f.DateTo == "31/03/2026"
	})).Return(summary, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/reports/whatsapp?date_from=01/03/2026&date_to=31/03/2026", nil)

	h.WhatsApp(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, summary, w.Body.String())
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_Send_Success(t *testing.T) {
	mockSvc := new(mocks.MockReportService)
	h := handler.NewReportHandler(mockSvc)

	mockSvc.On("SendSummary", mock.Anything, "dono@frota.com.br", mock.AnythingOfType("*domain.InvoiceFilters")).
		Return(nil)

	body, _ := json.Marshal(map[string]string{"email": "dono@frota.com.br"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/reports/whatsapp", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Send(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestReportHandler_Send_InvalidEmail(t *testing.T) {
	mockSvc := new(mocks.MockReportService)
	h := handler.NewReportHandler(mockSvc)

	body, _ := json.Marshal(map[string]string{"email": "not-an-email"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/reports/whatsapp", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Send(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "SendSummary", mock.Anything, mock.Anything, mock.Anything)
}

package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"fretenota/internal/domain"
	"fretenota/internal/service"
	"fretenota/mocks"
)

func int64Ptr(v int64) *int64 { return &v }

func TestReportService_WhatsAppSummary(t *testing.T) {
	invoiceRepo := new(mocks.MockInvoiceRepo)
	statsRepo := new(mocks.MockStatsRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewReportService(invoiceRepo, statsRepo, sender)

	invoices := []domain.Invoice{
		{
			ID:             uuid.New(),
			NumeroNF:       strPtr("000012345"),
			DataEmissao:    strPtr("15/03/2026"),
			Transportadora: strPtr("Transportes Rapidao Ltda"),
			ValorTotal:     strPtr("1.234,56"),
			ValorCentavos:  int64Ptr(123456),
		},
		{
			ID:            uuid.New(),
			ValorTotal:    strPtr("100,00"),
			ValorCentavos: int64Ptr(10000),
		},
	}

	filters := &domain.InvoiceFilters{DateFrom: "01/03/2026", DateTo: "31/03/2026"}
	invoiceRepo.On("List", mock.Anything, filters, 0, 500).Return(invoices, 2, nil)

	out, err := svc.WhatsAppSummary(context.Background(), filters)

	assert.NoError(t, err)
	assert.Contains(t, out, "*Resumo de Notas Fiscais*")
	assert.Contains(t, out, "_Período: 01/03/2026 a 31/03/2026_")
	assert.Contains(t, out, "• NF 000012345 | 15/03/2026 | Transportes Rapidao Ltda | R$ 1.234,56")
	assert.Contains(t, out, "• NF s/n | - | - | R$ 100,00")
	assert.Contains(t, out, "*Total:* 2 notas | *R$ 1.334,56*")
}

func TestReportService_WhatsAppSummary_NoFilters(t *testing.T) {
	invoiceRepo := new(mocks.MockInvoiceRepo)
	svc := service.NewReportService(invoiceRepo, new(mocks.MockStatsRepo), new(mocks.MockEmailSender))

	invoiceRepo.On("List", mock.Anything, (*domain.InvoiceFilters)(nil), 0, 500).
		Return([]domain.Invoice{}, 0, nil)

	out, err := svc.WhatsAppSummary(context.Background(), nil)

	assert.NoError(t, err)
	assert.NotContains(t, out, "Período")
	assert.Contains(t, out, "*Total:* 0 notas | *R$ 0,00*")
}

func TestReportService_SendSummary(t *testing.T) {
	invoiceRepo := new(mocks.MockInvoiceRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewReportService(invoiceRepo, new(mocks.MockStatsRepo), sender)

	invoiceRepo.On("List", mock.Anything, (*domain.InvoiceFilters)(nil), 0, 500).
		Return([]domain.Invoice{}, 0, nil)
	sender.On("SendSummary", mock.Anything, "dono@frota.com.br", "Resumo de Notas Fiscais", mock.AnythingOfType("string")).
		Return(nil)

	assert.NoError(t, svc.SendSummary(context.Background(), "dono@frota.com.br", nil))
	sender.AssertExpectations(t)
}

func TestReportService_SendSummary_ListFailure(t *testing.T) {
	invoiceRepo := new(mocks.MockInvoiceRepo)
	sender := new(mocks.MockEmailSender)
	svc := service.NewReportService(invoiceRepo, new(mocks.MockStatsRepo), sender)

	invoiceRepo.On("List", mock.Anything, (*domain.InvoiceFilters)(nil), 0, 500).
		Return(nil, 0, assert.AnError)

	err := svc.SendSummary(context.Background(), "dono@frota.com.br", nil)

	assert.Error(t, err)
	sender.AssertNotCalled(t, "SendSummary", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fretenota/internal/domain"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) WhatsAppSummary(ctx context.Context, filters *domain.InvoiceFilters) (string, error) {
	args := m.Called(ctx, filters)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) SendSummary(ctx context.Context, toEmail string, filters *domain.InvoiceFilters) error {
	args := m.Called(ctx, toEmail, filters)
	return args.Error(0)
}

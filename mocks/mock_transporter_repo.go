package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fretenota/internal/domain"
)

// MockTransporterRepo is a mock implementation of port.TransporterRepository.
type MockTransporterRepo struct {
	mock.Mock
}

func (m *MockTransporterRepo) ListAll(ctx context.Context) ([]domain.Transporter, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transporter), args.Error(1)
}

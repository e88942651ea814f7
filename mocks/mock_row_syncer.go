package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"fretenota/internal/sheets"
)

// MockRowSyncer is a mock implementation of port.RowSyncer.
type MockRowSyncer struct {
	mock.Mock
}

func (m *MockRowSyncer) Append(ctx context.Context, row *sheets.Row) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

func (m *MockRowSyncer) Update(ctx context.Context, row *sheets.Row) error {
	args := m.Called(ctx, row)
	return args.Error(0)
}

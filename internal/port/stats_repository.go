package port

import (
	"context"

	"fretenota/internal/domain"
)

// StatsRepository provides aggregate dashboard queries over invoices.
type StatsRepository interface {
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	GetMonthlyTotals(ctx context.Context, months int) ([]domain.MonthlyTotal, error)
	GetTransporterTotals(ctx context.Context, limit int) ([]domain.TransporterTotal, error)
}

package service

import (
	"context"

	"fretenota/internal/domain"
	"fretenota/internal/port"
)

// Dashboard bundles everything the dashboard endpoint returns in one call.
type Dashboard struct {
	Stats             *domain.DashboardStats    `json:"stats"`
	MonthlyTotals     []domain.MonthlyTotal     `json:"monthly_totals"`
	TransporterTotals []domain.TransporterTotal `json:"transporter_totals"`
}

// StatsService provides aggregate statistics over invoices.
type StatsService interface {
	GetDashboard(ctx context.Context) (*Dashboard, error)
}

type statsService struct {
	statsRepo port.StatsRepository
}

// NewStatsService creates a new StatsService implementation.
func NewStatsService(statsRepo port.StatsRepository) StatsService {
	return &statsService{statsRepo: statsRepo}
}

func (s *statsService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	stats, err := s.statsRepo.GetDashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	monthly, err := s.statsRepo.GetMonthlyTotals(ctx, 12)
	if err != nil {
		return nil, err
	}
	transporters, err := s.statsRepo.GetTransporterTotals(ctx, 10)
	if err != nil {
		return nil, err
	}
	return &Dashboard{
		Stats:             stats,
		MonthlyTotals:     monthly,
		TransporterTotals: transporters,
	}, nil
}

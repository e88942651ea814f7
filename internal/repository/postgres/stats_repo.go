package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fretenota/internal/domain"
	"fretenota/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

func (r *statsRepo) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var stats domain.DashboardStats
	err := r.db.GetContext(ctx, &stats,
		`SELECT
			COUNT(*) AS total_invoices,
			COUNT(CASE WHEN status = 'pendente' THEN 1 END) AS status_pendente,
			COUNT(CASE WHEN status = 'processada' THEN 1 END) AS status_processada,
			COUNT(CASE WHEN status = 'cancelada' THEN 1 END) AS status_cancelada,
			COUNT(CASE WHEN sync_status IN ('pending', 'syncing') THEN 1 END) AS sync_pending,
			COUNT(CASE WHEN sync_status = 'synced' THEN 1 END) AS sync_synced,
			COUNT(CASE WHEN sync_status = 'failed' THEN 1 END) AS sync_failed,
			COALESCE(SUM(valor_centavos), 0) AS total_valor_centavos
		 FROM invoices`)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.GetDashboardStats: %w", err)
	}
	return &stats, nil
}

// GetMonthlyTotals groups on data_emissao, which is stored as DD/MM/YYYY
// text, so the month key is sliced out of the string.
func (r *statsRepo) GetMonthlyTotals(ctx context.Context, months int) ([]domain.MonthlyTotal, error) {
	var totals []domain.MonthlyTotal
	err := r.db.SelectContext(ctx, &totals,
		`SELECT
			substr(data_emissao, 4, 7) AS month,
			COUNT(*) AS count,
			COALESCE(SUM(valor_centavos), 0) AS valor_centavos
		 FROM invoices
		 WHERE data_emissao IS NOT NULL
		 GROUP BY month
		 ORDER BY substr(month, 4, 4) || substr(month, 1, 2) DESC
		 LIMIT $1`,
		months)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.GetMonthlyTotals: %w", err)
	}
	return totals, nil
}

func (r *statsRepo) GetTransporterTotals(ctx context.Context, limit int) ([]domain.TransporterTotal, error) {
	var totals []domain.TransporterTotal
	err := r.db.SelectContext(ctx, &totals,
		`SELECT
			transportadora,
			COUNT(*) AS count,
			COALESCE(SUM(valor_centavos), 0) AS valor_centavos
		 FROM invoices
		 WHERE transportadora IS NOT NULL
		 GROUP BY transportadora
		 ORDER BY valor_centavos DESC
		 LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("statsRepo.GetTransporterTotals: %w", err)
	}
	return totals, nil
}

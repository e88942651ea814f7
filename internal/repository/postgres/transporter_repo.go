package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"fretenota/internal/domain"
	"fretenota/internal/port"
)

type transporterRepo struct {
	db *sqlx.DB
}

// NewTransporterRepo creates a new PostgreSQL-backed TransporterRepository.
func NewTransporterRepo(db *sqlx.DB) port.TransporterRepository {
	return &transporterRepo{db: db}
}

func (r *transporterRepo) ListAll(ctx context.Context) ([]domain.Transporter, error) {
	var transporters []domain.Transporter
	err := r.db.SelectContext(ctx, &transporters,
		"SELECT * FROM transporters ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("transporterRepo.ListAll: %w", err)
	}
	return transporters, nil
}

package port

import (
	"context"

	"fretenota/internal/domain"
)

// TransporterRepository loads the carrier reference data used to build the
// in-memory lookup at startup.
type TransporterRepository interface {
	ListAll(ctx context.Context) ([]domain.Transporter, error)
}

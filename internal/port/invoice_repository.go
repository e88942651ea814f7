package port

import (
	"context"

	"github.com/google/uuid"

	"fretenota/internal/domain"
)

// InvoiceRepository defines persistence operations for invoices.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *domain.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error)
	GetByFileID(ctx context.Context, fileID uuid.UUID) (*domain.Invoice, error)
	List(ctx context.Context, filters *domain.InvoiceFilters, offset, limit int) ([]domain.Invoice, int, error)
	Update(ctx context.Context, inv *domain.Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error

	// ClaimPendingSync atomically claims up to limit invoices whose mirror
	// is pending, so concurrent workers never pick up the same record.
	ClaimPendingSync(ctx context.Context, limit int) ([]domain.Invoice, error)
	MarkSynced(ctx context.Context, id uuid.UUID) error
	MarkSyncFailed(ctx context.Context, id uuid.UUID, reason string) error
	MarkSyncPending(ctx context.Context, id uuid.UUID) error
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"fretenota/internal/domain"
	"fretenota/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (
			id, file_id, numero_nf, cnpj_emitente, nome_emitente,
			cnpj_destinatario, nome_destinatario, data_emissao, valor_total,
			chave_acesso, valor_centavos, status, transportadora, placa,
			sync_status, synced_at, sync_error, created_by, created_at, updated_at
		 ) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		 )`,
		inv.ID, inv.FileID, inv.NumeroNF, inv.CNPJEmitente, inv.NomeEmitente,
		inv.CNPJDestinatario, inv.NomeDestinatario, inv.DataEmissao, inv.ValorTotal,
		inv.ChaveAcesso, inv.ValorCentavos, inv.Status, inv.Transportadora, inv.Placa,
		inv.SyncStatus, inv.SyncedAt, inv.SyncError, inv.CreatedBy, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) GetByFileID(ctx context.Context, fileID uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE file_id = $1", fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByFileID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) List(ctx context.Context, filters *domain.InvoiceFilters, offset, limit int) ([]domain.Invoice, int, error) {
	where, args := buildInvoiceFilters(filters)

	var total int
	countQuery := "SELECT COUNT(*) FROM invoices" + where
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List count: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT * FROM invoices%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var invoices []domain.Invoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.List: %w", err)
	}
	return invoices, total, nil
}

// buildInvoiceFilters translates filters into a WHERE clause with positional
// args. data_emissao is stored as DD/MM/YYYY text, so range filters compare
// on the reordered YYYYMMDD form.
func buildInvoiceFilters(filters *domain.InvoiceFilters) (string, []any) {
	if filters == nil {
		return "", nil
	}

	var (
		conds []string
		args  []any
	)
	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filters.Status != "" {
		add("status = $%d", filters.Status)
	}
	if filters.Transportadora != "" {
		add("transportadora = $%d", filters.Transportadora)
	}
	if filters.DateFrom != "" {
		add("substr(data_emissao, 7, 4) || substr(data_emissao, 4, 2) || substr(data_emissao, 1, 2) >= $%d",
			reorderDate(filters.DateFrom))
	}
	if filters.DateTo != "" {
		add("substr(data_emissao, 7, 4) || substr(data_emissao, 4, 2) || substr(data_emissao, 1, 2) <= $%d",
			reorderDate(filters.DateTo))
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		args = append(args, pattern)
		conds = append(conds, fmt.Sprintf(
			"(numero_nf ILIKE $%d OR nome_emitente ILIKE $%d OR nome_destinatario ILIKE $%d)",
			len(args), len(args), len(args)))
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func reorderDate(ddmmyyyy string) string {
	if len(ddmmyyyy) != 10 {
		return ddmmyyyy
	}
	return ddmmyyyy[6:10] + ddmmyyyy[3:5] + ddmmyyyy[0:2]
}

func (r *invoiceRepo) Update(ctx context.Context, inv *domain.Invoice) error {
	inv.UpdatedAt = time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET
			numero_nf = $1, cnpj_emitente = $2, nome_emitente = $3,
			cnpj_destinatario = $4, nome_destinatario = $5, data_emissao = $6,
			valor_total = $7, chave_acesso = $8, valor_centavos = $9,
			status = $10, transportadora = $11, placa = $12,
			sync_status = $13, synced_at = $14, sync_error = $15, updated_at = $16
		 WHERE id = $17`,
		inv.NumeroNF, inv.CNPJEmitente, inv.NomeEmitente,
		inv.CNPJDestinatario, inv.NomeDestinatario, inv.DataEmissao,
		inv.ValorTotal, inv.ChaveAcesso, inv.ValorCentavos,
		inv.Status, inv.Transportadora, inv.Placa,
		inv.SyncStatus, inv.SyncedAt, inv.SyncError, inv.UpdatedAt, inv.ID)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Update: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM invoices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

// ClaimPendingSync flips up to limit pending invoices to 'syncing' inside a
// single transaction. SKIP LOCKED keeps concurrent workers from claiming the
// same rows.
func (r *invoiceRepo) ClaimPendingSync(ctx context.Context, limit int) ([]domain.Invoice, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ClaimPendingSync begin: %w", err)
	}
	defer tx.Rollback()

	var invoices []domain.Invoice
	err = tx.SelectContext(ctx, &invoices,
		`SELECT * FROM invoices
		 WHERE sync_status = $1
		 ORDER BY updated_at ASC
		 LIMIT $2
		 FOR UPDATE SKIP LOCKED`,
		domain.SyncStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ClaimPendingSync select: %w", err)
	}
	if len(invoices) == 0 {
		return nil, tx.Commit()
	}

	ids := make([]uuid.UUID, len(invoices))
	for i := range invoices {
		ids[i] = invoices[i].ID
	}
	query, args, err := sqlx.In(
		"UPDATE invoices SET sync_status = ?, updated_at = ? WHERE id IN (?)",
		domain.SyncStatusSyncing, time.Now().UTC(), ids)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ClaimPendingSync in: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("invoiceRepo.ClaimPendingSync update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("invoiceRepo.ClaimPendingSync commit: %w", err)
	}
	return invoices, nil
}

func (r *invoiceRepo) MarkSynced(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices
		 SET sync_status = $1, synced_at = $2, sync_error = NULL, updated_at = $2
		 WHERE id = $3`,
		domain.SyncStatusSynced, now, id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.MarkSynced: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) MarkSyncFailed(ctx context.Context, id uuid.UUID, reason string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices
		 SET sync_status = $1, sync_error = $2, updated_at = $3
		 WHERE id = $4`,
		domain.SyncStatusFailed, reason, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.MarkSyncFailed: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

func (r *invoiceRepo) MarkSyncPending(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices
		 SET sync_status = $1, sync_error = NULL, updated_at = $2
		 WHERE id = $3`,
		domain.SyncStatusPending, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.MarkSyncPending: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrInvoiceNotFound
	}
	return nil
}

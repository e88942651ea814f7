package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated user of the system.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FileMeta stores metadata about an uploaded invoice PDF.
type FileMeta struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	UploadedBy   uuid.UUID  `db:"uploaded_by" json:"uploaded_by"`
	FileName     string     `db:"file_name" json:"file_name"`
	OriginalName string     `db:"original_name" json:"original_name"`
	FileSize     int64      `db:"file_size" json:"file_size"`
	S3Bucket     string     `db:"s3_bucket" json:"s3_bucket"`
	S3Key        string     `db:"s3_key" json:"s3_key"`
	ContentType  string     `db:"content_type" json:"content_type"`
	Status       FileStatus `db:"status" json:"status"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Invoice represents one nota fiscal record. The extracted fields are
// nullable: extraction is best-effort and any of them may be absent.
type Invoice struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	FileID           *uuid.UUID    `db:"file_id" json:"file_id"`
	NumeroNF         *string       `db:"numero_nf" json:"numero_nf"`
	CNPJEmitente     *string       `db:"cnpj_emitente" json:"cnpj_emitente"`
	NomeEmitente     *string       `db:"nome_emitente" json:"nome_emitente"`
	CNPJDestinatario *string       `db:"cnpj_destinatario" json:"cnpj_destinatario"`
	NomeDestinatario *string       `db:"nome_destinatario" json:"nome_destinatario"`
	DataEmissao      *string       `db:"data_emissao" json:"data_emissao"`
	ValorTotal       *string       `db:"valor_total" json:"valor_total"`
	ChaveAcesso      *string       `db:"chave_acesso" json:"chave_acesso"`
	ValorCentavos    *int64        `db:"valor_centavos" json:"valor_centavos"`
	Status           InvoiceStatus `db:"status" json:"status"`
	Transportadora   *string       `db:"transportadora" json:"transportadora"`
	Placa            *string       `db:"placa" json:"placa"`
	SyncStatus       SyncStatus    `db:"sync_status" json:"sync_status"`
	SyncedAt         *time.Time    `db:"synced_at" json:"synced_at"`
	SyncError        *string       `db:"sync_error" json:"sync_error"`
	CreatedBy        uuid.UUID     `db:"created_by" json:"created_by"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// InvoiceFilters narrows invoice listing queries. Zero values mean "no filter".
type InvoiceFilters struct {
	Status         InvoiceStatus
	Transportadora string
	DateFrom       string // DD/MM/YYYY, matched against data_emissao
	DateTo         string
	Search         string // matches numero_nf, nome_emitente, nome_destinatario
}

// Transporter is one entry of the carrier reference data, loaded once at
// startup and served through refdata.TransporterLookup.
type Transporter struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	CNPJ         string    `db:"cnpj" json:"cnpj"`
	DefaultPlaca string    `db:"default_placa" json:"default_placa"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// DashboardStats aggregates invoice counts and totals for the dashboard.
type DashboardStats struct {
	TotalInvoices      int   `db:"total_invoices" json:"total_invoices"`
	StatusPendente     int   `db:"status_pendente" json:"status_pendente"`
	StatusProcessada   int   `db:"status_processada" json:"status_processada"`
	StatusCancelada    int   `db:"status_cancelada" json:"status_cancelada"`
	SyncPending        int   `db:"sync_pending" json:"sync_pending"`
	SyncSynced         int   `db:"sync_synced" json:"sync_synced"`
	SyncFailed         int   `db:"sync_failed" json:"sync_failed"`
	TotalValorCentavos int64 `db:"total_valor_centavos" json:"total_valor_centavos"`
}

// MonthlyTotal is one month's invoice count and value for the dashboard series.
type MonthlyTotal struct {
	Month         string `db:"month" json:"month"` // MM/YYYY
	Count         int    `db:"count" json:"count"`
	ValorCentavos int64  `db:"valor_centavos" json:"valor_centavos"`
}

// TransporterTotal is the per-carrier breakdown for the dashboard.
type TransporterTotal struct {
	Transportadora string `db:"transportadora" json:"transportadora"`
	Count          int    `db:"count" json:"count"`
	ValorCentavos  int64  `db:"valor_centavos" json:"valor_centavos"`
}

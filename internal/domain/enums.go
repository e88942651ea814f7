package domain

// UserRole defines the role hierarchy.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// FileStatus represents the lifecycle of an uploaded file.
type FileStatus string

const (
	FileStatusPending  FileStatus = "pending"
	FileStatusUploaded FileStatus = "uploaded"
	FileStatusFailed   FileStatus = "failed"
	FileStatusDeleted  FileStatus = "deleted"
)

// InvoiceStatus represents the operational state of a nota fiscal.
type InvoiceStatus string

const (
	InvoiceStatusPendente   InvoiceStatus = "pendente"
	InvoiceStatusProcessada InvoiceStatus = "processada"
	InvoiceStatusCancelada  InvoiceStatus = "cancelada"
)

// ValidInvoiceStatuses lists the accepted invoice status values.
var ValidInvoiceStatuses = map[InvoiceStatus]bool{
	InvoiceStatusPendente:   true,
	InvoiceStatusProcessada: true,
	InvoiceStatusCancelada:  true,
}

// SyncStatus tracks the spreadsheet mirror state of an invoice. The mirror
// is best-effort: "failed" never blocks the primary record.
type SyncStatus string

const (
	SyncStatusPending SyncStatus = "pending"
	SyncStatusSyncing SyncStatus = "syncing"
	SyncStatusSynced  SyncStatus = "synced"
	SyncStatusFailed  SyncStatus = "failed"
)

package domain

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user is inactive")
	ErrDuplicateEmail     = errors.New("email already exists")

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("file upload to storage failed")

	ErrInvoiceNotFound   = errors.New("invoice not found")
	ErrInvalidStatus     = errors.New("invalid invoice status")
	ErrEmptyDocumentText = errors.New("document text is empty")

	// Spreadsheet mirror errors. Every one of these is terminal for the
	// call that produced it: no retries, no partial writes.
	ErrSheetsNotConfigured      = errors.New("sheets credentials or spreadsheet id not configured")
	ErrSheetHeaderNotFound      = errors.New("sheet header row is empty")
	ErrSheetMatchKeyUnavailable = errors.New("no usable match key for sheet update")
	ErrSheetRowNotFound         = errors.New("no sheet row matches the update key")
)

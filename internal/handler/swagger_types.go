package handler

import (
	"time"

	"fretenota/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"admin@fretenota.com.br"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// UpdateInvoiceRequest represents the partial invoice update request body.
type UpdateInvoiceRequest struct {
	NumeroNF         *string `json:"numero_nf" example:"000123456"`
	CNPJEmitente     *string `json:"cnpj_emitente" example:"12.345.678/0001-95"`
	NomeEmitente     *string `json:"nome_emitente" example:"TRANSPORTADORA EXEMPLO LTDA"`
	CNPJDestinatario *string `json:"cnpj_destinatario" example:"98.765.432/0001-10"`
	NomeDestinatario *string `json:"nome_destinatario" example:"COMERCIO DE ALIMENTOS SUL"`
	DataEmissao      *string `json:"data_emissao" example:"15/03/2026"`
	ValorTotal       *string `json:"valor_total" example:"1.234,56"`
	ChaveAcesso      *string `json:"chave_acesso" example:"35260312345678000195550010001234561000123456"`
	Status           *string `json:"status" example:"processada"`
	Transportadora   *string `json:"transportadora" example:"Rodoviária Expresso Azul"`
	Placa            *string `json:"placa" example:"ABC1D23"`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Email    string          `json:"email" binding:"required" example:"maria@fretenota.com.br"`
	Password string          `json:"password" binding:"required" example:"securepassword123"`
	FullName string          `json:"full_name" example:"Maria Silva"`
	Role     domain.UserRole `json:"role" binding:"required" example:"member"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Email    *string          `json:"email" example:"maria.souza@fretenota.com.br"`
	FullName *string          `json:"full_name" example:"Maria Souza"`
	Role     *domain.UserRole `json:"role" example:"admin"`
	IsActive *bool            `json:"is_active" example:"true"`
}

// SendReportRequest represents the report email request body.
type SendReportRequest struct {
	Email string `json:"email" binding:"required" example:"gerencia@fretenota.com.br"`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2026-03-15T10:30:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"operation completed successfully"`
}

// FileWithDownloadURL represents a file with its download URL.
type FileWithDownloadURL struct {
	File        domain.FileMeta `json:"file"`
	DownloadURL string          `json:"download_url" example:"https://s3.amazonaws.com/fretenota-uploads/...?X-Amz-Signature=..."`
}

// ResyncResponse represents the resync-all result.
type ResyncResponse struct {
	Count int `json:"count" example:"42"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}

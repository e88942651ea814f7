package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretenota/internal/domain"
)

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 15)
	assert.Equal(t, "Numero NF", row[0])
	assert.Equal(t, "Status", row[9])
	assert.Equal(t, "Criado Em", row[14])
}

func TestWriteInvoices_FullRecord(t *testing.T) {
	syncedAt := time.Date(2026, 3, 16, 10, 30, 0, 0, time.UTC)
	createdAt := time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

	inv := domain.Invoice{
		ID:               uuid.New(),
		NumeroNF:         strPtr("000012345"),
		CNPJEmitente:     strPtr("12.345.678/0001-90"),
		NomeEmitente:     strPtr("TRANSPORTES RAPIDAO LTDA"),
		CNPJDestinatario: strPtr("98.765.432/0001-10"),
		NomeDestinatario: strPtr("COMERCIO DE PECAS SUL"),
		DataEmissao:      strPtr("15/03/2026"),
		ValorTotal:       strPtr("1.234,56"),
		ValorCentavos:    int64Ptr(123456),
		ChaveAcesso:      strPtr("35260312345678000190550010000123451000123456"),
		Status:           domain.InvoiceStatusProcessada,
		Transportadora:   strPtr("Transportes Rapidao Ltda"),
		Placa:            strPtr("ABC1D23"),
		SyncStatus:       domain.SyncStatusSynced,
		SyncedAt:         &syncedAt,
		CreatedAt:        createdAt,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteInvoices([]domain.Invoice{inv}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 15)
	assert.Equal(t, "000012345", row[0])
	assert.Equal(t, "12.345.678/0001-90", row[1])
	assert.Equal(t, "TRANSPORTES RAPIDAO LTDA", row[2])
	assert.Equal(t, "98.765.432/0001-10", row[3])
	assert.Equal(t, "COMERCIO DE PECAS SUL", row[4])
	assert.Equal(t, "15/03/2026", row[5])
	assert.Equal(t, "1.234,56", row[6])
	assert.Equal(t, "123456", row[7])
	assert.Equal(t, "35260312345678000190550010000123451000123456", row[8])
	assert.Equal(t, "processada", row[9])
	assert.Equal(t, "Transportes Rapidao Ltda", row[10])
	assert.Equal(t, "ABC1D23", row[11])
	assert.Equal(t, "synced", row[12])
	assert.Equal(t, "2026-03-16T10:30:00Z", row[13])
	assert.Equal(t, "2026-03-15T08:00:00Z", row[14])
}

func TestWriteInvoices_SparseRecord(t *testing.T) {
	inv := domain.Invoice{
		ID:         uuid.New(),
		Status:     domain.InvoiceStatusPendente,
		SyncStatus: domain.SyncStatusPending,
		CreatedAt:  time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteInvoices([]domain.Invoice{inv}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 15)
	assert.Empty(t, row[0])
	assert.Empty(t, row[7])
	assert.Equal(t, "pendente", row[9])
	assert.Equal(t, "pending", row[12])
	assert.Empty(t, row[13])
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "notas", "notas"},
		{"spaces", "notas marco 2026", "notas_marco_2026"},
		{"special chars", "notas/março: q1!", "notas_mar_o_q1"},
		{"consecutive separators", "notas -- q1", "notas_--_q1"},
		{"leading and trailing", "  notas  ", "notas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	got := BuildFilename("notas fiscais")
	assert.Contains(t, got, "notas_fiscais_")
	assert.Contains(t, got, ".csv")
	assert.Contains(t, got, time.Now().Format("2006-01-02"))
}

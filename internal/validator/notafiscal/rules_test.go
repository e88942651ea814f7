package notafiscal_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretenota/internal/domain"
	"fretenota/internal/validator"
	"fretenota/internal/validator/notafiscal"
)

const (
	validCNPJ   = "12.345.678/0001-95"
	invalidCNPJ = "12.345.678/0001-90"
	validChave  = "35260312345678000195550010000123451123456783"
)

func strPtr(s string) *string { return &s }

func fullInvoice() *domain.Invoice {
	return &domain.Invoice{
		NumeroNF:         strPtr("000012345"),
		CNPJEmitente:     strPtr(validCNPJ),
		CNPJDestinatario: strPtr("12345678000195"),
		DataEmissao:      strPtr("15/03/2026"),
		ValorTotal:       strPtr("1.234,56"),
		ChaveAcesso:      strPtr(validChave),
	}
}

func validate(t *testing.T, inv *domain.Invoice) *validator.Report {
	t.Helper()
	report := validator.NewEngine(notafiscal.DefaultRegistry()).Validate(inv)
	require.NotNil(t, report)
	return report
}

func issuesFor(report *validator.Report, field string) []validator.Issue {
	var out []validator.Issue
	for _, issue := range report.Issues {
		if issue.Field == field {
			out = append(out, issue)
		}
	}
	return out
}

func TestValidate_CleanInvoice(t *testing.T) {
	report := validate(t, fullInvoice())

	assert.True(t, report.Valid)
	assert.Empty(t, report.Issues)
}

func TestValidate_MissingFieldsAreWarnings(t *testing.T) {
	report := validate(t, &domain.Invoice{})

	assert.True(t, report.Valid)
	require.Len(t, report.Issues, 3)
	for _, issue := range report.Issues {
		assert.Equal(t, validator.SeverityWarning, issue.Severity)
		assert.Equal(t, "required_fields", issue.Rule)
	}
}

func TestValidate_InvalidCNPJCheckDigits(t *testing.T) {
	inv := fullInvoice()
	inv.CNPJEmitente = strPtr(invalidCNPJ)

	report := validate(t, inv)

	assert.False(t, report.Valid)
	issues := issuesFor(report, "cnpj_emitente")
	require.Len(t, issues, 1)
	assert.Equal(t, validator.SeverityError, issues[0].Severity)
	// The key embeds the issuer CNPJ, so a changed emitente also trips
	// the cross-check warning.
	assert.NotEmpty(t, issuesFor(report, "chave_acesso"))
}

func TestValidate_CNPJWrongLength(t *testing.T) {
	inv := fullInvoice()
	inv.CNPJDestinatario = strPtr("123456")

	report := validate(t, inv)

	assert.False(t, report.Valid)
	require.Len(t, issuesFor(report, "cnpj_destinatario"), 1)
}

func TestValidate_CNPJRepeatedDigits(t *testing.T) {
	inv := fullInvoice()
	inv.CNPJDestinatario = strPtr("11111111111111")

	report := validate(t, inv)

	assert.False(t, report.Valid)
}

func TestValidate_ChaveWrongLength(t *testing.T) {
	inv := fullInvoice()
	inv.ChaveAcesso = strPtr("123456789")

	report := validate(t, inv)

	assert.False(t, report.Valid)
	issues := issuesFor(report, "chave_acesso")
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "44")
}

func TestValidate_ChaveBadCheckDigit(t *testing.T) {
	inv := fullInvoice()
	tampered := validChave[:43] + "9"
	inv.ChaveAcesso = strPtr(tampered)

	report := validate(t, inv)

	assert.False(t, report.Valid)
	require.Len(t, issuesFor(report, "chave_acesso"), 1)
}

func TestValidate_ChaveEmitenteMismatchIsWarning(t *testing.T) {
	inv := fullInvoice()
	inv.CNPJEmitente = strPtr("11.222.333/0001-81")

	report := validate(t, inv)

	var mismatch []validator.Issue
	for _, issue := range issuesFor(report, "chave_acesso") {
		if issue.Severity == validator.SeverityWarning {
			mismatch = append(mismatch, issue)
		}
	}
	require.Len(t, mismatch, 1)
	assert.Contains(t, mismatch[0].Message, "emitente")
}

func TestValidate_BadDataEmissao(t *testing.T) {
	inv := fullInvoice()
	inv.DataEmissao = strPtr("2026-03-15")

	report := validate(t, inv)

	assert.False(t, report.Valid)
	require.Len(t, issuesFor(report, "data_emissao"), 1)
}

func TestValidate_FutureDataEmissaoIsWarning(t *testing.T) {
	inv := fullInvoice()
	inv.DataEmissao = strPtr("15/03/2099")

	report := validate(t, inv)

	assert.True(t, report.Valid)
	issues := issuesFor(report, "data_emissao")
	require.Len(t, issues, 1)
	assert.Equal(t, validator.SeverityWarning, issues[0].Severity)
}

func TestValidate_BadValorTotal(t *testing.T) {
	inv := fullInvoice()
	inv.ValorTotal = strPtr("abc")

	report := validate(t, inv)

	assert.False(t, report.Valid)
	require.Len(t, issuesFor(report, "valor_total"), 1)
}

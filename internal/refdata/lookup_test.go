package refdata_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fretenota/internal/domain"
	"fretenota/internal/refdata"
)

func testEntries() []domain.Transporter {
	return []domain.Transporter{
		{ID: uuid.New(), Name: "Transportes São João LTDA", CNPJ: "12.345.678/0001-90", DefaultPlaca: "ABC1D23", IsActive: true},
		{ID: uuid.New(), Name: "Rodoviária Expresso Azul", CNPJ: "98.765.432/0001-10", IsActive: true},
		{ID: uuid.New(), Name: "Desativada Cargas", CNPJ: "11.111.111/0001-11", IsActive: false},
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "transportes sao joao ltda", refdata.Normalize("Transportes São João  LTDA"))
	assert.Equal(t, "transportes sao joao ltda", refdata.Normalize("TRANSPORTES SAO JOAO LTDA"))
	assert.Equal(t, "", refdata.Normalize("   "))
}

func TestTransporterLookup_ExactMatch(t *testing.T) {
	l := refdata.NewTransporterLookup(testEntries())
	require.Equal(t, 2, l.Len(), "inactive entries are skipped")

	got := l.Resolve("TRANSPORTES SAO JOAO LTDA")
	require.NotNil(t, got)
	assert.Equal(t, "Transportes São João LTDA", got.Name)
	assert.Equal(t, "ABC1D23", got.DefaultPlaca)
}

func TestTransporterLookup_FuzzyFallback(t *testing.T) {
	l := refdata.NewTransporterLookup(testEntries())

	// Extraction noise: a dropped word still resolves to the closest entry.
	got := l.Resolve("RODOVIARIA EXPRESSO")
	require.NotNil(t, got)
	assert.Equal(t, "Rodoviária Expresso Azul", got.Name)
}

func TestTransporterLookup_EmptyName(t *testing.T) {
	l := refdata.NewTransporterLookup(testEntries())
	assert.Nil(t, l.Resolve(""))
	assert.Nil(t, l.Resolve("  "))
}

func TestTransporterLookup_ResolveByCNPJ(t *testing.T) {
	l := refdata.NewTransporterLookup(testEntries())

	got := l.ResolveByCNPJ("12345678000190")
	require.NotNil(t, got)
	assert.Equal(t, "Transportes São João LTDA", got.Name)

	assert.Nil(t, l.ResolveByCNPJ("00000000000000"))
	assert.Nil(t, l.ResolveByCNPJ(""))
}

func TestTransporterLookup_InactiveNotResolved(t *testing.T) {
	l := refdata.NewTransporterLookup(testEntries())
	assert.Nil(t, l.ResolveByCNPJ("11111111000111"))
}

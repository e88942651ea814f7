// Package extractor turns the raw text layer of a nota fiscal PDF into a
// structured record. Each field is matched by its own pattern, evaluated
// independently against the full text; a field that does not match is
// simply nil. DANFE layouts vary wildly between issuers, so per-field
// first-match extraction is deliberately preferred over a structured
// document parser.
package extractor

import (
	"regexp"
	"strconv"
	"strings"

	"fretenota/internal/domain"
)

// Record holds the fields recovered from one invoice text. Every field is
// independently optional; nil means the pattern did not match.
type Record struct {
	NumeroNF         *string `json:"numero_nf"`
	CNPJEmitente     *string `json:"cnpj_emitente"`
	NomeEmitente     *string `json:"nome_emitente"`
	CNPJDestinatario *string `json:"cnpj_destinatario"`
	NomeDestinatario *string `json:"nome_destinatario"`
	DataEmissao      *string `json:"data_emissao"`
	ValorTotal       *string `json:"valor_total"`
	ChaveAcesso      *string `json:"chave_acesso"`
}

// cnpjShape matches a CNPJ with or without punctuation: XX.XXX.XXX/XXXX-XX
// or 14 raw digits.
const cnpjShape = `\d{2}\.?\d{3}\.?\d{3}/?\d{4}-?\d{2}`

// upperRun matches a company-name run: uppercase letters (including
// Portuguese accented ones), spaces, ampersands, periods and hyphens.
const upperRun = `[A-ZÁÀÂÃÉÊÍÓÔÕÚÜÇ][A-ZÁÀÂÃÉÊÍÓÔÕÚÜÇ &.\-]+`

var (
	// Optional label ("Nº", "NÚMERO", "NUM") followed by an isolated run of
	// exactly nine digits. \b keeps the run from matching inside a longer
	// number such as the 44-digit access key.
	reNumeroNF = regexp.MustCompile(`(?i:(?:Nº|N[ÚU]MERO|NUM)[\s.:]*)?\b(\d{9})\b`)

	reCNPJEmitente = regexp.MustCompile(`(?i:CNPJ)\s*[:.]?\s*(` + cnpjShape + `)`)
	reNomeEmitente = regexp.MustCompile(`(?i:RAZ[ÃA]O SOCIAL|NOME)\s*[:.]?\s*(` + upperRun + `)`)

	// Recipient fields reuse the issuer labels but are scoped to the
	// substring following "DESTINATÁRIO". The non-greedy span from that
	// token to the field pattern is what disambiguates the two parties.
	reCNPJDestinatario = regexp.MustCompile(`(?s)DESTINAT[ÁA]RIO.*?(?i:CNPJ)\s*[:.]?\s*(` + cnpjShape + `)`)
	reNomeDestinatario = regexp.MustCompile(`(?s)DESTINAT[ÁA]RIO.*?(?i:RAZ[ÃA]O SOCIAL|NOME)\s*[:.]?\s*(` + upperRun + `)`)

	reDataEmissao = regexp.MustCompile(`(?i:DATA DE EMISS[ÃA]O|EMISS[ÃA]O)\s*[:.]?\s*(\d{2}/\d{2}/\d{4})`)
	reValorTotal  = regexp.MustCompile(`(?i:VALOR TOTAL|TOTAL GERAL|TOTAL)\s*[:.]?\s*(?:R\$\s*)?(\d{1,3}(?:\.\d{3})*,\d{2})`)

	// The NFe access key is 44 consecutive digits; the length alone is
	// distinctive enough that no label anchor is used.
	reChaveAcesso = regexp.MustCompile(`\b(\d{44})\b`)
)

// Extract applies every field pattern to text and returns the resulting
// record. It never panics and a field that fails to match is left nil; the
// only error condition is empty input, and even then a valid all-nil
// record is returned so callers may ignore the error.
func Extract(text string) (Record, error) {
	var rec Record
	if strings.TrimSpace(text) == "" {
		return rec, domain.ErrEmptyDocumentText
	}

	rec.NumeroNF = firstMatch(reNumeroNF, text)
	rec.CNPJEmitente = firstMatch(reCNPJEmitente, text)
	rec.NomeEmitente = firstMatch(reNomeEmitente, text)
	rec.CNPJDestinatario = firstMatch(reCNPJDestinatario, text)
	rec.NomeDestinatario = firstMatch(reNomeDestinatario, text)
	rec.DataEmissao = firstMatch(reDataEmissao, text)
	rec.ValorTotal = firstMatch(reValorTotal, text)
	rec.ChaveAcesso = firstMatch(reChaveAcesso, text)

	return rec, nil
}

// firstMatch returns the first capture group of the first match, trimmed,
// or nil when the pattern does not match.
func firstMatch(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if len(m) < 2 {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return &v
}

// ParseValorCentavos converts a Brazilian-formatted decimal ("1.234,56")
// into integer centavos for aggregation queries.
func ParseValorCentavos(valor string) (int64, error) {
	s := strings.TrimSpace(valor)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ".", "")

	intPart := s
	fracPart := "00"
	if i := strings.LastIndex(s, ","); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
	}
	if len(fracPart) != 2 {
		return 0, strconv.ErrSyntax
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, err
	}
	cents, err := strconv.ParseInt(fracPart, 10, 64)
	if err != nil {
		return 0, err
	}
	return whole*100 + cents, nil
}

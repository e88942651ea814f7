// Package notafiscal holds the built-in validation rules for extracted
// nota fiscal fields: CNPJ check digits, access key integrity, date and
// money formats.
package notafiscal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fretenota/internal/domain"
	"fretenota/internal/extractor"
	"fretenota/internal/validator"
)

// DefaultRegistry returns a registry with every built-in rule.
func DefaultRegistry() *validator.Registry {
	r := validator.NewRegistry()
	r.Register(requiredFieldsRule{})
	r.Register(cnpjRule{})
	r.Register(chaveAcessoRule{})
	r.Register(dataEmissaoRule{})
	r.Register(valorTotalRule{})
	return r
}

// requiredFieldsRule warns about fields the extractor could not recover.
// Missing fields are expected on low-quality scans, so this never errors.
type requiredFieldsRule struct{}

func (requiredFieldsRule) Key() string { return "required_fields" }

func (r requiredFieldsRule) Check(inv *domain.Invoice) []validator.Issue {
	var issues []validator.Issue
	missing := func(field string) {
		issues = append(issues, validator.Issue{
			Field:    field,
			Rule:     r.Key(),
			Severity: validator.SeverityWarning,
			Message:  "campo não extraído do PDF",
		})
	}
	if inv.NumeroNF == nil {
		missing("numero_nf")
	}
	if inv.DataEmissao == nil {
		missing("data_emissao")
	}
	if inv.ValorTotal == nil {
		missing("valor_total")
	}
	return issues
}

// cnpjRule validates the check digits of both parties' CNPJs.
type cnpjRule struct{}

func (cnpjRule) Key() string { return "cnpj" }

func (r cnpjRule) Check(inv *domain.Invoice) []validator.Issue {
	var issues []validator.Issue
	check := func(field string, value *string) {
		if value == nil {
			return
		}
		if err := validateCNPJ(*value); err != nil {
			issues = append(issues, validator.Issue{
				Field:    field,
				Rule:     r.Key(),
				Severity: validator.SeverityError,
				Message:  err.Error(),
			})
		}
	}
	check("cnpj_emitente", inv.CNPJEmitente)
	check("cnpj_destinatario", inv.CNPJDestinatario)
	return issues
}

// chaveAcessoRule validates the 44-digit NFe access key: length, check
// digit, and agreement with the issuer CNPJ embedded in positions 7-20.
type chaveAcessoRule struct{}

func (chaveAcessoRule) Key() string { return "chave_acesso" }

func (r chaveAcessoRule) Check(inv *domain.Invoice) []validator.Issue {
	if inv.ChaveAcesso == nil {
		return nil
	}
	chave := digitsOnly(*inv.ChaveAcesso)

	if len(chave) != 44 {
		return []validator.Issue{{
			Field:    "chave_acesso",
			Rule:     r.Key(),
			Severity: validator.SeverityError,
			Message:  fmt.Sprintf("chave de acesso com %d dígitos; esperados 44", len(chave)),
		}}
	}

	var issues []validator.Issue
	if chaveCheckDigit(chave[:43]) != int(chave[43]-'0') {
		issues = append(issues, validator.Issue{
			Field:    "chave_acesso",
			Rule:     r.Key(),
			Severity: validator.SeverityError,
			Message:  "dígito verificador da chave de acesso inválido",
		})
	}

	if inv.CNPJEmitente != nil {
		if emitente := digitsOnly(*inv.CNPJEmitente); len(emitente) == 14 && chave[6:20] != emitente {
			issues = append(issues, validator.Issue{
				Field:    "chave_acesso",
				Rule:     r.Key(),
				Severity: validator.SeverityWarning,
				Message:  "CNPJ embutido na chave difere do CNPJ do emitente",
			})
		}
	}
	return issues
}

// dataEmissaoRule validates the emission date format and plausibility.
type dataEmissaoRule struct{}

func (dataEmissaoRule) Key() string { return "data_emissao" }

func (r dataEmissaoRule) Check(inv *domain.Invoice) []validator.Issue {
	if inv.DataEmissao == nil {
		return nil
	}
	t, err := time.Parse("02/01/2006", *inv.DataEmissao)
	if err != nil {
		return []validator.Issue{{
			Field:    "data_emissao",
			Rule:     r.Key(),
			Severity: validator.SeverityError,
			Message:  "data de emissão inválida; esperado DD/MM/AAAA",
		}}
	}
	if t.After(time.Now().AddDate(0, 0, 1)) {
		return []validator.Issue{{
			Field:    "data_emissao",
			Rule:     r.Key(),
			Severity: validator.SeverityWarning,
			Message:  "data de emissão no futuro",
		}}
	}
	return nil
}

// valorTotalRule validates the Brazilian decimal format of valor_total.
type valorTotalRule struct{}

func (valorTotalRule) Key() string { return "valor_total" }

func (r valorTotalRule) Check(inv *domain.Invoice) []validator.Issue {
	if inv.ValorTotal == nil {
		return nil
	}
	cents, err := extractor.ParseValorCentavos(*inv.ValorTotal)
	if err != nil {
		return []validator.Issue{{
			Field:    "valor_total",
			Rule:     r.Key(),
			Severity: validator.SeverityError,
			Message:  "valor total inválido; esperado formato 1.234,56",
		}}
	}
	if cents <= 0 {
		return []validator.Issue{{
			Field:    "valor_total",
			Rule:     r.Key(),
			Severity: validator.SeverityWarning,
			Message:  "valor total não positivo",
		}}
	}
	return nil
}

// validateCNPJ checks length, the trivial repeated-digit case, and both
// check digits of a CNPJ, ignoring punctuation.
func validateCNPJ(cnpj string) error {
	digits := digitsOnly(cnpj)
	if len(digits) != 14 {
		return fmt.Errorf("CNPJ com %d dígitos; esperados 14", len(digits))
	}
	if strings.Count(digits, digits[:1]) == 14 {
		return errors.New("CNPJ com todos os dígitos iguais")
	}
	if cnpjCheckDigit(digits[:12]) != int(digits[12]-'0') ||
		cnpjCheckDigit(digits[:13]) != int(digits[13]-'0') {
		return errors.New("dígitos verificadores do CNPJ inválidos")
	}
	return nil
}

// cnpjCheckDigit computes the mod-11 check digit over the given prefix
// (12 digits for the first, 13 for the second). Weights run 2..9 from the
// rightmost digit.
func cnpjCheckDigit(prefix string) int {
	weight := 2
	sum := 0
	for i := len(prefix) - 1; i >= 0; i-- {
		sum += int(prefix[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	rest := sum % 11
	if rest < 2 {
		return 0
	}
	return 11 - rest
}

// chaveCheckDigit computes the mod-11 check digit over the first 43
// digits of the access key, weights cycling 2..9 from the right.
func chaveCheckDigit(prefix string) int {
	weight := 2
	sum := 0
	for i := len(prefix) - 1; i >= 0; i-- {
		sum += int(prefix[i]-'0') * weight
		weight++
		if weight > 9 {
			weight = 2
		}
	}
	dv := 11 - sum%11
	if dv >= 10 {
		return 0
	}
	return dv
}

func digitsOnly(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

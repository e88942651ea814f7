package service

import (
	"context"
	"fmt"
	"strings"

	"fretenota/internal/domain"
	"fretenota/internal/port"
)

// ReportService builds period summaries formatted for WhatsApp and
// optionally delivers them by email.
type ReportService interface {
	WhatsAppSummary(ctx context.Context, filters *domain.InvoiceFilters) (string, error)
	SendSummary(ctx context.Context, toEmail string, filters *domain.InvoiceFilters) error
}

type reportService struct {
	invoiceRepo port.InvoiceRepository
	statsRepo   port.StatsRepository
	sender      port.EmailSender
}

// NewReportService creates a new ReportService implementation.
func NewReportService(
	invoiceRepo port.InvoiceRepository,
	statsRepo port.StatsRepository,
	sender port.EmailSender,
) ReportService {
	return &reportService{
		invoiceRepo: invoiceRepo,
		statsRepo:   statsRepo,
		sender:      sender,
	}
}

// WhatsAppSummary renders the period summary as plain text with WhatsApp
// markup (*bold*, _italic_), one invoice per line.
func (s *reportService) WhatsAppSummary(ctx context.Context, filters *domain.InvoiceFilters) (string, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, filters, 0, 500)
	if err != nil {
		return "", fmt.Errorf("reportService.WhatsAppSummary: %w", err)
	}

	var b strings.Builder
	b.WriteString("*Resumo de Notas Fiscais*\n")
	if filters != nil && (filters.DateFrom != "" || filters.DateTo != "") {
		b.WriteString(fmt.Sprintf("_Período: %s a %s_\n", orDash(filters.DateFrom), orDash(filters.DateTo)))
	}
	b.WriteString("\n")

	var sumCentavos int64
	for _, inv := range invoices {
		numero := "s/n"
		if inv.NumeroNF != nil {
			numero = *inv.NumeroNF
		}
		valor := "-"
		if inv.ValorTotal != nil {
			valor = "R$ " + *inv.ValorTotal
		}
		transp := "-"
		if inv.Transportadora != nil {
			transp = *inv.Transportadora
		}
		data := "-"
		if inv.DataEmissao != nil {
			data = *inv.DataEmissao
		}
		b.WriteString(fmt.Sprintf("• NF %s | %s | %s | %s\n", numero, data, transp, valor))
		if inv.ValorCentavos != nil {
			sumCentavos += *inv.ValorCentavos
		}
	}

	b.WriteString(fmt.Sprintf("\n*Total:* %d notas | *R$ %s*\n", total, formatCentavos(sumCentavos)))
	return b.String(), nil
}

func (s *reportService) SendSummary(ctx context.Context, toEmail string, filters *domain.InvoiceFilters) error {
	body, err := s.WhatsAppSummary(ctx, filters)
	if err != nil {
		return err
	}
	if err := s.sender.SendSummary(ctx, toEmail, "Resumo de Notas Fiscais", body); err != nil {
		return fmt.Errorf("reportService.SendSummary: %w", err)
	}
	return nil
}

// formatCentavos renders integer cents in the Brazilian money format:
// 1234567 -> "12.345,67".
func formatCentavos(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var parts []string
	for len(digits) > 3 {
		parts = append([]string{digits[len(digits)-3:]}, parts...)
		digits = digits[:len(digits)-3]
	}
	parts = append([]string{digits}, parts...)

	out := fmt.Sprintf("%s,%02d", strings.Join(parts, "."), frac)
	if neg {
		return "-" + out
	}
	return out
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

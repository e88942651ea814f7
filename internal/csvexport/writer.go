package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fretenota/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Numero NF",
	"CNPJ Emitente",
	"Nome Emitente",
	"CNPJ Destinatario",
	"Nome Destinatario",
	"Data Emissao",
	"Valor Total",
	"Valor (centavos)",
	"Chave de Acesso",
	"Status",
	"Transportadora",
	"Placa",
	"Sincronizacao",
	"Sincronizado Em",
	"Criado Em",
}

// Writer wraps csv.Writer for exporting invoices as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteInvoices converts a batch of invoices to CSV rows and writes them.
func (w *Writer) WriteInvoices(invoices []domain.Invoice) error {
	for i := range invoices {
		row := invoiceToRow(&invoices[i])
		if err := w.csv.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// invoiceToRow converts a single invoice to a string slice in column order.
// Nil extracted fields become empty cells.
func invoiceToRow(inv *domain.Invoice) []string {
	row := make([]string, len(columns))

	row[0] = deref(inv.NumeroNF)
	row[1] = deref(inv.CNPJEmitente)
	row[2] = deref(inv.NomeEmitente)
	row[3] = deref(inv.CNPJDestinatario)
	row[4] = deref(inv.NomeDestinatario)
	row[5] = deref(inv.DataEmissao)
	row[6] = deref(inv.ValorTotal)
	if inv.ValorCentavos != nil {
		row[7] = strconv.FormatInt(*inv.ValorCentavos, 10)
	}
	row[8] = deref(inv.ChaveAcesso)
	row[9] = string(inv.Status)
	row[10] = deref(inv.Transportadora)
	row[11] = deref(inv.Placa)
	row[12] = string(inv.SyncStatus)
	row[13] = formatTime(inv.SyncedAt)
	row[14] = inv.CreatedAt.Format(time.RFC3339)

	return row
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header. Format: {sanitized_name}_{YYYY-MM-DD}.csv
func BuildFilename(name string) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.csv", sanitized, date)
}

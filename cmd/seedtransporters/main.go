// Command seedtransporters converts the carrier master Excel file into a
// SQL seed file for the transporters table.
// Expected columns: A=name, B=CNPJ, C=default plate, D=active (sim/não).
// Usage: go run ./cmd/seedtransporters [transportadoras.xlsx]
// Output: db/seeds/transporters.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

type transporterEntry struct {
	name         string
	cnpj         string
	defaultPlaca string
	active       bool
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "transportadoras.xlsx"
	if len(os.Args) > 1 {
		xlsxPath = os.Args[1]
	}
	outPath := "db/seeds/transporters.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheetName := f.GetSheetName(0)
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("read sheet %s: %w", sheetName, err)
	}

	seen := make(map[string]bool)
	var entries []transporterEntry

	// Row 0 is the header.
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		name := strings.TrimSpace(cellVal(row, 0))
		if name == "" {
			continue
		}

		cnpj := digitsOnly(cellVal(row, 1))
		if cnpj != "" && len(cnpj) != 14 {
			log.Printf("row %d: skipping %q, malformed CNPJ %q", i+1, name, cellVal(row, 1))
			continue
		}

		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		entries = append(entries, transporterEntry{
			name:         name,
			cnpj:         cnpj,
			defaultPlaca: strings.ToUpper(strings.TrimSpace(cellVal(row, 2))),
			active:       parseActive(cellVal(row, 3)),
		})
	}

	if len(entries) == 0 {
		return fmt.Errorf("no transporters found in %s", xlsxPath)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	var b strings.Builder
	b.WriteString("-- Transporter seed data generated from Excel.\n")
	fmt.Fprintf(&b, "-- %d entries.\n", len(entries))
	b.WriteString("BEGIN;\n\n")
	b.WriteString("INSERT INTO transporters (id, name, cnpj, default_placa, is_active) VALUES\n")

	for i := range entries {
		e := &entries[i]
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "  (gen_random_uuid(), '%s', '%s', '%s', %t)",
			escapeSQL(e.name), e.cnpj, escapeSQL(e.defaultPlaca), e.active)
	}

	b.WriteString("\nON CONFLICT (name) DO UPDATE SET\n")
	b.WriteString("  cnpj = EXCLUDED.cnpj,\n")
	b.WriteString("  default_placa = EXCLUDED.default_placa,\n")
	b.WriteString("  is_active = EXCLUDED.is_active;\n")
	b.WriteString("\nCOMMIT;\n")

	if _, err := out.WriteString(b.String()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	log.Printf("Generated %d transporters in %s", len(entries), outPath)
	return nil
}

func parseActive(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sim", "s", "yes", "1", "true", "ativo":
		return true
	}
	return false
}

func cellVal(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, c := range s {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

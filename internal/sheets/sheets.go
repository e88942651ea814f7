// Package sheets mirrors invoice records into an external spreadsheet
// without requiring callers to know the sheet's column order. The header
// row is fetched fresh on every call — never cached — so a sheet whose
// structure changed between calls can never corrupt column alignment.
//
// Neither operation locks anything: two concurrent Update calls against
// the same row are last-write-wins at the row level, since the
// fetch-merge-write sequence is not transactional. The mirror is
// best-effort by design; callers tolerate failure without rolling back
// their primary store.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"

	"fretenota/internal/domain"
)

// Match key columns for Update, tried in priority order. Different callers
// have different identifiers at hand (a local edit knows the registro_id,
// a re-processed PDF only the invoice number), so a fixed priority gives
// deterministic behavior without the caller knowing which key the sheet uses.
var matchKeys = []string{"registro_id", "numero_nf", "id"}

// ValuesAPI is the narrow slice of a spreadsheet backend the synchronizer
// needs. Ranges are A1 notation.
type ValuesAPI interface {
	Get(ctx context.Context, rangeA1 string) ([][]any, error)
	Append(ctx context.Context, rangeA1 string, rows [][]any) error
	Update(ctx context.Context, rangeA1 string, rows [][]any) error
}

// Client synchronizes rows into one sheet of one spreadsheet. It holds no
// cache and is safe for concurrent use.
type Client struct {
	api       ValuesAPI
	sheetName string
}

// NewClient creates a Client over the given values backend.
func NewClient(api ValuesAPI, sheetName string) *Client {
	return &Client{api: api, sheetName: sheetName}
}

// Append adds one row at the end of the sheet's data region. Output cells
// follow the live header's column order; header columns missing from the
// row become empty strings and row keys not present in the header are
// dropped. When the sheet has no header row at all, the row's own key
// order is used instead.
func (c *Client) Append(ctx context.Context, row *Row) error {
	header, err := c.header(ctx)
	if err != nil {
		return err
	}

	var out []any
	if len(header) == 0 {
		for _, k := range row.Keys() {
			v, _ := row.Get(k)
			out = append(out, cellString(v))
		}
	} else {
		out = make([]any, len(header))
		for i, col := range header {
			if v, ok := row.Get(col); ok {
				out[i] = cellString(v)
			} else {
				out[i] = ""
			}
		}
	}

	rangeA1 := fmt.Sprintf("%s!A1", c.sheetName)
	if err := c.api.Append(ctx, rangeA1, [][]any{out}); err != nil {
		return fmt.Errorf("sheets.Append: %w", err)
	}
	return nil
}

// Update locates the data row matching the row's match key and writes the
// full merged row back in place. For every header column the output cell
// is the incoming value when present and non-nil, otherwise the existing
// cell, otherwise empty string — a partial update never blanks columns the
// caller did not supply. Update never creates a row.
func (c *Client) Update(ctx context.Context, row *Row) error {
	header, err := c.header(ctx)
	if err != nil {
		return err
	}
	if len(header) == 0 {
		return domain.ErrSheetHeaderNotFound
	}

	keyCol := -1
	var keyVal string
	for _, k := range matchKeys {
		col := indexOf(header, k)
		if col < 0 {
			continue
		}
		if v, ok := row.Get(k); ok && v != nil {
			keyCol = col
			keyVal = cellString(v)
			break
		}
	}
	if keyCol < 0 {
		return domain.ErrSheetMatchKeyUnavailable
	}

	lastCol := ColumnLetter(len(header) - 1)
	dataRange := fmt.Sprintf("%s!A2:%s", c.sheetName, lastCol)
	data, err := c.api.Get(ctx, dataRange)
	if err != nil {
		return fmt.Errorf("sheets.Update fetch data: %w", err)
	}

	rowIdx := -1
	for i, existing := range data {
		if keyCol < len(existing) && cellString(existing[keyCol]) == keyVal {
			rowIdx = i
			break
		}
	}
	if rowIdx < 0 {
		return domain.ErrSheetRowNotFound
	}

	existing := data[rowIdx]
	merged := make([]any, len(header))
	for i, col := range header {
		switch v, ok := row.Get(col); {
		case ok && v != nil:
			merged[i] = cellString(v)
		case i < len(existing) && existing[i] != nil:
			merged[i] = existing[i]
		default:
			merged[i] = ""
		}
	}

	// +2 accounts for the header row and 1-based sheet indexing.
	rowNum := rowIdx + 2
	writeRange := fmt.Sprintf("%s!A%d:%s%d", c.sheetName, rowNum, lastCol, rowNum)
	if err := c.api.Update(ctx, writeRange, [][]any{merged}); err != nil {
		return fmt.Errorf("sheets.Update write row %d: %w", rowNum, err)
	}
	return nil
}

// header fetches the sheet's first row fresh and coerces each cell to a
// column name string.
func (c *Client) header(ctx context.Context) ([]string, error) {
	rows, err := c.api.Get(ctx, fmt.Sprintf("%s!1:1", c.sheetName))
	if err != nil {
		return nil, fmt.Errorf("sheets: fetch header: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	header := make([]string, 0, len(rows[0]))
	for _, cell := range rows[0] {
		header = append(header, cellString(cell))
	}
	return header, nil
}

// ColumnLetter converts a zero-based column index to its A1 letter address
// using bijective base-26: 0→A, 25→Z, 26→AA, 51→AZ, 52→BA.
func ColumnLetter(index int) string {
	n := index + 1
	var buf []byte
	for n > 0 {
		n--
		buf = append([]byte{byte('A' + n%26)}, buf...)
		n /= 26
	}
	return string(buf)
}

// cellString serializes a row value for writing and for match-key
// comparison: nil becomes empty string, maps and slices become a JSON
// string, everything else its string form.
func cellString(v any) string {
	if v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	default:
		return fmt.Sprint(v)
	}
}

func indexOf(ss []string, want string) int {
	for i, s := range ss {
		if s == want {
			return i
		}
	}
	return -1
}

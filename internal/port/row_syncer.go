package port

import (
	"context"

	"fretenota/internal/sheets"
)

// RowSyncer mirrors one record into the external spreadsheet. Append adds
// a new row; Update rewrites an existing row located by its match key and
// never creates one.
type RowSyncer interface {
	Append(ctx context.Context, row *sheets.Row) error
	Update(ctx context.Context, row *sheets.Row) error
}

package sheets

import (
	"context"
	"fmt"
	"time"

	gsheets "google.golang.org/api/sheets/v4"
	"google.golang.org/api/option"

	"fretenota/internal/config"
	"fretenota/internal/domain"
)

// googleValues implements ValuesAPI over the Google Sheets API with a
// bounded timeout per remote call.
type googleValues struct {
	svc           *gsheets.Service
	spreadsheetID string
	timeout       time.Duration
}

// NewGoogleClient builds a Client backed by the Google Sheets API using
// service-account credentials. Missing credentials or spreadsheet id fail
// immediately with ErrSheetsNotConfigured, before any network call.
func NewGoogleClient(ctx context.Context, cfg *config.SheetsConfig) (*Client, error) {
	if cfg.SpreadsheetID == "" || (cfg.CredentialsFile == "" && cfg.CredentialsJSON == "") {
		return nil, domain.ErrSheetsNotConfigured
	}

	opts := []option.ClientOption{option.WithScopes(gsheets.SpreadsheetsScope)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	} else {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	}

	svc, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: creating service: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	api := &googleValues{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		timeout:       timeout,
	}
	return NewClient(api, cfg.SheetName), nil
}

func (g *googleValues) Get(ctx context.Context, rangeA1 string) ([][]any, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, rangeA1).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("sheets get %q: %w", rangeA1, err)
	}
	return resp.Values, nil
}

func (g *googleValues) Append(ctx context.Context, rangeA1 string, rows [][]any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, err := g.svc.Spreadsheets.Values.
		Append(g.spreadsheetID, rangeA1, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets append %q: %w", rangeA1, err)
	}
	return nil
}

func (g *googleValues) Update(ctx context.Context, rangeA1 string, rows [][]any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	_, err := g.svc.Spreadsheets.Values.
		Update(g.spreadsheetID, rangeA1, &gsheets.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets update %q: %w", rangeA1, err)
	}
	return nil
}

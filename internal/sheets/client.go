// Package sheets wraps the Google Sheets API with the ledger operations the
// tracker needs, scoped to a single spreadsheet: one tab per linked bank.
package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/juanegido/finance-tracker/internal/syncer"
)

// Client is the concrete Ledger Gateway over one Google spreadsheet.
type Client struct {
	svc           *sheetsapi.Service
	spreadsheetID string
}

// New builds a Sheets client from a service-account credentials file.
func New(ctx context.Context, credentialsFile, spreadsheetID string) (*Client, error) {
	svc, err := sheetsapi.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheetsapi.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("New: creating sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID}, nil
}

// ListLedgers returns the titles of all sheets in the spreadsheet.
func (c *Client) ListLedgers(ctx context.Context) ([]string, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("ListLedgers: %w", err)
	}

	titles := make([]string, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties != nil {
			titles = append(titles, s.Properties.Title)
		}
	}
	return titles, nil
}

// EnsureLedger creates the named sheet with the given header row if it does
// not exist yet. Idempotent: an existing sheet is left untouched.
func (c *Client) EnsureLedger(ctx context.Context, name string, header []string) error {
	titles, err := c.ListLedgers(ctx)
	if err != nil {
		return fmt.Errorf("EnsureLedger: %w", err)
	}
	for _, t := range titles {
		if t == name {
			return nil
		}
	}

	batch := &sheetsapi.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsapi.Request{{
			AddSheet: &sheetsapi.AddSheetRequest{
				Properties: &sheetsapi.SheetProperties{Title: name},
			},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, batch).Context(ctx).Do(); err != nil {
		return fmt.Errorf("EnsureLedger: adding sheet %q: %w", name, err)
	}

	vr := &sheetsapi.ValueRange{Values: [][]interface{}{toCells(header)}}
	headerRange := fmt.Sprintf("%s!A1:%s1", name, columnLetter(len(header)))
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, headerRange, vr).
		ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("EnsureLedger: writing header for %q: %w", name, err)
	}
	return nil
}

// ReadColumn returns every cell in the given column of the named sheet,
// header included. column is a letter in A1 notation, e.g. "A".
func (c *Client) ReadColumn(ctx context.Context, name, column string) ([]string, error) {
	rng := fmt.Sprintf("%s!%s:%s", name, column, column)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("ReadColumn: %s!%s: %w", name, column, err)
	}

	cells := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		cells = append(cells, fmt.Sprint(row[0]))
	}
	return cells, nil
}

// AppendRows appends the rows to the bottom of the named sheet in one batch,
// preserving order.
func (c *Client) AppendRows(ctx context.Context, name string, rows [][]interface{}) error {
	if len(rows) == 0 {
		return nil
	}

	vr := &sheetsapi.ValueRange{Values: rows}
	rng := fmt.Sprintf("%s!%s:%s", name, "A", columnLetter(len(rows[0])))
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("AppendRows: %s: %w", name, err)
	}
	return nil
}

// toCells converts a string row into a sheet value row.
func toCells(row []string) []interface{} {
	cells := make([]interface{}, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

// columnLetter converts a 1-based column count to its A1-notation letter.
// Ledger rows never exceed 26 columns.
func columnLetter(n int) string {
	return string(rune('A' + n - 1))
}

var _ syncer.LedgerGateway = (*Client)(nil)

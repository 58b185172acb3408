package sheets

import (
	"context"
	"fmt"
	"strings"

	gsheets "google.golang.org/api/sheets/v4"
)

// Client defines the spreadsheet operations both stages rely on: fetching a
// worksheet as a rectangular table and updating a cell range.
type Client interface {
	Values(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error)
	Update(ctx context.Context, spreadsheetID, worksheet, cellRange string, values [][]string) error
}

// GoogleClient implements Client against the Google Sheets API using
// application default credentials.
type GoogleClient struct {
	svc *gsheets.Service
}

// NewGoogleClient constructs a Sheets API client.
func NewGoogleClient(ctx context.Context) (*GoogleClient, error) {
	svc, err := gsheets.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &GoogleClient{svc: svc}, nil
}

// Values fetches every cell of the named worksheet.
func (c *GoogleClient) Values(ctx context.Context, spreadsheetID, worksheet string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, quoteWorksheet(worksheet)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get worksheet %q: %w", worksheet, err)
	}
	rows := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, 0, len(raw))
		for _, cell := range raw {
			row = append(row, fmt.Sprint(cell))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Update writes values to the given A1 range of the named worksheet.
func (c *GoogleClient) Update(ctx context.Context, spreadsheetID, worksheet, cellRange string, values [][]string) error {
	converted := make([][]any, 0, len(values))
	for _, row := range values {
		cells := make([]any, 0, len(row))
		for _, cell := range row {
			cells = append(cells, cell)
		}
		converted = append(converted, cells)
	}
	body := &gsheets.ValueRange{Values: converted}
	_, err := c.svc.Spreadsheets.Values.
		Update(spreadsheetID, fmt.Sprintf("%s!%s", quoteWorksheet(worksheet), cellRange), body).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("update worksheet %q range %s: %w", worksheet, cellRange, err)
	}
	return nil
}

// quoteWorksheet renders a sheet name for an A1 range reference. Apostrophes
// inside a quoted name are doubled.
func quoteWorksheet(worksheet string) string {
	return "'" + strings.ReplaceAll(worksheet, "'", "''") + "'"
}

var _ Client = (*GoogleClient)(nil)

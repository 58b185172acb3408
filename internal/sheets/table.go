package sheets

import (
	"context"

	"dubflow/internal/services"
)

// Table is a worksheet read as a header row plus data rows.
type Table struct {
	Header []string
	Rows   [][]string
}

// LoadTable fetches a worksheet and splits it into header and data rows. The
// first retrieved row is always the header.
func LoadTable(ctx context.Context, client Client, worksheetURL, worksheet string) (*Table, error) {
	spreadsheetID, err := SpreadsheetID(worksheetURL)
	if err != nil {
		return nil, services.Wrap(services.ErrSheet, "sheets", "load", worksheet, err)
	}
	values, err := client.Values(ctx, spreadsheetID, worksheet)
	if err != nil {
		return nil, services.Wrap(services.ErrSheet, "sheets", "load", worksheet, err)
	}
	if len(values) == 0 {
		return &Table{}, nil
	}
	return &Table{Header: values[0], Rows: values[1:]}, nil
}

// Records returns one map per data row keyed by header name. Short rows are
// padded with empty strings; cells beyond the header width are dropped.
func (t *Table) Records() []map[string]string {
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make(map[string]string, len(t.Header))
		for i, key := range t.Header {
			if key == "" {
				continue
			}
			if i < len(row) {
				record[key] = row[i]
			} else {
				record[key] = ""
			}
		}
		records = append(records, record)
	}
	return records
}

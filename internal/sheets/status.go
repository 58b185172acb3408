package sheets

import (
	"context"
	"fmt"
	"time"

	"dubflow/internal/services"
)

// Status is the terminal (or provisional) state written to a row.
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusOK         Status = "OK"
	StatusFailed     Status = "FAILED"
)

// StatusColumns names the three adjacent columns used for write-back. The
// JSON keys match the wire payload's status_columns mapping.
type StatusColumns struct {
	Status    string `json:"STATUS_COLUMN"`
	UpdatedAt string `json:"UPDATED_AT_COLUMN"`
	Message   string `json:"MESSAGE_COLUMN"`
}

// DefaultStatusColumns returns the conventional P/Q/R layout.
func DefaultStatusColumns() StatusColumns {
	return StatusColumns{Status: "P", UpdatedAt: "Q", Message: "R"}
}

// RowNumber maps a 0-based data row index to its 1-based spreadsheet row,
// accounting for the header row.
func RowNumber(rowNum int) int {
	return rowNum + 2
}

const timestampLayout = "2006-01-02 15:04:05"

// StatusWriter updates the three status cells of a single row.
type StatusWriter struct {
	client Client
	now    func() time.Time
}

// NewStatusWriter constructs a writer backed by the given client.
func NewStatusWriter(client Client) *StatusWriter {
	return &StatusWriter{client: client, now: time.Now}
}

// Write records status, timestamp, and message at the given spreadsheet row.
func (w *StatusWriter) Write(ctx context.Context, worksheetURL, worksheet string, row int, columns StatusColumns, status Status, message string) error {
	spreadsheetID, err := SpreadsheetID(worksheetURL)
	if err != nil {
		return services.Wrap(services.ErrSheet, "sheets", "status", worksheet, err)
	}
	cellRange := fmt.Sprintf("%s%d:%s%d", columns.Status, row, columns.Message, row)
	values := [][]string{{string(status), w.now().Format(timestampLayout), message}}
	if err := w.client.Update(ctx, spreadsheetID, worksheet, cellRange, values); err != nil {
		return services.Wrap(services.ErrSheet, "sheets", "status", cellRange, err)
	}
	return nil
}

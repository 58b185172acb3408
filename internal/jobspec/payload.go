package jobspec

import (
	"encoding/json"
	"fmt"

	"dubflow/internal/services"
	"dubflow/internal/sheets"
)

// Payload is the self-contained job message published per row. The worker
// needs no shared mutable state beyond the spreadsheet itself.
type Payload struct {
	WorksheetURL  string               `json:"worksheet_url"`
	LineConfig    RowConfig            `json:"line_config"`
	ToolConfig    map[string]string    `json:"tool_config"`
	StatusColumns sheets.StatusColumns `json:"status_columns"`
}

// Encode serializes the payload for publishing.
func (p *Payload) Encode() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}
	return data, nil
}

// DecodePayload parses a delivered message body. A malformed payload is fatal
// for the invocation; there is no row to report against.
func DecodePayload(data []byte) (*Payload, error) {
	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, services.Wrap(services.ErrValidation, "worker", "decode", "malformed job payload", err)
	}
	if payload.WorksheetURL == "" {
		return nil, services.Wrap(services.ErrValidation, "worker", "decode", "payload missing worksheet_url", nil)
	}
	return &payload, nil
}

// DubbingSheet returns the worksheet holding the per-row job table.
func (p *Payload) DubbingSheet() string {
	return p.ToolConfig[ToolKeyDubbingConfig]
}

package sheets

import (
	"fmt"
	"strings"
)

// SpreadsheetID extracts the spreadsheet identifier from a Google Sheets URL.
// A bare identifier is accepted as-is.
func SpreadsheetID(worksheetURL string) (string, error) {
	trimmed := strings.TrimSpace(worksheetURL)
	if trimmed == "" {
		return "", fmt.Errorf("worksheet url is empty")
	}

	const marker = "/spreadsheets/d/"
	idx := strings.Index(trimmed, marker)
	if idx == -1 {
		if strings.Contains(trimmed, "/") {
			return "", fmt.Errorf("unrecognized worksheet url %q", worksheetURL)
		}
		return trimmed, nil
	}

	rest := trimmed[idx+len(marker):]
	if cut := strings.IndexAny(rest, "/?#"); cut != -1 {
		rest = rest[:cut]
	}
	if rest == "" {
		return "", fmt.Errorf("worksheet url %q has no spreadsheet id", worksheetURL)
	}
	return rest, nil
}

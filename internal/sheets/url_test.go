package sheets

import "testing"

func TestSpreadsheetIDFromURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"plain url", "https://docs.google.com/spreadsheets/d/1AbC_def-123/edit#gid=0", "1AbC_def-123"},
		{"trailing slash", "https://docs.google.com/spreadsheets/d/1AbC/", "1AbC"},
		{"query string", "https://docs.google.com/spreadsheets/d/1AbC?usp=sharing", "1AbC"},
		{"bare id", "1AbC_def-123", "1AbC_def-123"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := SpreadsheetID(tc.url)
			if err != nil {
				t.Fatalf("SpreadsheetID returned error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("SpreadsheetID = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSpreadsheetIDRejectsBadInput(t *testing.T) {
	for _, url := range []string{"", "   ", "https://example.com/other/path", "https://docs.google.com/spreadsheets/d/"} {
		if _, err := SpreadsheetID(url); err == nil {
			t.Fatalf("expected error for %q", url)
		}
	}
}

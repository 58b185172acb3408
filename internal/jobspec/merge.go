package jobspec

import (
	"strings"

	"dubflow/internal/sheets"
)

// ToolConfig flattens a two-column (variable, value) worksheet into the
// batch-wide settings map shared by all jobs.
func ToolConfig(table *sheets.Table) map[string]string {
	config := make(map[string]string)
	for _, record := range table.Records() {
		name := strings.TrimSpace(record["variable"])
		if name == "" {
			continue
		}
		config[name] = record["value"]
	}
	return config
}

// Merge resolves one sheet record against the fixed default template: for
// every template key, the record's value wins when present and non-empty,
// otherwise the default applies. Columns outside the template are ignored.
func Merge(record map[string]string) map[string]string {
	merged := make(map[string]string, len(defaultTemplate))
	for key, fallback := range defaultTemplate {
		if value, ok := record[key]; ok && value != "" {
			merged[key] = value
		} else {
			merged[key] = fallback
		}
	}
	return merged
}

// MergedRows returns one default-merged record per data row, in sheet order.
func MergedRows(table *sheets.Table) []map[string]string {
	records := table.Records()
	merged := make([]map[string]string, 0, len(records))
	for _, record := range records {
		merged = append(merged, Merge(record))
	}
	return merged
}

package jobspec

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Sheet cells carry stringified collections in Python literal form
// (`['fr-FR']`, `{'stability': 0.5}`) as well as plain JSON. normalizeLiteral
// accepts both: valid JSON passes through, otherwise single quotes are
// rewritten and Python booleans/None folded to their JSON spellings.

func normalizeLiteral(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("empty literal")
	}
	if gjson.Valid(trimmed) {
		return trimmed, nil
	}

	replaced := strings.NewReplacer(
		"'", `"`,
		"True", "true",
		"False", "false",
		"None", "null",
	).Replace(trimmed)
	if !gjson.Valid(replaced) {
		return "", fmt.Errorf("unparseable literal %q", raw)
	}
	return replaced, nil
}

// ParseStringList parses a stringified list cell into its elements. Empty
// cells and empty lists both yield nil.
func ParseStringList(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	normalized, err := normalizeLiteral(raw)
	if err != nil {
		return nil, err
	}
	parsed := gjson.Parse(normalized)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("expected a list, got %q", raw)
	}
	var out []string
	for _, item := range parsed.Array() {
		out = append(out, item.String())
	}
	return out, nil
}

// ParseJSONValue normalizes a stringified object or list cell and returns the
// JSON text. Empty cells yield the provided fallback.
func ParseJSONValue(raw, fallback string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	return normalizeLiteral(raw)
}

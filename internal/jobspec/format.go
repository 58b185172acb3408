package jobspec

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"dubflow/internal/services"
)

// FormatName renders the row's output_naming_convention template against the
// row config, with `{field}` placeholders resolved by sheet column name. The
// target_language placeholder yields the language currently being dubbed.
func (c *RowConfig) FormatName(language string) (string, error) {
	template := c.OutputNamingConvention
	if strings.TrimSpace(template) == "" {
		return "", services.Wrap(services.ErrValidation, "jobspec", "format", "output_naming_convention is empty", nil)
	}

	encoded, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode row config: %w", err)
	}
	fields := gjson.ParseBytes(encoded)

	var out strings.Builder
	rest := template
	for {
		open := strings.Index(rest, "{")
		if open == -1 {
			out.WriteString(rest)
			break
		}
		out.WriteString(rest[:open])
		closing := strings.Index(rest[open:], "}")
		if closing == -1 {
			return "", services.Wrap(services.ErrValidation, "jobspec", "format", fmt.Sprintf("unclosed placeholder in %q", template), nil)
		}
		key := rest[open+1 : open+closing]
		rest = rest[open+closing+1:]

		if key == "target_language" {
			out.WriteString(language)
			continue
		}
		value := fields.Get(key)
		if !value.Exists() {
			return "", services.Wrap(services.ErrValidation, "jobspec", "format", fmt.Sprintf("unknown placeholder %q", key), nil)
		}
		out.WriteString(value.String())
	}
	return out.String(), nil
}

// ObjectName builds the destination object name: the formatted naming
// convention plus the produced file's original extension.
func (c *RowConfig) ObjectName(language, producedFile string) (string, error) {
	base, err := c.FormatName(language)
	if err != nil {
		return "", err
	}
	ext := producedFile
	if idx := strings.LastIndex(producedFile, "."); idx != -1 {
		ext = producedFile[idx+1:]
	}
	return base + "." + ext, nil
}

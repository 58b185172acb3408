package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
	ErrSheet         = errors.New("sheet error")
	ErrPublish       = errors.New("publish error")
	ErrStorage       = errors.New("storage error")
	ErrEngine        = errors.New("engine error")
)

// ShareHint is written to the status message column when a failure produces no
// usable error text. The most common cause in practice is a spreadsheet that
// was never shared with the service account, which surfaces as an empty error.
const ShareHint = "Check you shared the spreadsheet with the service account"

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrValidation
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// FailureMessage reduces a job or row error to the free text written to the
// status message column, substituting ShareHint when the error text is empty
// or uninformative.
func FailureMessage(err error) string {
	if err == nil {
		return ShareHint
	}
	text := strings.TrimSpace(err.Error())
	if len(text) <= 1 {
		return ShareHint
	}
	return text
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}

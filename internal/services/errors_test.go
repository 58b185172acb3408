package services_test

import (
	"errors"
	"strings"
	"testing"

	"dubflow/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	err := services.Wrap(services.ErrPublish, "splitter", "publish", "row 3", errors.New("deadline exceeded"))
	if !errors.Is(err, services.ErrPublish) {
		t.Fatalf("expected ErrPublish marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "splitter: publish: row 3") {
		t.Fatalf("unexpected detail: %v", err)
	}
	if !strings.Contains(err.Error(), "deadline exceeded") {
		t.Fatalf("expected wrapped cause: %v", err)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := services.Wrap(services.ErrConfiguration, "worker", "", "missing OUTPUT_DIRECTORY", nil)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration marker, got %v", err)
	}
}

func TestWrapNilMarkerDefaultsToValidation(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation fallback, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected fallback detail, got %v", err)
	}
}

func TestFailureMessageSubstitutesHint(t *testing.T) {
	cases := map[string]error{
		"nil error":   nil,
		"empty text":  errors.New(""),
		"single rune": errors.New("x"),
	}
	for name, err := range cases {
		if got := services.FailureMessage(err); got != services.ShareHint {
			t.Fatalf("%s: expected share hint, got %q", name, got)
		}
	}
}

func TestFailureMessagePassesThroughText(t *testing.T) {
	err := errors.New("storage error: download: object not found")
	if got := services.FailureMessage(err); got != err.Error() {
		t.Fatalf("expected raw error text, got %q", got)
	}
}

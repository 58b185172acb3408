package services_test

import (
	"context"
	"testing"

	"dubflow/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRowNum(ctx, 4)
	ctx = services.WithLanguage(ctx, "fr-FR")
	ctx = services.WithRequestID(ctx, "req-123")

	if row, ok := services.RowNumFromContext(ctx); !ok || row != 4 {
		t.Fatalf("unexpected row num: %v %v", row, ok)
	}
	if lang, ok := services.LanguageFromContext(ctx); !ok || lang != "fr-FR" {
		t.Fatalf("unexpected language: %v %v", lang, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankLanguagePreservesContext(t *testing.T) {
	ctx := services.WithLanguage(context.Background(), "")
	if _, ok := services.LanguageFromContext(ctx); ok {
		t.Fatal("expected no language value")
	}
}

package services

import "context"

type contextKey string

const (
	rowNumKey    contextKey = "row_num"
	languageKey  contextKey = "language"
	requestIDKey contextKey = "request_id"
)

// WithRowNum annotates context with the 0-based data row index being handled.
func WithRowNum(ctx context.Context, rowNum int) context.Context {
	return context.WithValue(ctx, rowNumKey, rowNum)
}

// RowNumFromContext extracts the data row index if present.
func RowNumFromContext(ctx context.Context) (int, bool) {
	if v, ok := ctx.Value(rowNumKey).(int); ok {
		return v, true
	}
	return 0, false
}

// WithLanguage annotates context with the target language currently dubbed.
func WithLanguage(ctx context.Context, language string) context.Context {
	if language == "" {
		return ctx
	}
	return context.WithValue(ctx, languageKey, language)
}

// LanguageFromContext returns the target language if present.
func LanguageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(languageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

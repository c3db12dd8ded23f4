package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID is the standardized structured logging key for linking-pass run identifiers.
	FieldRunID = "run_id"
	// FieldEntity is the standardized structured logging key for CRM entity names.
	FieldEntity = "entity"
)

type runIDKey struct{}

// ContextWithRunID stamps a linking-pass run identifier onto the context.
func ContextWithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, runIDKey{}, runID)
}

// RunIDFromContext extracts a previously stamped run identifier.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	runID, ok := ctx.Value(runIDKey{}).(string)
	return runID, ok && runID != ""
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if runID, ok := RunIDFromContext(ctx); ok {
		return logger.With(slog.String(FieldRunID, runID))
	}
	return logger
}

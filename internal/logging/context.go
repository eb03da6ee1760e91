package logging

import (
	"context"
	"log/slog"

	"trovekeep/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldLocator is the standardized structured logging key for source locators.
	FieldLocator = "locator"
	// FieldDigest is the standardized structured logging key for cache entry digests.
	FieldDigest = "digest"
	// FieldPath is the standardized structured logging key for filesystem paths.
	FieldPath = "path"
	// FieldMachineName is the standardized structured logging key for catalog item identifiers.
	FieldMachineName = "machine_name"
	// FieldCorrelationID is the standardized structured logging key for request correlation identifiers.
	FieldCorrelationID = "correlation_id"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 1)
	if rid, ok := services.RequestIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCorrelationID, rid))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from
// the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(attrsToArgs(fields)...)
}

package logging

import (
	"context"
	"log/slog"

	"clinicwatch/internal/services"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRun is the standardized key for the poll loop run counter.
	FieldRun = "run"
	// FieldCheckID is the standardized key for the per-iteration correlation identifier.
	FieldCheckID = "check_id"
	// FieldState is the standardized key for the poll loop state name.
	FieldState = "state"
	// FieldEventType names the kind of event a record describes.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to an operator reading a warning.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldAlert flags warnings or anomalies that should stand out in structured logs.
	FieldAlert = "alert"
)

// contextFields reads the run counter, check ID and loop state from ctx.
func contextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if run, ok := services.RunFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldRun, run))
	}
	if id, ok := services.CheckIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldCheckID, id))
	}
	if state, ok := services.StateFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldState, state))
	}
	return fields
}

// WithContext adds the check fields carried by ctx to logger. The console
// handler renders them as the bracketed line prefix.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := contextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}

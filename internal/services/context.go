package services

import "context"

type contextKey string

const (
	runKey     contextKey = "run"
	checkIDKey contextKey = "check_id"
	stateKey   contextKey = "state"
)

// WithRun annotates context with the poll loop run counter.
func WithRun(ctx context.Context, run int) context.Context {
	return context.WithValue(ctx, runKey, run)
}

// RunFromContext extracts the run counter if present.
func RunFromContext(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(runKey).(int)
	return v, ok
}

// WithCheckID annotates context with the correlation identifier of one iteration.
func WithCheckID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, checkIDKey, id)
}

// CheckIDFromContext extracts the check identifier if present.
func CheckIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(checkIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithState annotates context with the current poll loop state name.
func WithState(ctx context.Context, state string) context.Context {
	if state == "" {
		return ctx
	}
	return context.WithValue(ctx, stateKey, state)
}

// StateFromContext returns the loop state name if present.
func StateFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(stateKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}

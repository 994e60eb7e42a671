package services

import "context"

type contextKey string

const (
	runIDKey   contextKey = "run_id"
	triggerKey contextKey = "trigger"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(runIDKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

// WithTrigger annotates context with the name of whatever initiated the run
// (manual, daily, weekly, monthly).
func WithTrigger(ctx context.Context, trigger string) context.Context {
	if trigger == "" {
		return ctx
	}
	return context.WithValue(ctx, triggerKey, trigger)
}

// TriggerFromContext returns the trigger name if present.
func TriggerFromContext(ctx context.Context) (string, bool) {
	if str, ok := ctx.Value(triggerKey).(string); ok && str != "" {
		return str, true
	}
	return "", false
}

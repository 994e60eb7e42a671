// Package logging assembles the structured slog loggers used across
// filekeeper.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers plus a no-op logger for tests and
// wiring code that cannot fail. Components receive loggers tagged through
// NewComponentLogger so every line carries its subsystem name.
package logging

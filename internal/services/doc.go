// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that tag failures for
//     classification at reporting boundaries.
//   - Context helpers that stamp run identifiers and trigger names so logs and
//     persisted reports can be correlated across subsystems.
//
// Use these helpers when wiring new pipeline logic so error handling and
// observability stay uniform across the system.
package services

// Package config loads, normalizes, and validates filekeeper configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENROUTER_API_KEY. The Config type centralizes every knob the daemon and
// CLI need: scan roots and exclusions, organization and archival policy,
// duplicate handling, automation cadence, advisor and notification endpoints.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config

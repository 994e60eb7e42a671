// Package pipeline orchestrates a full filekeeper run: scanning the
// configured roots, grouping duplicates, planning organization, archival,
// and duplicate handling, and optionally executing the combined plan.
//
// Each run is tagged with a generated run ID and its trigger, persisted to
// the report store when one is attached, and announced through the
// notification service. Roots fail independently: an unreadable root is
// recorded as a warning and the remaining roots still complete. Advisor and
// notification failures degrade to log warnings and never fail a run.
package pipeline

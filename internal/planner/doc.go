// Package planner turns scanned records into move and delete plans.
//
// A plan is a batch of proposed, not-yet-executed actions: organization
// moves records into category folders (flat or dated layout), archival
// moves stale records under Archive/<year-month>, duplicate review moves
// removal candidates into a quarantine directory, and duplicate removal
// emits delete entries for groups meeting the size threshold. Nothing here
// touches the filesystem beyond existence checks; execution belongs to the
// mover.
//
// All builders share one collision rule: a destination is taken when it
// already exists on disk or was claimed earlier in the same plan, and taken
// names gain a numeric suffix before the extension (name_1.ext, name_2.ext,
// ...) until free. Given the same input ordering the output is identical.
package planner

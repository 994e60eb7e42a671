// Package dedup groups scanned records by content hash and derives
// removal candidates from each group.
//
// Grouping is a pure function over catalog records: records with an empty
// hash (fingerprinting failed) are excluded, and only hashes shared by two
// or more records form a group. Within a group members are ordered newest
// modification time first, with lexical path order breaking ties, so the
// keeper choice is deterministic for identical inputs. Removal candidates
// are every member except the keeper; deciding whether anything is actually
// deleted belongs to the caller.
//
// A minimum-size threshold narrows which groups are eligible for automatic
// removal. Groups below the threshold still appear in summaries but are
// never handed to an execution plan.
package dedup

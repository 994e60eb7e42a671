// Package catalog defines the document record model shared across the
// pipeline: scanned file metadata, extension-derived categories, scan
// warnings, and the structured summaries handed to the advisor and the
// report store.
//
// Records are snapshots taken at scan time. Nothing in this package touches
// the filesystem; builders here are pure functions over record slices so the
// same data can feed duplicate grouping, planning, and reporting without
// re-reading disk state.
package catalog

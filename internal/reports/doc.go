// Package reports persists run reports in SQLite.
//
// Every pipeline run begins a report row (status running) and finishes it as
// completed or failed, carrying scan and duplicate summaries as JSON columns
// next to plain action counts. The store keeps history for the reports CLI,
// the status view, and the daemon's post-run notifications; Prune trims old
// rows and ExportJSON writes a stored report to disk for external tooling.
package reports

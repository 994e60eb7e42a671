// Package preflight provides readiness checks for the filesystem paths
// and services Filekeeper depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup and refuses to enter the run
//     loop while any check fails, so automation never fires against a
//     broken environment.
//   - The CLI "filekeeper status" command uses individual check functions
//     (CheckDirectoryAccess, CheckReportStore) to display health.
//
// The advisor check is gated by its config toggle -- when the advisor is
// disabled the check is skipped.
package preflight

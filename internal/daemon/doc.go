// Package daemon wires the automation manager into a long-running process.
//
// The daemon enforces single-instance execution with a flock-based lock
// under the data directory, runs preflight checks before entering the run
// loop, and owns the report store handle for the lifetime of the process.
package daemon

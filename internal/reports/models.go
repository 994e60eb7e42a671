package reports

import (
	"time"

	"filekeeper/internal/catalog"
	"filekeeper/internal/dedup"
	"filekeeper/internal/mover"
)

// Status tracks a run report's lifecycle.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Run triggers. Automation stamps its cadence; direct CLI invocations are
// manual.
const (
	TriggerManual  = "manual"
	TriggerDaily   = "daily"
	TriggerWeekly  = "weekly"
	TriggerMonthly = "monthly"
)

// RunReport captures one pipeline run from start to finish.
type RunReport struct {
	ID                string                 `json:"id"`
	Trigger           string                 `json:"trigger"`
	Status            Status                 `json:"status"`
	StartedAt         time.Time              `json:"started_at"`
	FinishedAt        *time.Time             `json:"finished_at,omitempty"`
	Roots             []string               `json:"roots,omitempty"`
	Scan              *catalog.MergedSummary `json:"scan,omitempty"`
	Duplicates        *dedup.Summary         `json:"duplicates,omitempty"`
	FilesScanned      int                    `json:"files_scanned"`
	FilesOrganized    int                    `json:"files_organized"`
	FilesArchived     int                    `json:"files_archived"`
	DuplicatesHandled int                    `json:"duplicates_handled"`
	FailedCount       int                    `json:"failed_count"`
	Failures          []mover.Failure        `json:"failures,omitempty"`
	BytesMoved        int64                  `json:"bytes_moved"`
	BytesFreed        int64                  `json:"bytes_freed"`
	WarningCount      int                    `json:"warning_count"`
	Recommendations   string                 `json:"recommendations,omitempty"`
	ErrorMessage      string                 `json:"error_message,omitempty"`
}

// Duration returns elapsed run time, zero while the run is still open.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Health summarizes stored runs for status output.
type Health struct {
	TotalRuns     int       `json:"total_runs"`
	Completed     int       `json:"completed"`
	Failed        int       `json:"failed"`
	Running       int       `json:"running"`
	LastRunID     string    `json:"last_run_id,omitempty"`
	LastRunStatus Status    `json:"last_run_status,omitempty"`
	LastRunAt     time.Time `json:"last_run_at"`
}

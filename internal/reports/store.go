package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"filekeeper/internal/config"
)

// Store manages run-report persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

func ensureContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func (s *Store) execWithRetry(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = s.db.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// Open initializes or connects to the report database under the data
// directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.DatabasePath()
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

const reportColumns = "id, trigger_name, status, started_at, finished_at, roots_json, scan_json, duplicates_json, files_scanned, files_organized, files_archived, duplicates_handled, failed_count, failures_json, bytes_moved, bytes_freed, warning_count, recommendations, error_message"

// Begin inserts a new running report. A missing ID gains a fresh UUID, a
// missing trigger defaults to manual, and a zero start time becomes now.
func (s *Store) Begin(ctx context.Context, report *RunReport) error {
	if report == nil {
		return errors.New("report is nil")
	}
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	if report.Trigger == "" {
		report.Trigger = TriggerManual
	}
	if report.StartedAt.IsZero() {
		report.StartedAt = time.Now().UTC()
	}
	report.Status = StatusRunning

	rootsJSON, scanJSON, duplicatesJSON, failuresJSON, err := marshalColumns(report)
	if err != nil {
		return err
	}

	_, err = s.execWithRetry(
		ctx,
		`INSERT INTO run_reports (`+reportColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.ID,
		report.Trigger,
		string(report.Status),
		report.StartedAt.UTC().Format(time.RFC3339Nano),
		nullableTime(report.FinishedAt),
		rootsJSON,
		scanJSON,
		duplicatesJSON,
		report.FilesScanned,
		report.FilesOrganized,
		report.FilesArchived,
		report.DuplicatesHandled,
		report.FailedCount,
		failuresJSON,
		report.BytesMoved,
		report.BytesFreed,
		report.WarningCount,
		nullableString(report.Recommendations),
		nullableString(report.ErrorMessage),
	)
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

// Finish closes a running report. Status resolves to failed when an error
// message is present, completed otherwise, unless the caller already set a
// terminal status. A nil finish time becomes now.
func (s *Store) Finish(ctx context.Context, report *RunReport) error {
	if report == nil {
		return errors.New("report is nil")
	}
	if report.ID == "" {
		return errors.New("report has no id")
	}
	if report.Status == "" || report.Status == StatusRunning {
		if report.ErrorMessage != "" {
			report.Status = StatusFailed
		} else {
			report.Status = StatusCompleted
		}
	}
	if report.FinishedAt == nil {
		now := time.Now().UTC()
		report.FinishedAt = &now
	}

	rootsJSON, scanJSON, duplicatesJSON, failuresJSON, err := marshalColumns(report)
	if err != nil {
		return err
	}

	res, err := s.execWithRetry(
		ctx,
		`UPDATE run_reports SET
            status = ?, finished_at = ?, roots_json = ?, scan_json = ?,
            duplicates_json = ?, files_scanned = ?, files_organized = ?,
            files_archived = ?, duplicates_handled = ?, failed_count = ?,
            failures_json = ?, bytes_moved = ?, bytes_freed = ?,
            warning_count = ?, recommendations = ?, error_message = ?
        WHERE id = ?`,
		string(report.Status),
		nullableTime(report.FinishedAt),
		rootsJSON,
		scanJSON,
		duplicatesJSON,
		report.FilesScanned,
		report.FilesOrganized,
		report.FilesArchived,
		report.DuplicatesHandled,
		report.FailedCount,
		failuresJSON,
		report.BytesMoved,
		report.BytesFreed,
		report.WarningCount,
		nullableString(report.Recommendations),
		nullableString(report.ErrorMessage),
		report.ID,
	)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("report %s not found", report.ID)
	}
	return nil
}

// Get fetches a report by identifier, returning nil when absent.
func (s *Store) Get(ctx context.Context, id string) (*RunReport, error) {
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT `+reportColumns+` FROM run_reports WHERE id = ?`, id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

// List returns reports newest first, bounded by limit (default 50).
func (s *Store) List(ctx context.Context, limit int) ([]*RunReport, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ensureContext(ctx),
		`SELECT `+reportColumns+` FROM run_reports ORDER BY started_at DESC, id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var reports []*RunReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}
	return reports, nil
}

// LatestCompleted returns the newest completed report, nil when none exists.
func (s *Store) LatestCompleted(ctx context.Context) (*RunReport, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+reportColumns+` FROM run_reports WHERE status = ? ORDER BY started_at DESC, id DESC LIMIT 1`,
		string(StatusCompleted),
	)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest completed report: %w", err)
	}
	return report, nil
}

// Prune deletes all but the newest keepLast reports, returning the number
// removed.
func (s *Store) Prune(ctx context.Context, keepLast int) (int, error) {
	if keepLast < 0 {
		keepLast = 0
	}
	res, err := s.execWithRetry(
		ctx,
		`DELETE FROM run_reports WHERE id NOT IN (
            SELECT id FROM run_reports ORDER BY started_at DESC, id DESC LIMIT ?
        )`,
		keepLast,
	)
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

// Health aggregates stored runs for status output.
func (s *Store) Health(ctx context.Context) (Health, error) {
	ctx = ensureContext(ctx)
	var health Health

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM run_reports GROUP BY status`)
	if err != nil {
		return health, fmt.Errorf("count reports: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return health, fmt.Errorf("scan count: %w", err)
		}
		health.TotalRuns += count
		switch Status(status) {
		case StatusCompleted:
			health.Completed = count
		case StatusFailed:
			health.Failed = count
		case StatusRunning:
			health.Running = count
		}
	}
	if err := rows.Err(); err != nil {
		return health, fmt.Errorf("iterate counts: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `SELECT id, status, started_at FROM run_reports ORDER BY started_at DESC, id DESC LIMIT 1`)
	var (
		id        string
		status    string
		startedAt string
	)
	err = row.Scan(&id, &status, &startedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return health, nil
	}
	if err != nil {
		return health, fmt.Errorf("latest run: %w", err)
	}
	health.LastRunID = id
	health.LastRunStatus = Status(status)
	if at, err := parseTimeString(startedAt); err == nil {
		health.LastRunAt = at
	}
	return health, nil
}

// ExportJSON writes a report to dir as <trigger>_report_<timestamp>.json and
// returns the file path.
func ExportJSON(report *RunReport, dir string) (string, error) {
	if report == nil {
		return "", errors.New("report is nil")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	name := fmt.Sprintf("%s_report_%s.json", report.Trigger, report.StartedAt.UTC().Format("20060102_150405"))
	path := filepath.Join(dir, name)

	payload, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}

func marshalColumns(report *RunReport) (roots, scan, duplicates, failures any, err error) {
	roots, err = marshalNullable(report.Roots, len(report.Roots) == 0)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal roots: %w", err)
	}
	scan, err = marshalNullable(report.Scan, report.Scan == nil)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal scan summary: %w", err)
	}
	duplicates, err = marshalNullable(report.Duplicates, report.Duplicates == nil)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal duplicate summary: %w", err)
	}
	failures, err = marshalNullable(report.Failures, len(report.Failures) == 0)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal failures: %w", err)
	}
	return roots, scan, duplicates, failures, nil
}

func marshalNullable(value any, empty bool) (any, error) {
	if empty {
		return nil, nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

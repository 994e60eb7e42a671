package reports

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"filekeeper/internal/catalog"
	"filekeeper/internal/dedup"
)

func scanReport(scanner interface{ Scan(dest ...any) error }) (*RunReport, error) {
	var (
		id                string
		trigger           string
		statusStr         string
		startedRaw        string
		finishedRaw       sql.NullString
		rootsJSON         sql.NullString
		scanJSON          sql.NullString
		duplicatesJSON    sql.NullString
		filesScanned      int
		filesOrganized    int
		filesArchived     int
		duplicatesHandled int
		failedCount       int
		failuresJSON      sql.NullString
		bytesMoved        int64
		bytesFreed        int64
		warningCount      int
		recommendations   sql.NullString
		errorMessage      sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&trigger,
		&statusStr,
		&startedRaw,
		&finishedRaw,
		&rootsJSON,
		&scanJSON,
		&duplicatesJSON,
		&filesScanned,
		&filesOrganized,
		&filesArchived,
		&duplicatesHandled,
		&failedCount,
		&failuresJSON,
		&bytesMoved,
		&bytesFreed,
		&warningCount,
		&recommendations,
		&errorMessage,
	); err != nil {
		return nil, err
	}

	report := &RunReport{
		ID:                id,
		Trigger:           trigger,
		Status:            Status(statusStr),
		FilesScanned:      filesScanned,
		FilesOrganized:    filesOrganized,
		FilesArchived:     filesArchived,
		DuplicatesHandled: duplicatesHandled,
		FailedCount:       failedCount,
		BytesMoved:        bytesMoved,
		BytesFreed:        bytesFreed,
		WarningCount:      warningCount,
		Recommendations:   recommendations.String,
		ErrorMessage:      errorMessage.String,
	}

	if started, err := parseTimeString(startedRaw); err == nil {
		report.StartedAt = started
	}
	if finishedRaw.Valid {
		if finished, err := parseTimeString(finishedRaw.String); err == nil {
			report.FinishedAt = &finished
		}
	}

	if rootsJSON.Valid && rootsJSON.String != "" {
		if err := json.Unmarshal([]byte(rootsJSON.String), &report.Roots); err != nil {
			return nil, fmt.Errorf("decode roots: %w", err)
		}
	}
	if scanJSON.Valid && scanJSON.String != "" {
		report.Scan = &catalog.MergedSummary{}
		if err := json.Unmarshal([]byte(scanJSON.String), report.Scan); err != nil {
			return nil, fmt.Errorf("decode scan summary: %w", err)
		}
	}
	if duplicatesJSON.Valid && duplicatesJSON.String != "" {
		report.Duplicates = &dedup.Summary{}
		if err := json.Unmarshal([]byte(duplicatesJSON.String), report.Duplicates); err != nil {
			return nil, fmt.Errorf("decode duplicate summary: %w", err)
		}
	}
	if failuresJSON.Valid && failuresJSON.String != "" {
		if err := json.Unmarshal([]byte(failuresJSON.String), &report.Failures); err != nil {
			return nil, fmt.Errorf("decode failures: %w", err)
		}
	}

	return report, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

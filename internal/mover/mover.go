package mover

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"log/slog"

	"filekeeper/internal/fileutil"
	"filekeeper/internal/logging"
	"filekeeper/internal/planner"
	"filekeeper/internal/services"
)

// Failure records one entry that could not be executed.
type Failure struct {
	Path  string            `json:"path"`
	Kind  planner.EntryKind `json:"kind"`
	Cause string            `json:"cause"`
}

// Result aggregates one plan execution. BytesMoved counts relocated data,
// BytesFreed counts deleted data re-measured just before removal.
type Result struct {
	Succeeded  int       `json:"succeeded"`
	Failures   []Failure `json:"failures,omitempty"`
	BytesMoved int64     `json:"bytes_moved"`
	BytesFreed int64     `json:"bytes_freed"`
}

// FailedCount returns the number of entries that did not execute.
func (r Result) FailedCount() int { return len(r.Failures) }

// TotalBytes returns relocated plus freed bytes.
func (r Result) TotalBytes() int64 { return r.BytesMoved + r.BytesFreed }

// Mover applies plans entry by entry.
type Mover struct {
	logger *slog.Logger
}

// New constructs a Mover.
func New(logger *slog.Logger) *Mover {
	return &Mover{logger: logging.NewComponentLogger(logger, "mover")}
}

// Execute applies every entry in the plan, isolating per-entry failures.
// Cancellation stops between entries and returns the partial result with the
// context error; entries already executed stay executed.
func (m *Mover) Execute(ctx context.Context, plan planner.Plan) (Result, error) {
	logger := logging.WithContext(ctx, m.logger)
	var result Result

	for _, entry := range plan.Entries {
		if err := ctx.Err(); err != nil {
			logger.Warn(
				"plan execution interrupted",
				logging.Int("executed", result.Succeeded),
				logging.Int("remaining", len(plan.Entries)-result.Succeeded-len(result.Failures)),
			)
			return result, err
		}

		var err error
		switch entry.Kind {
		case planner.EntryMove:
			err = m.moveEntry(logger, entry, &result)
		case planner.EntryDelete:
			err = m.deleteEntry(logger, entry, &result)
		default:
			err = fmt.Errorf("unknown plan entry kind %q", entry.Kind)
		}
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				Path:  entry.Source,
				Kind:  entry.Kind,
				Cause: err.Error(),
			})
			logger.Warn(
				"plan entry failed",
				logging.String("path", entry.Source),
				logging.String("kind", string(entry.Kind)),
				logging.String("code", services.Classify(err)),
				logging.Error(err),
			)
			continue
		}
		result.Succeeded++
	}

	logger.Info(
		"plan executed",
		logging.Int("succeeded", result.Succeeded),
		logging.Int("failed", len(result.Failures)),
		logging.Int64("bytes_moved", result.BytesMoved),
		logging.Int64("bytes_freed", result.BytesFreed),
	)
	return result, nil
}

func (m *Mover) moveEntry(logger *slog.Logger, entry planner.Entry, result *Result) error {
	info, err := os.Lstat(entry.Source)
	if err != nil {
		return services.Wrap(services.ErrMoveFailed, "move", "stat source", entry.Source, err)
	}
	if _, err := os.Lstat(entry.Destination); err == nil {
		return services.Wrap(services.ErrMoveFailed, "move", "check destination", "destination already occupied", os.ErrExist)
	}
	if err := os.MkdirAll(filepath.Dir(entry.Destination), 0o755); err != nil {
		return services.Wrap(services.ErrMoveFailed, "move", "create destination directory", entry.Destination, err)
	}
	if err := m.moveFile(logger, entry.Source, entry.Destination); err != nil {
		return err
	}
	result.BytesMoved += info.Size()
	return nil
}

// moveFile renames source to target, falling back to a verified copy plus
// source removal for cross-device moves.
func (m *Mover) moveFile(logger *slog.Logger, source, target string) error {
	renameErr := os.Rename(source, target)
	if renameErr == nil {
		return nil
	}

	var linkErr *os.LinkError
	if errors.As(renameErr, &linkErr) && errors.Is(linkErr.Err, syscall.EXDEV) {
		if copyErr := fileutil.CopyFileVerified(source, target); copyErr != nil {
			return services.Wrap(services.ErrMoveFailed, "move", "copy across devices", source, copyErr)
		}
		if err := os.Remove(source); err != nil {
			logger.Warn(
				"source removal after cross-device copy failed; both copies remain",
				logging.String("path", source),
				logging.Error(err),
			)
		}
		return nil
	}

	return services.Wrap(services.ErrMoveFailed, "move", "rename", source, renameErr)
}

func (m *Mover) deleteEntry(logger *slog.Logger, entry planner.Entry, result *Result) error {
	info, err := os.Lstat(entry.Source)
	if err != nil {
		return services.Wrap(services.ErrDeleteFailed, "delete", "stat source", entry.Source, err)
	}
	size := info.Size()
	if err := os.Remove(entry.Source); err != nil {
		return services.Wrap(services.ErrDeleteFailed, "delete", "remove", entry.Source, err)
	}
	logger.Debug("removed duplicate", logging.String("path", entry.Source), logging.Int64("size", size))
	result.BytesFreed += size
	return nil
}

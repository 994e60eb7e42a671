package scanner

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"filekeeper/internal/catalog"
	"filekeeper/internal/config"
	"filekeeper/internal/fingerprint"
	"filekeeper/internal/logging"
	"filekeeper/internal/services"
)

// Scanner walks root directories and builds catalog records.
type Scanner struct {
	excluded    []string
	hashWorkers int
	fp          *fingerprint.Fingerprinter
	logger      *slog.Logger
}

// New constructs a Scanner from configuration.
func New(cfg *config.Config, logger *slog.Logger) *Scanner {
	excluded := make([]string, 0, len(cfg.Scan.ExcludedDirs))
	for _, pattern := range cfg.Scan.ExcludedDirs {
		if trimmed := strings.ToLower(strings.TrimSpace(pattern)); trimmed != "" {
			excluded = append(excluded, trimmed)
		}
	}
	workers := cfg.Scan.HashWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Scanner{
		excluded:    excluded,
		hashWorkers: workers,
		fp:          fingerprint.New(cfg.Scan.PreviewExtensions, cfg.Scan.PreviewMaxChars),
		logger:      logging.NewComponentLogger(logger, "scanner"),
	}
}

// candidate is one regular file accepted during the walk, carrying the
// stat data captured at walk time so records are true snapshots.
type candidate struct {
	path string
	info os.FileInfo
}

// Scan walks root and returns records for at most maxFiles regular files,
// plus the warnings accumulated along the way. A missing or unreadable root
// fails with ErrDirectoryNotFound; per-file and per-directory problems only
// degrade the affected entries. Cancellation returns the records completed
// so far together with ctx.Err().
func (s *Scanner) Scan(ctx context.Context, root string, maxFiles int) ([]catalog.Record, []catalog.Warning, error) {
	started := time.Now()

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrDirectoryNotFound, "scan", "resolve", root, err)
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, nil, services.Wrap(services.ErrDirectoryNotFound, "scan", "stat", absRoot, err)
	}
	if !info.IsDir() {
		return nil, nil, services.Wrap(services.ErrDirectoryNotFound, "scan", "stat", absRoot, nil)
	}

	walker := &walker{
		scanner:  s,
		maxFiles: maxFiles,
		visited:  make(map[dirIdentity]struct{}),
	}
	walker.walk(ctx, absRoot, info)

	records, hashWarnings := s.fingerprintAll(ctx, walker.files)
	warnings := append(walker.warnings, hashWarnings...)

	if err := ctx.Err(); err != nil {
		return records, warnings, err
	}

	s.logger.Info("scan complete",
		logging.String("root", absRoot),
		logging.Int("files", len(records)),
		logging.Int("warnings", len(warnings)),
		logging.Bool("truncated", walker.truncated),
		logging.Duration("elapsed", time.Since(started)))
	return records, warnings, nil
}

// fingerprintAll hashes candidates on a bounded pool. Each worker owns its
// result slot, so no locking is needed beyond the warning list.
func (s *Scanner) fingerprintAll(ctx context.Context, files []candidate) ([]catalog.Record, []catalog.Warning) {
	if len(files) == 0 {
		return nil, nil
	}

	results := make([]catalog.Record, len(files))
	completed := make([]bool, len(files))

	var warnMu sync.Mutex
	var warnings []catalog.Warning

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.hashWorkers)

	for i := range files {
		if groupCtx.Err() != nil {
			break
		}
		index := i
		group.Go(func() error {
			if groupCtx.Err() != nil {
				return nil
			}
			file := files[index]
			record := catalog.Record{
				Path:         file.path,
				Name:         file.info.Name(),
				Size:         file.info.Size(),
				ModifiedTime: file.info.ModTime(),
				Extension:    strings.ToLower(filepath.Ext(file.info.Name())),
			}

			result, err := s.fp.Fingerprint(file.path)
			if err != nil {
				record.Category = catalog.CategoryUnknown
				warnMu.Lock()
				warnings = append(warnings, catalog.Warning{
					Kind:   catalog.WarnUnreadableFile,
					Path:   file.path,
					Detail: err.Error(),
				})
				warnMu.Unlock()
				s.logger.Debug("fingerprint degraded", logging.String("path", file.path), logging.Error(err))
			} else {
				record.ContentHash = result.Hash
				record.Category = result.Category
				record.Preview = result.Preview
			}

			results[index] = record
			completed[index] = true
			return nil
		})
	}
	_ = group.Wait()

	records := make([]catalog.Record, 0, len(results))
	for i, record := range results {
		if completed[i] {
			records = append(records, record)
		}
	}
	return records, warnings
}

package scanner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"filekeeper/internal/catalog"
	"filekeeper/internal/logging"
)

// dirIdentity keys a directory by device and inode so symlink cycles are
// detected no matter which path reached them.
type dirIdentity struct {
	dev uint64
	ino uint64
}

func identityOf(info os.FileInfo) (dirIdentity, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return dirIdentity{}, false
	}
	return dirIdentity{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}

// walker holds the mutable state of one traversal.
type walker struct {
	scanner   *Scanner
	maxFiles  int
	visited   map[dirIdentity]struct{}
	files     []candidate
	warnings  []catalog.Warning
	truncated bool
}

// walk descends dir depth-first. It returns false when traversal should stop
// entirely (cap reached or context canceled).
func (w *walker) walk(ctx context.Context, dir string, dirInfo os.FileInfo) bool {
	if ctx.Err() != nil {
		return false
	}

	if id, ok := identityOf(dirInfo); ok {
		if _, seen := w.visited[id]; seen {
			return true
		}
		w.visited[id] = struct{}{}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.warnings = append(w.warnings, catalog.Warning{
			Kind:   catalog.WarnSkippedDir,
			Path:   dir,
			Detail: err.Error(),
		})
		return true
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return false
		}

		path := filepath.Join(dir, entry.Name())

		if entry.IsDir() {
			if w.scanner.isExcluded(entry.Name()) {
				w.scanner.logger.Debug("pruned directory", logging.String("path", path))
				continue
			}
			info, err := entry.Info()
			if err != nil {
				w.warnings = append(w.warnings, catalog.Warning{Kind: catalog.WarnSkippedDir, Path: path, Detail: err.Error()})
				continue
			}
			if !w.walk(ctx, path, info) {
				return false
			}
			continue
		}

		if entry.Type()&os.ModeSymlink != 0 {
			// Resolve the target; broken links contribute nothing.
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if info.IsDir() {
				if w.scanner.isExcluded(entry.Name()) {
					w.scanner.logger.Debug("pruned directory", logging.String("path", path))
					continue
				}
				if !w.walk(ctx, path, info) {
					return false
				}
				continue
			}
			if !w.accept(candidate{path: path, info: info}) {
				return false
			}
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			w.warnings = append(w.warnings, catalog.Warning{Kind: catalog.WarnUnreadableFile, Path: path, Detail: err.Error()})
			continue
		}
		if !w.accept(candidate{path: path, info: info}) {
			return false
		}
	}
	return true
}

// accept adds a candidate unless the cap is already full, in which case it
// flags truncation and halts the walk.
func (w *walker) accept(file candidate) bool {
	if w.maxFiles > 0 && len(w.files) >= w.maxFiles {
		if !w.truncated {
			w.truncated = true
			w.warnings = append(w.warnings, catalog.Warning{
				Kind:   catalog.WarnTruncated,
				Detail: "file limit reached, traversal stopped early",
			})
		}
		return false
	}
	w.files = append(w.files, file)
	return true
}

func (s *Scanner) isExcluded(name string) bool {
	lower := strings.ToLower(name)
	for _, pattern := range s.excluded {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

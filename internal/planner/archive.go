package planner

import (
	"path/filepath"
	"strings"
	"time"

	"filekeeper/internal/catalog"
	"filekeeper/internal/logging"
)

// ArchiveDirName roots the archival layout under each scan root. The
// pipeline uses it to keep organization passes out of the archive tree.
const ArchiveDirName = "Archive"

// Archive selects records last modified before runTimestamp minus cutoffDays
// and plans moves into <root>/Archive/<year-month>/ keyed by the run
// timestamp. Age is the sole criterion; category is ignored. Records already
// under the archive root are left alone, and a non-positive cutoff archives
// nothing.
func (p *Planner) Archive(root string, records []catalog.Record, cutoffDays int, runTimestamp time.Time) Plan {
	var plan Plan
	if cutoffDays <= 0 {
		return plan
	}

	cutoff := runTimestamp.AddDate(0, 0, -cutoffDays)
	archiveRoot := filepath.Join(root, ArchiveDirName)
	dir := filepath.Join(archiveRoot, runTimestamp.Format("2006-01"))
	resolver := newDestinationResolver()

	for _, record := range records {
		if !record.ModifiedTime.Before(cutoff) {
			continue
		}
		if strings.HasPrefix(record.Path, archiveRoot+string(filepath.Separator)) {
			continue
		}
		if filepath.Join(dir, record.Name) == record.Path {
			continue
		}

		plan.Entries = append(plan.Entries, Entry{
			Kind:        EntryMove,
			Source:      record.Path,
			Destination: resolver.Resolve(dir, record.Name),
			Size:        record.Size,
			Category:    record.Category,
		})
	}

	p.logger.Debug(
		"archival plan built",
		logging.String(logging.FieldRoot, root),
		logging.Int("cutoff_days", cutoffDays),
		logging.Int("entries", len(plan.Entries)),
	)
	return plan
}

// OldRecords returns the records an archival run with the given cutoff would
// consider, without building a plan. Feeds summaries and dry-run output.
func OldRecords(records []catalog.Record, cutoffDays int, runTimestamp time.Time) []catalog.Record {
	if cutoffDays <= 0 {
		return nil
	}
	cutoff := runTimestamp.AddDate(0, 0, -cutoffDays)
	var old []catalog.Record
	for _, record := range records {
		if record.ModifiedTime.Before(cutoff) {
			old = append(old, record)
		}
	}
	return old
}

package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"filekeeper/internal/catalog"
	"filekeeper/internal/dedup"
)

const (
	// datedLayoutThreshold is the collection size past which a dated folder
	// layout beats a flat one.
	datedLayoutThreshold = 100
	// splitThreshold is the collection size past which a single tree becomes
	// hard to navigate at all.
	splitThreshold = 1000
	// largeFileBytes marks an individual file as worth reviewing.
	largeFileBytes = 100 * 1024 * 1024
	// dominantCategoryBytes marks a category as dominating disk usage.
	dominantCategoryBytes = 1024 * 1024 * 1024
	// staleAge is how long a file sits untouched before archival guidance.
	staleAge = 365 * 24 * time.Hour
	// maxRecommendations bounds the rendered list.
	maxRecommendations = 6
)

// Rules is the offline recommendation engine. Output depends only on the
// summaries and the injected clock, so identical runs render identical text.
type Rules struct {
	now func() time.Time
}

// RulesOption customizes the rules advisor.
type RulesOption func(*Rules)

// WithClock overrides the time source used for stale-file guidance.
func WithClock(now func() time.Time) RulesOption {
	return func(r *Rules) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRules constructs the offline rules advisor.
func NewRules(opts ...RulesOption) *Rules {
	rules := &Rules{now: time.Now}
	for _, opt := range opts {
		opt(rules)
	}
	return rules
}

// Name identifies the implementation for status output.
func (r *Rules) Name() string { return "rules" }

// HealthCheck always passes; the rules engine needs no connectivity.
func (r *Rules) HealthCheck(context.Context) error { return nil }

// Recommendations renders deterministic guidance: duplicate savings first,
// then organization and archival suggestions, capped at a handful of lines.
func (r *Rules) Recommendations(_ context.Context, scan catalog.MergedSummary, duplicates dedup.Summary) (string, error) {
	if scan.TotalFiles == 0 {
		return "No files scanned; nothing to recommend.", nil
	}

	var lines []string

	if duplicates.GroupCount > 0 {
		lines = append(lines, fmt.Sprintf(
			"Found %d duplicate groups holding %d redundant copies; removing them reclaims %s.",
			duplicates.GroupCount, duplicates.DuplicateCount, humanize.IBytes(uint64(duplicates.ReclaimableBytes))))
		lines = append(lines, "Keep the newest copy in each duplicate group and route the rest through the review directory before deleting.")
	}

	if len(scan.Categories) > 1 {
		names := make([]string, 0, len(scan.Categories))
		for _, stat := range scan.Categories {
			names = append(names, stat.Category.FolderName())
		}
		lines = append(lines, fmt.Sprintf(
			"Organize files into %d category folders: %s.", len(names), strings.Join(names, ", ")))
	}

	if scan.TotalFiles > datedLayoutThreshold {
		lines = append(lines, "Use the dated layout (year/month folders) to keep a collection this size navigable.")
	}

	if count := largeFileCount(scan); count > 0 {
		lines = append(lines, fmt.Sprintf(
			"%d of the largest files exceed %s each; review them for compression or external storage.",
			count, humanize.IBytes(largeFileBytes)))
	}

	if stale, age := r.staleRoots(scan); stale > 0 {
		lines = append(lines, fmt.Sprintf(
			"The oldest files have sat untouched for %d days across %d root(s); an archive pass would move them out of the way.",
			int(age.Hours()/24), stale))
	}

	if stat, ok := dominantCategory(scan); ok {
		lines = append(lines, fmt.Sprintf(
			"%s files hold %s of the scanned data; consider compressing them or moving them to dedicated storage.",
			stat.Category.FolderName(), humanize.IBytes(uint64(stat.Bytes))))
	}

	if scan.TotalFiles > splitThreshold {
		lines = append(lines, fmt.Sprintf(
			"Collections beyond %d files are hard to browse; split the largest roots into themed subfolders.", splitThreshold))
	}

	if len(lines) == 0 {
		return "Files appear well organized; no action needed.", nil
	}
	if len(lines) > maxRecommendations {
		lines = lines[:maxRecommendations]
	}
	return strings.Join(lines, "\n"), nil
}

// largeFileCount counts entries in the per-root largest-file samples whose
// size crosses largeFileBytes. Samples are bounded, so this is a floor on the
// true count, which is enough for advisory text.
func largeFileCount(scan catalog.MergedSummary) int {
	count := 0
	for _, root := range scan.Roots {
		for _, stat := range root.LargestFiles {
			if stat.Size >= largeFileBytes {
				count++
			}
		}
	}
	return count
}

// staleRoots counts roots whose oldest file predates the stale cutoff and
// returns the age of the oldest file seen anywhere.
func (r *Rules) staleRoots(scan catalog.MergedSummary) (int, time.Duration) {
	cutoff := r.now().Add(-staleAge)
	count := 0
	var oldest time.Duration
	for _, root := range scan.Roots {
		if root.OldestModified.IsZero() {
			continue
		}
		if root.OldestModified.Before(cutoff) {
			count++
			if age := r.now().Sub(root.OldestModified); age > oldest {
				oldest = age
			}
		}
	}
	return count, oldest
}

// dominantCategory returns the category holding the most bytes when that
// figure is large enough to matter.
func dominantCategory(scan catalog.MergedSummary) (catalog.CategoryStat, bool) {
	var best catalog.CategoryStat
	for _, stat := range scan.Categories {
		if stat.Bytes > best.Bytes {
			best = stat
		}
	}
	if best.Bytes < dominantCategoryBytes {
		return catalog.CategoryStat{}, false
	}
	return best, true
}

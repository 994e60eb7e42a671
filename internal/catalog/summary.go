package catalog

import (
	"sort"
	"time"
)

// maxLargestFiles bounds the largest-file sample carried in a ScanSummary.
const maxLargestFiles = 5

// CategoryStat aggregates one category within a scan.
type CategoryStat struct {
	Category Category `json:"category"`
	Count    int      `json:"count"`
	Bytes    int64    `json:"bytes"`
}

// FileStat identifies one file and its size inside a summary.
type FileStat struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// ScanSummary is the structured output handed to the advisor and persisted
// with run reports after scanning one root.
type ScanSummary struct {
	Root           string         `json:"root"`
	TotalFiles     int            `json:"total_files"`
	TotalBytes     int64          `json:"total_bytes"`
	Categories     []CategoryStat `json:"categories,omitempty"`
	OldestPath     string         `json:"oldest_path,omitempty"`
	OldestModified time.Time      `json:"oldest_modified"`
	NewestPath     string         `json:"newest_path,omitempty"`
	NewestModified time.Time      `json:"newest_modified"`
	LargestFiles   []FileStat     `json:"largest_files,omitempty"`
	Truncated      bool           `json:"truncated,omitempty"`
	WarningCount   int            `json:"warning_count,omitempty"`
	Duration       time.Duration  `json:"duration_ns,omitempty"`
}

// BuildScanSummary aggregates records from one root into a ScanSummary.
// Category stats are ordered by descending count, category name breaking
// ties, so output is deterministic regardless of traversal order.
func BuildScanSummary(root string, records []Record, warnings []Warning, truncated bool, duration time.Duration) ScanSummary {
	summary := ScanSummary{
		Root:         root,
		TotalFiles:   len(records),
		Truncated:    truncated,
		WarningCount: len(warnings),
		Duration:     duration,
	}

	byCategory := make(map[Category]*CategoryStat)
	for _, record := range records {
		summary.TotalBytes += record.Size

		stat, ok := byCategory[record.Category]
		if !ok {
			stat = &CategoryStat{Category: record.Category}
			byCategory[record.Category] = stat
		}
		stat.Count++
		stat.Bytes += record.Size

		if summary.OldestPath == "" || record.ModifiedTime.Before(summary.OldestModified) {
			summary.OldestPath = record.Path
			summary.OldestModified = record.ModifiedTime
		}
		if summary.NewestPath == "" || record.ModifiedTime.After(summary.NewestModified) {
			summary.NewestPath = record.Path
			summary.NewestModified = record.ModifiedTime
		}
	}

	summary.Categories = make([]CategoryStat, 0, len(byCategory))
	for _, stat := range byCategory {
		summary.Categories = append(summary.Categories, *stat)
	}
	sort.Slice(summary.Categories, func(i, j int) bool {
		if summary.Categories[i].Count != summary.Categories[j].Count {
			return summary.Categories[i].Count > summary.Categories[j].Count
		}
		return summary.Categories[i].Category < summary.Categories[j].Category
	})

	summary.LargestFiles = largestFiles(records, maxLargestFiles)
	return summary
}

func largestFiles(records []Record, limit int) []FileStat {
	if len(records) == 0 || limit <= 0 {
		return nil
	}
	sorted := make([]Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Size != sorted[j].Size {
			return sorted[i].Size > sorted[j].Size
		}
		return sorted[i].Path < sorted[j].Path
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	stats := make([]FileStat, len(sorted))
	for i, record := range sorted {
		stats[i] = FileStat{Path: record.Path, Size: record.Size}
	}
	return stats
}

// OldFileStats counts records last modified before cutoff and their total
// size. Feeds the advisor's old-file guidance.
func OldFileStats(records []Record, cutoff time.Time) (count int, bytes int64) {
	for _, record := range records {
		if record.ModifiedTime.Before(cutoff) {
			count++
			bytes += record.Size
		}
	}
	return count, bytes
}

// MergeScanSummaries folds multiple per-root summaries into one run-level
// view. Oldest/newest/largest samples are recomputed across roots.
type MergedSummary struct {
	TotalFiles int            `json:"total_files"`
	TotalBytes int64          `json:"total_bytes"`
	Roots      []ScanSummary  `json:"roots"`
	Categories []CategoryStat `json:"categories,omitempty"`
}

// MergeScanSummaries aggregates per-root summaries for reporting.
func MergeScanSummaries(summaries []ScanSummary) MergedSummary {
	merged := MergedSummary{Roots: summaries}
	byCategory := make(map[Category]*CategoryStat)
	for _, summary := range summaries {
		merged.TotalFiles += summary.TotalFiles
		merged.TotalBytes += summary.TotalBytes
		for _, stat := range summary.Categories {
			agg, ok := byCategory[stat.Category]
			if !ok {
				agg = &CategoryStat{Category: stat.Category}
				byCategory[stat.Category] = agg
			}
			agg.Count += stat.Count
			agg.Bytes += stat.Bytes
		}
	}
	merged.Categories = make([]CategoryStat, 0, len(byCategory))
	for _, stat := range byCategory {
		merged.Categories = append(merged.Categories, *stat)
	}
	sort.Slice(merged.Categories, func(i, j int) bool {
		if merged.Categories[i].Count != merged.Categories[j].Count {
			return merged.Categories[i].Count > merged.Categories[j].Count
		}
		return merged.Categories[i].Category < merged.Categories[j].Category
	})
	return merged
}

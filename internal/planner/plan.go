package planner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"filekeeper/internal/catalog"
)

// EntryKind distinguishes plan entry actions.
type EntryKind string

const (
	// EntryMove relocates a file to Destination.
	EntryMove EntryKind = "move"
	// EntryDelete removes a file; Destination is empty.
	EntryDelete EntryKind = "delete"
)

// Entry is one proposed action against a single file.
type Entry struct {
	Kind        EntryKind        `json:"kind"`
	Source      string           `json:"source"`
	Destination string           `json:"destination,omitempty"`
	Size        int64            `json:"size"`
	Category    catalog.Category `json:"category,omitempty"`
}

// Plan is an ordered batch of proposed actions. Entries are independent;
// executing one never depends on another having succeeded.
type Plan struct {
	Entries []Entry `json:"entries"`
}

// IsEmpty reports whether the plan proposes any action.
func (p Plan) IsEmpty() bool { return len(p.Entries) == 0 }

// MoveCount returns the number of move entries.
func (p Plan) MoveCount() int { return p.countKind(EntryMove) }

// DeleteCount returns the number of delete entries.
func (p Plan) DeleteCount() int { return p.countKind(EntryDelete) }

func (p Plan) countKind(kind EntryKind) int {
	count := 0
	for _, entry := range p.Entries {
		if entry.Kind == kind {
			count++
		}
	}
	return count
}

// TotalBytes sums the planned sizes across all entries.
func (p Plan) TotalBytes() int64 {
	var total int64
	for _, entry := range p.Entries {
		total += entry.Size
	}
	return total
}

// Merge appends the entries of other plans onto p, preserving order.
func (p Plan) Merge(others ...Plan) Plan {
	merged := Plan{Entries: append([]Entry(nil), p.Entries...)}
	for _, other := range others {
		merged.Entries = append(merged.Entries, other.Entries...)
	}
	return merged
}

// destinationResolver assigns collision-free destination paths. A path is
// taken when it exists on disk or was claimed earlier in the same plan.
type destinationResolver struct {
	claimed map[string]struct{}
	exists  func(path string) bool
}

func newDestinationResolver() *destinationResolver {
	return &destinationResolver{
		claimed: make(map[string]struct{}),
		exists:  pathExists,
	}
}

func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// Resolve claims a free path for name inside dir, suffixing the stem with
// _1, _2, ... until no collision remains.
func (r *destinationResolver) Resolve(dir, name string) string {
	candidate := filepath.Join(dir, name)
	if !r.taken(candidate) {
		r.claimed[candidate] = struct{}{}
		return candidate
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for counter := 1; ; counter++ {
		candidate = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, counter, ext))
		if !r.taken(candidate) {
			r.claimed[candidate] = struct{}{}
			return candidate
		}
	}
}

func (r *destinationResolver) taken(path string) bool {
	if _, ok := r.claimed[path]; ok {
		return true
	}
	return r.exists(path)
}

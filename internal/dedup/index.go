package dedup

import (
	"sort"

	"filekeeper/internal/catalog"
)

// Group is a set of two or more records sharing the same content hash.
// Members are ordered newest modification time first; ties fall back to
// lexical path order. The first member is the keeper.
type Group struct {
	Hash    string
	Size    int64
	Members []catalog.Record
}

// Keeper returns the member that would be retained: the newest copy, or the
// lexically first path when modification times are equal.
func (g Group) Keeper() catalog.Record {
	return g.Members[0]
}

// RemovalCandidates returns every member except the keeper. It performs no
// I/O and decides nothing about whether removal happens.
func (g Group) RemovalCandidates() []catalog.Record {
	return g.Members[1:]
}

// ReclaimableBytes estimates the space freed by removing every candidate.
func (g Group) ReclaimableBytes() int64 {
	return g.Size * int64(len(g.Members)-1)
}

// MeetsThreshold reports whether the group's file size is at or above the
// caller's minimum for automatic removal. A non-positive threshold admits
// every group.
func (g Group) MeetsThreshold(minBytes int64) bool {
	if minBytes <= 0 {
		return true
	}
	return g.Size >= minBytes
}

// GroupDuplicates buckets records by content hash and returns the buckets
// holding at least two members. Records with an empty hash are skipped.
// Groups are ordered by reclaimable bytes descending, then hash, so callers
// see the largest savings first and output is stable for identical inputs.
func GroupDuplicates(records []catalog.Record) []Group {
	buckets := make(map[string][]catalog.Record)
	for _, record := range records {
		if record.ContentHash == "" {
			continue
		}
		buckets[record.ContentHash] = append(buckets[record.ContentHash], record)
	}

	groups := make([]Group, 0, len(buckets))
	for hash, members := range buckets {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool {
			if !members[i].ModifiedTime.Equal(members[j].ModifiedTime) {
				return members[i].ModifiedTime.After(members[j].ModifiedTime)
			}
			return members[i].Path < members[j].Path
		})
		groups = append(groups, Group{
			Hash:    hash,
			Size:    members[0].Size,
			Members: members,
		})
	}

	sort.Slice(groups, func(i, j int) bool {
		ri, rj := groups[i].ReclaimableBytes(), groups[j].ReclaimableBytes()
		if ri != rj {
			return ri > rj
		}
		return groups[i].Hash < groups[j].Hash
	})
	return groups
}

// EligibleGroups filters groups down to the ones meeting the minimum-size
// threshold for automatic removal.
func EligibleGroups(groups []Group, minBytes int64) []Group {
	eligible := make([]Group, 0, len(groups))
	for _, group := range groups {
		if group.MeetsThreshold(minBytes) {
			eligible = append(eligible, group)
		}
	}
	return eligible
}

package dedup

// DefaultSampleLimit bounds the group sample carried in a Summary.
const DefaultSampleLimit = 5

// GroupSummary is one sampled group inside a Summary.
type GroupSummary struct {
	Hash    string   `json:"hash"`
	Size    int64    `json:"size_bytes"`
	Count   int      `json:"count"`
	Keeper  string   `json:"keeper"`
	Members []string `json:"members"`
}

// Summary is the structured duplicate view handed to the advisor and
// persisted with run reports. DuplicateCount counts redundant copies, not
// group members, so it matches ReclaimableBytes.
type Summary struct {
	GroupCount       int            `json:"group_count"`
	DuplicateCount   int            `json:"duplicate_count"`
	ReclaimableBytes int64          `json:"reclaimable_bytes"`
	Groups           []GroupSummary `json:"groups,omitempty"`
}

// BuildSummary aggregates groups into a Summary. Counts and reclaimable
// bytes cover every group; only the sample is bounded by limit (the default
// applies when limit is non-positive). Groups arrive ordered largest savings
// first from GroupDuplicates, so the sample keeps the most useful entries.
func BuildSummary(groups []Group, limit int) Summary {
	if limit <= 0 {
		limit = DefaultSampleLimit
	}

	summary := Summary{GroupCount: len(groups)}
	for i, group := range groups {
		summary.DuplicateCount += len(group.Members) - 1
		summary.ReclaimableBytes += group.ReclaimableBytes()
		if i >= limit {
			continue
		}
		members := make([]string, len(group.Members))
		for j, member := range group.Members {
			members[j] = member.Path
		}
		summary.Groups = append(summary.Groups, GroupSummary{
			Hash:    group.Hash,
			Size:    group.Size,
			Count:   len(group.Members),
			Keeper:  group.Keeper().Path,
			Members: members,
		})
	}
	return summary
}

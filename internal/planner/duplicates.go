package planner

import (
	"fmt"
	"path/filepath"
	"strings"

	"filekeeper/internal/dedup"
	"filekeeper/internal/logging"
)

// DuplicateReview plans moving every removal candidate into reviewDir for
// human inspection, renamed <stem>_duplicate_<n><ext> with n counting
// candidates within each group. Keepers are never touched. The usual
// collision rule applies on top of the review naming.
func (p *Planner) DuplicateReview(reviewDir string, groups []dedup.Group) Plan {
	var plan Plan
	resolver := newDestinationResolver()

	for _, group := range groups {
		for i, candidate := range group.RemovalCandidates() {
			ext := filepath.Ext(candidate.Name)
			stem := strings.TrimSuffix(candidate.Name, ext)
			name := fmt.Sprintf("%s_duplicate_%d%s", stem, i+1, ext)

			plan.Entries = append(plan.Entries, Entry{
				Kind:        EntryMove,
				Source:      candidate.Path,
				Destination: resolver.Resolve(reviewDir, name),
				Size:        candidate.Size,
				Category:    candidate.Category,
			})
		}
	}

	p.logger.Debug(
		"duplicate review plan built",
		logging.String("review_dir", reviewDir),
		logging.Int("groups", len(groups)),
		logging.Int("entries", len(plan.Entries)),
	)
	return plan
}

// DuplicateRemoval plans deleting the removal candidates of every group
// meeting the minimum-size threshold. Groups below the threshold are
// reported elsewhere but never enter an execution plan.
func (p *Planner) DuplicateRemoval(groups []dedup.Group, minBytes int64) Plan {
	var plan Plan
	for _, group := range dedup.EligibleGroups(groups, minBytes) {
		for _, candidate := range group.RemovalCandidates() {
			plan.Entries = append(plan.Entries, Entry{
				Kind:     EntryDelete,
				Source:   candidate.Path,
				Size:     candidate.Size,
				Category: candidate.Category,
			})
		}
	}

	p.logger.Debug(
		"duplicate removal plan built",
		logging.Int64("min_bytes", minBytes),
		logging.Int("entries", len(plan.Entries)),
	)
	return plan
}

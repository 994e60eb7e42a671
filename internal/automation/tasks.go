package automation

import (
	"time"

	"filekeeper/internal/pipeline"
)

// recentWindow bounds the daily quick pass to files touched this week.
const recentWindow = 7 * 24 * time.Hour

// requestFor maps a cadence onto its pipeline request. Daily is a light
// touch over recent files, weekly organizes everything and quarantines
// duplicate candidates for review, monthly archives old files. Automation
// never deletes duplicates; removal stays a manual CLI decision.
func (m *Manager) requestFor(kind TaskKind) pipeline.Request {
	auto := m.cfg.Automation
	switch kind {
	case TaskWeekly:
		return pipeline.Request{
			Trigger:    string(TaskWeekly),
			MaxFiles:   auto.MaxFilesWeekly,
			Organize:   true,
			Duplicates: pipeline.DuplicatesReview,
			Advise:     true,
			Apply:      true,
		}
	case TaskMonthly:
		return pipeline.Request{
			Trigger:    string(TaskMonthly),
			MaxFiles:   auto.MaxFilesMonthly,
			Archive:    true,
			Duplicates: pipeline.DuplicatesReport,
			Advise:     true,
			Apply:      true,
		}
	default:
		return pipeline.Request{
			Trigger:    string(TaskDaily),
			MaxFiles:   auto.MaxFilesDaily,
			Organize:   true,
			RecentOnly: recentWindow,
			Duplicates: pipeline.DuplicatesReport,
			Advise:     true,
			Apply:      true,
		}
	}
}

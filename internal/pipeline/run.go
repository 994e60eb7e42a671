package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"filekeeper/internal/catalog"
	"filekeeper/internal/dedup"
	"filekeeper/internal/logging"
	"filekeeper/internal/mover"
	"filekeeper/internal/notifications"
	"filekeeper/internal/planner"
	"filekeeper/internal/reports"
	"filekeeper/internal/services"
)

// DuplicateMode selects how a run handles duplicate groups.
type DuplicateMode string

const (
	// DuplicatesReport surfaces duplicates in summaries without planning
	// any action. The zero value of DuplicateMode behaves the same way.
	DuplicatesReport DuplicateMode = "report"
	// DuplicatesReview plans moves of removal candidates into the review
	// directory for a human decision.
	DuplicatesReview DuplicateMode = "review"
	// DuplicatesRemove plans deletion of removal candidates in groups
	// above the configured size threshold.
	DuplicatesRemove DuplicateMode = "remove"
)

// Request describes one pipeline run. Zero values defer to configuration.
type Request struct {
	// Trigger labels the run: manual, daily, weekly, or monthly. Anything
	// else is treated as manual.
	Trigger string
	// Roots overrides the configured scan roots when non-empty.
	Roots []string
	// MaxFiles caps records per root; zero uses scan.max_files.
	MaxFiles int
	// Organize requests an organization plan for each root.
	Organize bool
	// RecentOnly restricts organization to records modified within the
	// window, leaving older files where they sit.
	RecentOnly time.Duration
	// Archive requests an archival plan for files older than the cutoff.
	Archive bool
	// ArchiveDays overrides archive.old_file_threshold_days when positive.
	ArchiveDays int
	// Duplicates selects duplicate handling; empty reports only.
	Duplicates DuplicateMode
	// Advise asks the configured advisor for recommendations on this run.
	Advise bool
	// Apply executes the combined plan. When false the run is a dry run
	// and the outcome carries plans only.
	Apply bool
}

// Outcome carries everything a run produced, including partial results
// when the run was canceled or failed mid-flight.
type Outcome struct {
	Report        *reports.RunReport
	Records       []catalog.Record
	Scan          catalog.MergedSummary
	Warnings      []catalog.Warning
	Groups        []dedup.Group
	Duplicates    dedup.Summary
	OrganizePlan  planner.Plan
	ArchivePlan   planner.Plan
	DuplicatePlan planner.Plan
	Plan          planner.Plan
	Result        mover.Result
	Applied       bool
}

// rootScan pairs a scan root with the records it yielded so plans can be
// built per root.
type rootScan struct {
	root    string
	records []catalog.Record
}

// Run executes one pass over the requested roots. It returns the outcome
// alongside any fatal error; on cancellation the outcome still holds
// whatever the run completed before stopping.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Outcome, error) {
	trigger := normalizeTrigger(req.Trigger)
	roots := req.Roots
	if len(roots) == 0 {
		roots = p.cfg.Scan.Roots
	}
	if len(roots) == 0 {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "run", "no scan roots configured", nil)
	}
	maxFiles := req.MaxFiles
	if maxFiles <= 0 {
		maxFiles = p.cfg.Scan.MaxFiles
	}
	archiveDays := req.ArchiveDays
	if archiveDays <= 0 {
		archiveDays = p.cfg.Archive.OldFileThresholdDays
	}

	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithTrigger(ctx, trigger)
	logger := logging.WithContext(ctx, p.logger)

	started := p.now()
	report := &reports.RunReport{
		ID:        runID,
		Trigger:   trigger,
		Status:    reports.StatusRunning,
		StartedAt: started,
		Roots:     roots,
	}
	outcome := &Outcome{Report: report, Applied: req.Apply}

	persist := p.store != nil
	if persist {
		if err := p.store.Begin(ctx, report); err != nil {
			logger.Warn("report persistence unavailable for this run", logging.Error(err))
			persist = false
		}
	}

	logger.Info("run started",
		logging.Int("roots", len(roots)),
		logging.Bool("apply", req.Apply))
	if req.Apply {
		p.notify(logger, "run started", func() error {
			return p.notifier.NotifyRunStarted(ctx, trigger, len(roots))
		})
	}

	scans, failedRoots := p.scanRoots(ctx, logger, roots, maxFiles, outcome)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return p.fail(ctx, logger, outcome, persist, req.Apply, trigger, ctxErr)
	}
	if failedRoots == len(roots) {
		err := services.Wrap(services.ErrDirectoryNotFound, "pipeline", "scan", "all scan roots failed", nil)
		return p.fail(ctx, logger, outcome, persist, req.Apply, trigger, err)
	}

	report.Scan = &outcome.Scan
	report.FilesScanned = outcome.Scan.TotalFiles
	report.WarningCount = len(outcome.Warnings)

	outcome.Groups = dedup.GroupDuplicates(outcome.Records)
	outcome.Duplicates = dedup.BuildSummary(outcome.Groups, dedup.DefaultSampleLimit)
	report.Duplicates = &outcome.Duplicates
	if req.Apply && outcome.Duplicates.GroupCount > 0 {
		p.notify(logger, "duplicates found", func() error {
			return p.notifier.NotifyDuplicatesFound(ctx,
				outcome.Duplicates.GroupCount,
				outcome.Duplicates.DuplicateCount,
				outcome.Duplicates.ReclaimableBytes)
		})
	}

	p.buildPlans(req, scans, started, archiveDays, outcome)

	if req.Apply && !outcome.Plan.IsEmpty() {
		execErr := p.executePlans(ctx, logger, report, outcome)
		report.FailedCount = outcome.Result.FailedCount()
		report.Failures = outcome.Result.Failures
		report.BytesMoved = outcome.Result.BytesMoved
		report.BytesFreed = outcome.Result.BytesFreed
		if execErr != nil {
			return p.fail(ctx, logger, outcome, persist, req.Apply, trigger, execErr)
		}
	}

	if req.Advise {
		recommendations, err := p.advisor.Recommendations(ctx, outcome.Scan, outcome.Duplicates)
		if err != nil {
			logger.Warn("advisor unavailable",
				logging.String("advisor", p.advisor.Name()),
				logging.Error(err))
		} else {
			report.Recommendations = recommendations
		}
	}

	p.finish(ctx, logger, report, persist)

	if req.Apply {
		p.notify(logger, "run completed", func() error {
			return p.notifier.NotifyRunCompleted(ctx, trigger, notifications.RunSummary{
				Organized:  report.FilesOrganized,
				Archived:   report.FilesArchived,
				Duplicates: report.DuplicatesHandled,
				Failed:     report.FailedCount,
				BytesFreed: report.BytesFreed,
				Duration:   report.Duration(),
			})
		})
	}

	logger.Info("run finished",
		logging.String("status", string(report.Status)),
		logging.Int("scanned", report.FilesScanned),
		logging.Int("organized", report.FilesOrganized),
		logging.Int("archived", report.FilesArchived),
		logging.Int("duplicates", report.DuplicatesHandled),
		logging.Int("failed", report.FailedCount))
	return outcome, nil
}

// scanRoots walks every root, isolating per-root failures as warnings so
// one bad mount cannot sink the rest. It returns the per-root scans and
// how many roots failed outright.
func (p *Pipeline) scanRoots(ctx context.Context, logger *slog.Logger, roots []string, maxFiles int, outcome *Outcome) ([]rootScan, int) {
	var (
		scans     []rootScan
		summaries []catalog.ScanSummary
		failed    int
	)
	for _, root := range roots {
		// Plans key off record paths, which the scanner resolves to
		// absolute form; keep the root in the same form.
		if abs, absErr := filepath.Abs(root); absErr == nil {
			root = abs
		}
		scanStarted := p.now()
		records, warnings, err := p.scanner.Scan(ctx, root, maxFiles)
		if err != nil {
			if ctx.Err() != nil {
				// A canceled walk still returns what it collected;
				// keep it so the outcome stays a valid partial result.
				outcome.Warnings = append(outcome.Warnings, warnings...)
				outcome.Records = append(outcome.Records, records...)
				if len(records) > 0 {
					summaries = append(summaries, catalog.BuildScanSummary(root, records, warnings,
						hasWarning(warnings, catalog.WarnTruncated), p.now().Sub(scanStarted)))
				}
				break
			}
			failed++
			logger.Warn("root skipped",
				logging.String(logging.FieldRoot, root),
				logging.String("code", services.Classify(err)),
				logging.Error(err))
			outcome.Warnings = append(outcome.Warnings, catalog.Warning{
				Kind:   catalog.WarnSkippedDir,
				Path:   root,
				Detail: err.Error(),
			})
			continue
		}
		truncated := hasWarning(warnings, catalog.WarnTruncated)
		summaries = append(summaries, catalog.BuildScanSummary(root, records, warnings, truncated, p.now().Sub(scanStarted)))
		scans = append(scans, rootScan{root: root, records: records})
		outcome.Warnings = append(outcome.Warnings, warnings...)
		outcome.Records = append(outcome.Records, records...)
	}
	outcome.Scan = catalog.MergeScanSummaries(summaries)
	return scans, failed
}

// buildPlans derives the per-concern plans in priority order. Duplicate
// handling wins a contested file, then archival, then organization, so one
// source never appears in two plans.
func (p *Pipeline) buildPlans(req Request, scans []rootScan, runTimestamp time.Time, archiveDays int, outcome *Outcome) {
	claimed := make(map[string]struct{})

	switch req.Duplicates {
	case DuplicatesReview:
		outcome.DuplicatePlan = p.planner.DuplicateReview(p.cfg.ReviewDir(), outcome.Groups)
	case DuplicatesRemove:
		outcome.DuplicatePlan = p.planner.DuplicateRemoval(outcome.Groups, p.cfg.DuplicateSizeThresholdBytes())
	}
	claimSources(claimed, outcome.DuplicatePlan)

	if req.Archive {
		var archivePlan planner.Plan
		for _, scan := range scans {
			eligible := excludeClaimed(scan.records, claimed)
			archivePlan = archivePlan.Merge(p.planner.Archive(scan.root, eligible, archiveDays, runTimestamp))
		}
		claimSources(claimed, archivePlan)
		outcome.ArchivePlan = archivePlan
	}

	if req.Organize {
		var organizePlan planner.Plan
		for _, scan := range scans {
			eligible := organizeInput(scan.root, scan.records, claimed, req.RecentOnly, runTimestamp)
			organizePlan = organizePlan.Merge(p.planner.Organize(scan.root, eligible))
		}
		outcome.OrganizePlan = organizePlan
	}

	outcome.Plan = outcome.OrganizePlan.Merge(outcome.ArchivePlan, outcome.DuplicatePlan)
}

// executePlans applies the plans one concern at a time so success counts
// attribute exactly, accumulating into outcome.Result. It stops at the
// first context error and leaves partial totals in place.
func (p *Pipeline) executePlans(ctx context.Context, logger *slog.Logger, report *reports.RunReport, outcome *Outcome) error {
	steps := []struct {
		plan  planner.Plan
		count *int
	}{
		{outcome.OrganizePlan, &report.FilesOrganized},
		{outcome.ArchivePlan, &report.FilesArchived},
		{outcome.DuplicatePlan, &report.DuplicatesHandled},
	}
	for _, step := range steps {
		if step.plan.IsEmpty() {
			continue
		}
		result, err := p.mover.Execute(ctx, step.plan)
		*step.count += result.Succeeded
		outcome.Result.Succeeded += result.Succeeded
		outcome.Result.Failures = append(outcome.Result.Failures, result.Failures...)
		outcome.Result.BytesMoved += result.BytesMoved
		outcome.Result.BytesFreed += result.BytesFreed
		updateRecordPaths(outcome.Records, step.plan, result)
		if err != nil {
			return err
		}
	}
	if failed := outcome.Result.FailedCount(); failed > 0 {
		logger.Warn("plan executed with failures", logging.Int("failed", failed))
	}
	return nil
}

// fail closes out a run that cannot continue: it records the error on the
// report, persists the terminal state, and notifies when the run was
// mutating.
func (p *Pipeline) fail(ctx context.Context, logger *slog.Logger, outcome *Outcome, persist, apply bool, trigger string, runErr error) (*Outcome, error) {
	outcome.Report.ErrorMessage = runErr.Error()
	p.finish(ctx, logger, outcome.Report, persist)
	if apply {
		p.notify(logger, "run failed", func() error {
			return p.notifier.NotifyRunFailed(context.WithoutCancel(ctx), trigger, runErr)
		})
	}
	logger.Error("run failed",
		logging.String("code", services.Classify(runErr)),
		logging.Error(runErr))
	return outcome, runErr
}

// organizeInput filters a root's records down to what organization may
// touch: nothing claimed by an earlier plan, nothing already inside the
// root's archive tree, and only recently modified files when the request
// sets a window.
func organizeInput(root string, records []catalog.Record, claimed map[string]struct{}, recentOnly time.Duration, runTimestamp time.Time) []catalog.Record {
	archivePrefix := filepath.Join(root, planner.ArchiveDirName) + string(filepath.Separator)
	var cutoff time.Time
	if recentOnly > 0 {
		cutoff = runTimestamp.Add(-recentOnly)
	}

	eligible := make([]catalog.Record, 0, len(records))
	for _, record := range records {
		if _, ok := claimed[record.Path]; ok {
			continue
		}
		if strings.HasPrefix(record.Path, archivePrefix) {
			continue
		}
		if !cutoff.IsZero() && record.ModifiedTime.Before(cutoff) {
			continue
		}
		eligible = append(eligible, record)
	}
	return eligible
}

// excludeClaimed drops records whose paths an earlier plan already owns.
func excludeClaimed(records []catalog.Record, claimed map[string]struct{}) []catalog.Record {
	if len(claimed) == 0 {
		return records
	}
	eligible := make([]catalog.Record, 0, len(records))
	for _, record := range records {
		if _, ok := claimed[record.Path]; ok {
			continue
		}
		eligible = append(eligible, record)
	}
	return eligible
}

// claimSources marks every plan source as owned.
func claimSources(claimed map[string]struct{}, plan planner.Plan) {
	for _, entry := range plan.Entries {
		claimed[entry.Source] = struct{}{}
	}
}

// updateRecordPaths points records at their new locations after successful
// moves. Only attempted entries are considered so a canceled run never
// marks an untouched file as moved.
func updateRecordPaths(records []catalog.Record, plan planner.Plan, result mover.Result) {
	if len(records) == 0 || plan.IsEmpty() {
		return
	}
	attempted := result.Succeeded + len(result.Failures)
	if attempted > len(plan.Entries) {
		attempted = len(plan.Entries)
	}
	failed := make(map[string]struct{}, len(result.Failures))
	for _, failure := range result.Failures {
		failed[failure.Path] = struct{}{}
	}
	index := make(map[string]int, len(records))
	for i, record := range records {
		index[record.Path] = i
	}
	for _, entry := range plan.Entries[:attempted] {
		if entry.Kind != planner.EntryMove {
			continue
		}
		if _, ok := failed[entry.Source]; ok {
			continue
		}
		if i, ok := index[entry.Source]; ok {
			records[i].Path = entry.Destination
		}
	}
}

// normalizeTrigger folds arbitrary trigger strings onto the known set.
func normalizeTrigger(trigger string) string {
	switch strings.ToLower(strings.TrimSpace(trigger)) {
	case reports.TriggerDaily:
		return reports.TriggerDaily
	case reports.TriggerWeekly:
		return reports.TriggerWeekly
	case reports.TriggerMonthly:
		return reports.TriggerMonthly
	default:
		return reports.TriggerManual
	}
}

func hasWarning(warnings []catalog.Warning, kind string) bool {
	for _, warning := range warnings {
		if warning.Kind == kind {
			return true
		}
	}
	return false
}

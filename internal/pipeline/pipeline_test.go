package pipeline_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"filekeeper/internal/catalog"
	"filekeeper/internal/dedup"
	"filekeeper/internal/logging"
	"filekeeper/internal/notifications"
	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
	"filekeeper/internal/services"
	"filekeeper/internal/testsupport"
)

func TestRunScanReportOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := testsupport.ScanRoot(cfg)
	testsupport.WriteFile(t, filepath.Join(root, "report.txt"), "quarterly numbers")
	testsupport.WriteFile(t, filepath.Join(root, "song.mp3"), "not really audio")

	store := testsupport.MustOpenStore(t, cfg)
	notifier := &stubNotifier{}
	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithStore(store),
		pipeline.WithNotifier(notifier),
		pipeline.WithAdvisor(&stubAdvisor{}),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{Trigger: "manual"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Scan.TotalFiles != 2 {
		t.Fatalf("scanned %d files, want 2", outcome.Scan.TotalFiles)
	}
	if !outcome.Plan.IsEmpty() {
		t.Fatalf("report-only run built a plan with %d entries", len(outcome.Plan.Entries))
	}
	if outcome.Report.Status != reports.StatusCompleted {
		t.Fatalf("status = %s, want completed", outcome.Report.Status)
	}

	stored, err := store.Get(context.Background(), outcome.Report.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.FilesScanned != 2 || stored.Status != reports.StatusCompleted {
		t.Fatalf("stored report = %d files / %s, want 2 / completed", stored.FilesScanned, stored.Status)
	}
	if notifier.started != 0 || notifier.completed != 0 || notifier.failed != 0 {
		t.Fatalf("dry run sent notifications: %+v", notifier)
	}
}

func TestRunOrganizeApply(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOrganizeMode("flat"))
	root := testsupport.ScanRoot(cfg)
	testsupport.WriteFile(t, filepath.Join(root, "report.txt"), "quarterly numbers")
	testsupport.WriteFile(t, filepath.Join(root, "song.mp3"), "not really audio")

	store := testsupport.MustOpenStore(t, cfg)
	notifier := &stubNotifier{}
	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithStore(store),
		pipeline.WithNotifier(notifier),
		pipeline.WithAdvisor(&stubAdvisor{}),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{Organize: true, Apply: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Report.FilesOrganized != 2 {
		t.Fatalf("organized %d files, want 2", outcome.Report.FilesOrganized)
	}
	for _, want := range []string{
		filepath.Join(root, "Documents", "report.txt"),
		filepath.Join(root, "Audio", "song.mp3"),
	} {
		if _, err := os.Stat(want); err != nil {
			t.Fatalf("expected organized file at %s: %v", want, err)
		}
	}
	if _, err := os.Stat(filepath.Join(root, "report.txt")); !os.IsNotExist(err) {
		t.Fatalf("source file still present after move")
	}

	paths := make(map[string]string)
	for _, record := range outcome.Records {
		paths[record.Name] = record.Path
	}
	if paths["report.txt"] != filepath.Join(root, "Documents", "report.txt") {
		t.Fatalf("record path not updated, got %s", paths["report.txt"])
	}

	if notifier.started != 1 || notifier.completed != 1 {
		t.Fatalf("notifier counts = %+v, want one started and one completed", notifier)
	}
	if notifier.lastSummary.Organized != 2 {
		t.Fatalf("completion summary organized = %d, want 2", notifier.lastSummary.Organized)
	}

	stored, err := store.Get(context.Background(), outcome.Report.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.FilesOrganized != 2 || stored.BytesMoved == 0 {
		t.Fatalf("stored report organized=%d moved=%d", stored.FilesOrganized, stored.BytesMoved)
	}
}

func TestRunOrganizeDryRunLeavesFiles(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithOrganizeMode("flat"))
	root := testsupport.ScanRoot(cfg)
	source := filepath.Join(root, "report.txt")
	testsupport.WriteFile(t, source, "quarterly numbers")

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{Organize: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcome.OrganizePlan.Entries) != 1 {
		t.Fatalf("plan entries = %d, want 1", len(outcome.OrganizePlan.Entries))
	}
	if outcome.Report.FilesOrganized != 0 {
		t.Fatalf("dry run reported %d organized files", outcome.Report.FilesOrganized)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("dry run touched the source file: %v", err)
	}
}

func TestRunRecentWindowSkipsOldFiles(t *testing.T) {
	now := fixedNow()
	cfg := testsupport.NewConfig(t, testsupport.WithOrganizeMode("flat"))
	root := testsupport.ScanRoot(cfg)
	recent := filepath.Join(root, "fresh.txt")
	testsupport.WriteFileAged(t, recent, "fresh", now.AddDate(0, 0, -2))
	testsupport.WriteFileAged(t, filepath.Join(root, "stale.txt"), "stale", now.AddDate(0, 0, -30))

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
		pipeline.WithClock(func() time.Time { return now }),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{
		Organize:   true,
		RecentOnly: 7 * 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcome.OrganizePlan.Entries) != 1 {
		t.Fatalf("plan entries = %d, want only the recent file", len(outcome.OrganizePlan.Entries))
	}
	if got := outcome.OrganizePlan.Entries[0].Source; got != recent {
		t.Fatalf("planned source = %s, want %s", got, recent)
	}
}

func TestRunArchiveApply(t *testing.T) {
	now := fixedNow()
	cfg := testsupport.NewConfig(t)
	root := testsupport.ScanRoot(cfg)
	testsupport.WriteFileAged(t, filepath.Join(root, "old.txt"), "ancient notes", now.AddDate(0, 0, -400))
	testsupport.WriteFileAged(t, filepath.Join(root, "fresh.txt"), "new notes", now.AddDate(0, 0, -1))

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
		pipeline.WithClock(func() time.Time { return now }),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{Archive: true, Apply: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Report.FilesArchived != 1 {
		t.Fatalf("archived %d files, want 1", outcome.Report.FilesArchived)
	}
	archived := filepath.Join(root, "Archive", now.Format("2006-01"), "old.txt")
	if _, err := os.Stat(archived); err != nil {
		t.Fatalf("expected archived file at %s: %v", archived, err)
	}
	if _, err := os.Stat(filepath.Join(root, "fresh.txt")); err != nil {
		t.Fatalf("fresh file should stay in place: %v", err)
	}
}

func TestRunDuplicateReviewApply(t *testing.T) {
	now := fixedNow()
	cfg := testsupport.NewConfig(t)
	root := testsupport.ScanRoot(cfg)
	keeper := filepath.Join(root, "keep.txt")
	testsupport.WriteFileAged(t, keeper, "same-bytes", now.AddDate(0, 0, -1))
	testsupport.WriteFileAged(t, filepath.Join(root, "dupe.txt"), "same-bytes", now.AddDate(0, 0, -10))

	notifier := &stubNotifier{}
	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(notifier),
		pipeline.WithAdvisor(&stubAdvisor{}),
		pipeline.WithClock(func() time.Time { return now }),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{
		Duplicates: pipeline.DuplicatesReview,
		Apply:      true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Report.DuplicatesHandled != 1 {
		t.Fatalf("handled %d duplicates, want 1", outcome.Report.DuplicatesHandled)
	}
	reviewed := filepath.Join(cfg.ReviewDir(), "dupe_duplicate_1.txt")
	if _, err := os.Stat(reviewed); err != nil {
		t.Fatalf("expected review copy at %s: %v", reviewed, err)
	}
	if _, err := os.Stat(keeper); err != nil {
		t.Fatalf("keeper should stay in place: %v", err)
	}
	if notifier.duplicates != 1 {
		t.Fatalf("duplicate notifications = %d, want 1", notifier.duplicates)
	}
}

func TestRunDuplicateRemoveApply(t *testing.T) {
	now := fixedNow()
	cfg := testsupport.NewConfig(t)
	cfg.Duplicates.SizeThresholdMB = 0
	root := testsupport.ScanRoot(cfg)
	keeper := filepath.Join(root, "a.txt")
	doomed := filepath.Join(root, "b.txt")
	testsupport.WriteFileAged(t, keeper, "same-bytes", now.AddDate(0, 0, -1))
	testsupport.WriteFileAged(t, doomed, "same-bytes", now.AddDate(0, 0, -10))

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
		pipeline.WithClock(func() time.Time { return now }),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{
		Duplicates: pipeline.DuplicatesRemove,
		Apply:      true,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Report.DuplicatesHandled != 1 {
		t.Fatalf("handled %d duplicates, want 1", outcome.Report.DuplicatesHandled)
	}
	if _, err := os.Stat(doomed); !os.IsNotExist(err) {
		t.Fatalf("candidate should be deleted, stat err = %v", err)
	}
	if _, err := os.Stat(keeper); err != nil {
		t.Fatalf("keeper should survive: %v", err)
	}
	if want := int64(len("same-bytes")); outcome.Report.BytesFreed != want {
		t.Fatalf("bytes freed = %d, want %d", outcome.Report.BytesFreed, want)
	}
}

func TestRunDuplicateClaimPrecedesOrganize(t *testing.T) {
	now := fixedNow()
	cfg := testsupport.NewConfig(t, testsupport.WithOrganizeMode("flat"))
	root := testsupport.ScanRoot(cfg)
	keeper := filepath.Join(root, "keep.txt")
	testsupport.WriteFileAged(t, keeper, "same-bytes", now.AddDate(0, 0, -1))
	testsupport.WriteFileAged(t, filepath.Join(root, "dupe.txt"), "same-bytes", now.AddDate(0, 0, -10))

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
		pipeline.WithClock(func() time.Time { return now }),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{
		Organize:   true,
		Duplicates: pipeline.DuplicatesReview,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcome.DuplicatePlan.Entries) != 1 {
		t.Fatalf("duplicate plan entries = %d, want 1", len(outcome.DuplicatePlan.Entries))
	}
	if len(outcome.OrganizePlan.Entries) != 1 {
		t.Fatalf("organize plan entries = %d, want keeper only", len(outcome.OrganizePlan.Entries))
	}
	if got := outcome.OrganizePlan.Entries[0].Source; got != keeper {
		t.Fatalf("organize source = %s, want keeper %s", got, keeper)
	}
	if len(outcome.Plan.Entries) != 2 {
		t.Fatalf("combined plan entries = %d, want 2", len(outcome.Plan.Entries))
	}
}

func TestRunOrganizeSkipsArchiveTree(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := testsupport.ScanRoot(cfg)
	fresh := filepath.Join(root, "new.txt")
	testsupport.WriteFile(t, fresh, "just arrived")
	testsupport.WriteFile(t, filepath.Join(root, "Archive", "2026-01", "stale.txt"), "already archived")

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{Organize: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcome.OrganizePlan.Entries) != 1 {
		t.Fatalf("organize plan entries = %d, want 1", len(outcome.OrganizePlan.Entries))
	}
	if got := outcome.OrganizePlan.Entries[0].Source; got != fresh {
		t.Fatalf("organize source = %s, want %s", got, fresh)
	}
}

func TestRunMissingRootIsolated(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := testsupport.ScanRoot(cfg)
	testsupport.WriteFile(t, filepath.Join(root, "report.txt"), "quarterly numbers")
	missing := filepath.Join(testsupport.BaseDir(cfg), "missing")

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{
		Roots: []string{root, missing},
	})
	if err != nil {
		t.Fatalf("Run should survive one bad root: %v", err)
	}
	if outcome.Scan.TotalFiles != 1 {
		t.Fatalf("scanned %d files, want 1", outcome.Scan.TotalFiles)
	}
	if outcome.Report.Status != reports.StatusCompleted {
		t.Fatalf("status = %s, want completed", outcome.Report.Status)
	}
	found := false
	for _, warning := range outcome.Warnings {
		if warning.Kind == catalog.WarnSkippedDir && warning.Path == missing {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing root not recorded as warning: %+v", outcome.Warnings)
	}
}

func TestRunAllRootsMissingFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)

	store := testsupport.MustOpenStore(t, cfg)
	notifier := &stubNotifier{}
	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithStore(store),
		pipeline.WithNotifier(notifier),
		pipeline.WithAdvisor(&stubAdvisor{}),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{
		Roots: []string{filepath.Join(base, "gone"), filepath.Join(base, "also-gone")},
		Apply: true,
	})
	if err == nil {
		t.Fatal("expected error when every root is missing")
	}
	if !errors.Is(err, services.ErrDirectoryNotFound) {
		t.Fatalf("error = %v, want directory-not-found", err)
	}
	if outcome.Report.Status != reports.StatusFailed {
		t.Fatalf("status = %s, want failed", outcome.Report.Status)
	}
	if notifier.failed != 1 {
		t.Fatalf("failure notifications = %d, want 1", notifier.failed)
	}

	stored, getErr := store.Get(context.Background(), outcome.Report.ID)
	if getErr != nil {
		t.Fatalf("Get: %v", getErr)
	}
	if stored.Status != reports.StatusFailed || stored.ErrorMessage == "" {
		t.Fatalf("stored report = %s / %q, want failed with message", stored.Status, stored.ErrorMessage)
	}
}

func TestRunNoRootsConfigured(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Scan.Roots = nil

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v, want validation", err)
	}
	if outcome != nil {
		t.Fatalf("outcome = %+v, want nil", outcome)
	}
}

func TestRunCanceledContext(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := testsupport.ScanRoot(cfg)
	testsupport.WriteFile(t, filepath.Join(root, "report.txt"), "quarterly numbers")

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	outcome, err := p.Run(ctx, pipeline.Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if outcome == nil {
		t.Fatal("canceled run should still return a partial outcome")
	}
	if outcome.Report.Status != reports.StatusFailed {
		t.Fatalf("status = %s, want failed", outcome.Report.Status)
	}
}

func TestRunCancellationKeepsPartialRecords(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := testsupport.ScanRoot(cfg)
	names := []string{"a.txt", "b.txt", "c.txt", "d.txt", "e.txt"}
	for _, name := range names {
		testsupport.WriteFile(t, filepath.Join(root, name), "content of "+name)
	}

	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{}),
	)

	// Enough budget to accept some files before the walk sees the stop.
	ctx := &cancelMidScanContext{Context: context.Background(), budget: 4}
	outcome, err := p.Run(ctx, pipeline.Request{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(outcome.Records) == 0 {
		t.Fatal("canceled run dropped the records collected before the stop")
	}
	if len(outcome.Records) >= len(names) {
		t.Fatalf("collected %d records, expected the walk to stop before all %d", len(outcome.Records), len(names))
	}
	if outcome.Scan.TotalFiles != len(outcome.Records) {
		t.Fatalf("scan summary counts %d files, outcome carries %d", outcome.Scan.TotalFiles, len(outcome.Records))
	}
	if outcome.Report.Status != reports.StatusFailed {
		t.Fatalf("status = %s, want failed", outcome.Report.Status)
	}
}

func TestRunAdvisorFailureDoesNotFailRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := testsupport.ScanRoot(cfg)
	testsupport.WriteFile(t, filepath.Join(root, "report.txt"), "quarterly numbers")

	adv := &stubAdvisor{err: errors.New("model offline")}
	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(adv),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{Advise: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if adv.calls != 1 {
		t.Fatalf("advisor calls = %d, want 1", adv.calls)
	}
	if outcome.Report.Recommendations != "" {
		t.Fatalf("recommendations = %q, want empty after advisor failure", outcome.Report.Recommendations)
	}
	if outcome.Report.Status != reports.StatusCompleted {
		t.Fatalf("status = %s, want completed", outcome.Report.Status)
	}
}

func TestRunRecordsRecommendations(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	root := testsupport.ScanRoot(cfg)
	testsupport.WriteFile(t, filepath.Join(root, "report.txt"), "quarterly numbers")

	store := testsupport.MustOpenStore(t, cfg)
	p := pipeline.New(cfg, logging.NewNop(),
		pipeline.WithStore(store),
		pipeline.WithNotifier(&stubNotifier{}),
		pipeline.WithAdvisor(&stubAdvisor{text: "Remove 3 duplicate groups.\nArchive stale downloads."}),
	)

	outcome, err := p.Run(context.Background(), pipeline.Request{Advise: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	stored, err := store.Get(context.Background(), outcome.Report.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Recommendations != "Remove 3 duplicate groups.\nArchive stale downloads." {
		t.Fatalf("stored recommendations = %q", stored.Recommendations)
	}
}

func fixedNow() time.Time {
	return time.Date(2026, time.August, 25, 10, 0, 0, 0, time.UTC)
}

// cancelMidScanContext reports cancellation once its budget of Err checks
// is spent, landing the stop in the middle of a directory walk the way an
// interrupt would.
type cancelMidScanContext struct {
	context.Context
	budget int32
}

func (c *cancelMidScanContext) Err() error {
	if atomic.AddInt32(&c.budget, -1) < 0 {
		return context.Canceled
	}
	return c.Context.Err()
}

type stubAdvisor struct {
	text  string
	err   error
	calls int
}

func (s *stubAdvisor) Name() string { return "stub" }

func (s *stubAdvisor) Recommendations(_ context.Context, _ catalog.MergedSummary, _ dedup.Summary) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.text, nil
}

func (s *stubAdvisor) HealthCheck(context.Context) error { return nil }

type stubNotifier struct {
	started     int
	completed   int
	failed      int
	duplicates  int
	lastSummary notifications.RunSummary
}

func (s *stubNotifier) NotifyRunStarted(context.Context, string, int) error {
	s.started++
	return nil
}

func (s *stubNotifier) NotifyRunCompleted(_ context.Context, _ string, summary notifications.RunSummary) error {
	s.completed++
	s.lastSummary = summary
	return nil
}

func (s *stubNotifier) NotifyRunFailed(context.Context, string, error) error {
	s.failed++
	return nil
}

func (s *stubNotifier) NotifyDuplicatesFound(context.Context, int, int, int64) error {
	s.duplicates++
	return nil
}

func (s *stubNotifier) TestNotification(context.Context) error { return nil }

package planner_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"filekeeper/internal/catalog"
	"filekeeper/internal/config"
	"filekeeper/internal/dedup"
	"filekeeper/internal/logging"
	"filekeeper/internal/planner"
)

func newPlanner(t *testing.T, mode string, includeOther bool) *planner.Planner {
	t.Helper()
	cfg := config.Default()
	cfg.Organize.Mode = mode
	cfg.Organize.IncludeOther = includeOther
	return planner.New(&cfg, logging.NewNop())
}

func record(root, name string, category catalog.Category, modified time.Time) catalog.Record {
	return catalog.Record{
		Path:         filepath.Join(root, name),
		Name:         name,
		Size:         10,
		ModifiedTime: modified,
		Category:     category,
	}
}

func TestOrganizeFlatLayout(t *testing.T) {
	root := t.TempDir()
	modified := time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)
	records := []catalog.Record{
		record(root, "notes.pdf", catalog.CategoryDocuments, modified),
		record(root, "photo.jpg", catalog.CategoryImages, modified),
		record(root, "misc.xyz", catalog.CategoryOther, modified),
	}

	plan := newPlanner(t, config.OrganizeModeFlat, false).Organize(root, records)

	if len(plan.Entries) != 2 {
		t.Fatalf("unexpected entry count: %d", len(plan.Entries))
	}
	if got, want := plan.Entries[0].Destination, filepath.Join(root, "Documents", "notes.pdf"); got != want {
		t.Fatalf("unexpected destination: got %q want %q", got, want)
	}
	if got, want := plan.Entries[1].Destination, filepath.Join(root, "Images", "photo.jpg"); got != want {
		t.Fatalf("unexpected destination: got %q want %q", got, want)
	}
	if plan.MoveCount() != 2 || plan.DeleteCount() != 0 {
		t.Fatalf("unexpected counts: moves=%d deletes=%d", plan.MoveCount(), plan.DeleteCount())
	}
}

func TestOrganizeDatedLayout(t *testing.T) {
	root := t.TempDir()
	modified := time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)
	records := []catalog.Record{record(root, "notes.pdf", catalog.CategoryDocuments, modified)}

	plan := newPlanner(t, config.OrganizeModeDated, false).Organize(root, records)

	if len(plan.Entries) != 1 {
		t.Fatalf("unexpected entry count: %d", len(plan.Entries))
	}
	want := filepath.Join(root, "Organized", "Documents", "2026", "04-April", "notes.pdf")
	if got := plan.Entries[0].Destination; got != want {
		t.Fatalf("unexpected destination: got %q want %q", got, want)
	}
}

func TestOrganizeResolvesPlanCollisions(t *testing.T) {
	root := t.TempDir()
	modified := time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)
	records := []catalog.Record{
		{Path: filepath.Join(root, "a", "report.pdf"), Name: "report.pdf", Size: 10, ModifiedTime: modified, Category: catalog.CategoryDocuments},
		{Path: filepath.Join(root, "b", "report.pdf"), Name: "report.pdf", Size: 10, ModifiedTime: modified, Category: catalog.CategoryDocuments},
	}

	plan := newPlanner(t, config.OrganizeModeFlat, false).Organize(root, records)

	if len(plan.Entries) != 2 {
		t.Fatalf("unexpected entry count: %d", len(plan.Entries))
	}
	first, second := plan.Entries[0].Destination, plan.Entries[1].Destination
	if first == second {
		t.Fatalf("destinations collide: %q", first)
	}
	if want := filepath.Join(root, "Documents", "report.pdf"); first != want {
		t.Fatalf("unexpected first destination: got %q want %q", first, want)
	}
	if want := filepath.Join(root, "Documents", "report_1.pdf"); second != want {
		t.Fatalf("unexpected second destination: got %q want %q", second, want)
	}
}

func TestOrganizeResolvesDiskCollisions(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Documents"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "Documents", "report.pdf"), []byte("existing"), 0o644); err != nil {
		t.Fatal(err)
	}

	modified := time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)
	records := []catalog.Record{
		{Path: filepath.Join(root, "inbox", "report.pdf"), Name: "report.pdf", Size: 10, ModifiedTime: modified, Category: catalog.CategoryDocuments},
	}

	plan := newPlanner(t, config.OrganizeModeFlat, false).Organize(root, records)

	if len(plan.Entries) != 1 {
		t.Fatalf("unexpected entry count: %d", len(plan.Entries))
	}
	if want := filepath.Join(root, "Documents", "report_1.pdf"); plan.Entries[0].Destination != want {
		t.Fatalf("unexpected destination: got %q want %q", plan.Entries[0].Destination, want)
	}
}

func TestOrganizeSkipsRecordAlreadyAtDestination(t *testing.T) {
	root := t.TempDir()
	modified := time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)
	records := []catalog.Record{
		{Path: filepath.Join(root, "Documents", "notes.pdf"), Name: "notes.pdf", Size: 10, ModifiedTime: modified, Category: catalog.CategoryDocuments},
	}

	plan := newPlanner(t, config.OrganizeModeFlat, false).Organize(root, records)
	if !plan.IsEmpty() {
		t.Fatalf("expected empty plan, got %+v", plan.Entries)
	}
}

func TestOrganizeIncludesOtherWhenConfigured(t *testing.T) {
	root := t.TempDir()
	modified := time.Date(2026, time.April, 15, 10, 0, 0, 0, time.UTC)
	records := []catalog.Record{record(root, "misc.xyz", catalog.CategoryOther, modified)}

	plan := newPlanner(t, config.OrganizeModeFlat, true).Organize(root, records)
	if len(plan.Entries) != 1 {
		t.Fatalf("unexpected entry count: %d", len(plan.Entries))
	}
	if want := filepath.Join(root, "Other", "misc.xyz"); plan.Entries[0].Destination != want {
		t.Fatalf("unexpected destination: got %q want %q", plan.Entries[0].Destination, want)
	}
}

func TestArchiveSelectsByAgeOnly(t *testing.T) {
	root := t.TempDir()
	runTimestamp := time.Date(2026, time.August, 25, 2, 0, 0, 0, time.UTC)
	records := []catalog.Record{
		record(root, "stale.pdf", catalog.CategoryDocuments, runTimestamp.AddDate(0, 0, -400)),
		record(root, "fresh.pdf", catalog.CategoryDocuments, runTimestamp.AddDate(0, 0, -300)),
		record(root, "stale.xyz", catalog.CategoryOther, runTimestamp.AddDate(0, 0, -400)),
	}

	plan := newPlanner(t, config.OrganizeModeDated, false).Archive(root, records, 365, runTimestamp)

	if len(plan.Entries) != 2 {
		t.Fatalf("unexpected entry count: %d", len(plan.Entries))
	}
	want := filepath.Join(root, "Archive", "2026-08", "stale.pdf")
	if got := plan.Entries[0].Destination; got != want {
		t.Fatalf("unexpected destination: got %q want %q", got, want)
	}
	for _, entry := range plan.Entries {
		if entry.Source == filepath.Join(root, "fresh.pdf") {
			t.Fatalf("fresh file selected for archival: %+v", entry)
		}
	}
}

func TestArchiveSkipsArchivedRecords(t *testing.T) {
	root := t.TempDir()
	runTimestamp := time.Date(2026, time.August, 25, 2, 0, 0, 0, time.UTC)
	records := []catalog.Record{
		{
			Path:         filepath.Join(root, "Archive", "2025-01", "stale.pdf"),
			Name:         "stale.pdf",
			Size:         10,
			ModifiedTime: runTimestamp.AddDate(0, 0, -400),
			Category:     catalog.CategoryDocuments,
		},
	}

	plan := newPlanner(t, config.OrganizeModeDated, false).Archive(root, records, 365, runTimestamp)
	if !plan.IsEmpty() {
		t.Fatalf("expected archived record left alone, got %+v", plan.Entries)
	}
}

func TestArchiveZeroCutoffPlansNothing(t *testing.T) {
	root := t.TempDir()
	runTimestamp := time.Date(2026, time.August, 25, 2, 0, 0, 0, time.UTC)
	records := []catalog.Record{record(root, "stale.pdf", catalog.CategoryDocuments, runTimestamp.AddDate(0, 0, -400))}

	if plan := newPlanner(t, config.OrganizeModeDated, false).Archive(root, records, 0, runTimestamp); !plan.IsEmpty() {
		t.Fatalf("expected empty plan, got %+v", plan.Entries)
	}
}

func TestDuplicateReviewNaming(t *testing.T) {
	root := t.TempDir()
	reviewDir := filepath.Join(root, "review_duplicates")
	base := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	records := []catalog.Record{
		{Path: filepath.Join(root, "x", "photo.jpg"), Name: "photo.jpg", Size: 10, ModifiedTime: base.Add(2 * time.Hour), ContentHash: "h", Category: catalog.CategoryImages},
		{Path: filepath.Join(root, "y", "photo.jpg"), Name: "photo.jpg", Size: 10, ModifiedTime: base.Add(time.Hour), ContentHash: "h", Category: catalog.CategoryImages},
		{Path: filepath.Join(root, "z", "photo.jpg"), Name: "photo.jpg", Size: 10, ModifiedTime: base, ContentHash: "h", Category: catalog.CategoryImages},
	}

	groups := dedup.GroupDuplicates(records)
	plan := newPlanner(t, config.OrganizeModeDated, false).DuplicateReview(reviewDir, groups)

	if len(plan.Entries) != 2 {
		t.Fatalf("unexpected entry count: %d", len(plan.Entries))
	}
	if want := filepath.Join(reviewDir, "photo_duplicate_1.jpg"); plan.Entries[0].Destination != want {
		t.Fatalf("unexpected destination: got %q want %q", plan.Entries[0].Destination, want)
	}
	if want := filepath.Join(reviewDir, "photo_duplicate_2.jpg"); plan.Entries[1].Destination != want {
		t.Fatalf("unexpected destination: got %q want %q", plan.Entries[1].Destination, want)
	}
	for _, entry := range plan.Entries {
		if entry.Source == filepath.Join(root, "x", "photo.jpg") {
			t.Fatalf("keeper scheduled for review move: %+v", entry)
		}
	}
}

func TestDuplicateRemovalHonorsThreshold(t *testing.T) {
	base := time.Date(2026, time.April, 1, 9, 0, 0, 0, time.UTC)
	records := []catalog.Record{
		{Path: "/r/big1", Name: "big1", Size: 4096, ModifiedTime: base.Add(time.Hour), ContentHash: "big", Category: catalog.CategoryVideos},
		{Path: "/r/big2", Name: "big2", Size: 4096, ModifiedTime: base, ContentHash: "big", Category: catalog.CategoryVideos},
		{Path: "/r/small1", Name: "small1", Size: 16, ModifiedTime: base.Add(time.Hour), ContentHash: "small", Category: catalog.CategoryDocuments},
		{Path: "/r/small2", Name: "small2", Size: 16, ModifiedTime: base, ContentHash: "small", Category: catalog.CategoryDocuments},
	}

	groups := dedup.GroupDuplicates(records)
	plan := newPlanner(t, config.OrganizeModeDated, false).DuplicateRemoval(groups, 1024)

	if len(plan.Entries) != 1 {
		t.Fatalf("unexpected entry count: %d", len(plan.Entries))
	}
	entry := plan.Entries[0]
	if entry.Kind != planner.EntryDelete || entry.Source != "/r/big2" || entry.Destination != "" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if plan.TotalBytes() != 4096 {
		t.Fatalf("unexpected total bytes: %d", plan.TotalBytes())
	}
}

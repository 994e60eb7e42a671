package mover_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"filekeeper/internal/logging"
	"filekeeper/internal/mover"
	"filekeeper/internal/planner"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExecuteMovesIntoCreatedTree(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "inbox", "notes.pdf")
	dest := filepath.Join(dir, "Organized", "Documents", "2026", "04-April", "notes.pdf")
	writeFile(t, source, "payload")

	plan := planner.Plan{Entries: []planner.Entry{
		{Kind: planner.EntryMove, Source: source, Destination: dest, Size: 7},
	}}

	result, err := mover.New(logging.NewNop()).Execute(context.Background(), plan)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Succeeded != 1 || result.FailedCount() != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.BytesMoved != 7 {
		t.Fatalf("unexpected bytes moved: %d", result.BytesMoved)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if string(got) != "payload" {
		t.Fatalf("unexpected destination content: %q", got)
	}
	if _, err := os.Lstat(source); !os.IsNotExist(err) {
		t.Fatalf("source still present: %v", err)
	}
}

func TestExecuteIsolatesEntryFailures(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.txt")
	writeFile(t, present, "here")

	plan := planner.Plan{Entries: []planner.Entry{
		{Kind: planner.EntryMove, Source: filepath.Join(dir, "vanished.txt"), Destination: filepath.Join(dir, "out", "vanished.txt"), Size: 1},
		{Kind: planner.EntryMove, Source: present, Destination: filepath.Join(dir, "out", "present.txt"), Size: 4},
	}}

	result, err := mover.New(logging.NewNop()).Execute(context.Background(), plan)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Succeeded != 1 {
		t.Fatalf("unexpected success count: %d", result.Succeeded)
	}
	if result.FailedCount() != 1 {
		t.Fatalf("unexpected failure count: %d", result.FailedCount())
	}
	failure := result.Failures[0]
	if failure.Path != filepath.Join(dir, "vanished.txt") || failure.Cause == "" {
		t.Fatalf("unexpected failure: %+v", failure)
	}
	if _, err := os.Stat(filepath.Join(dir, "out", "present.txt")); err != nil {
		t.Fatalf("later entry not executed: %v", err)
	}
}

func TestExecuteRefusesOccupiedDestination(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.txt")
	dest := filepath.Join(dir, "out", "a.txt")
	writeFile(t, source, "incoming")
	writeFile(t, dest, "already here")

	plan := planner.Plan{Entries: []planner.Entry{
		{Kind: planner.EntryMove, Source: source, Destination: dest, Size: 8},
	}}

	result, err := mover.New(logging.NewNop()).Execute(context.Background(), plan)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Succeeded != 0 || result.FailedCount() != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "already here" {
		t.Fatalf("destination overwritten: %q", got)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("source should remain after refused move: %v", err)
	}
}

func TestExecuteDeleteMeasuresBeforeRemoval(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "dup.bin")
	writeFile(t, target, "12345")

	// Planned size is stale on purpose; the freed bytes must come from a
	// fresh measurement.
	plan := planner.Plan{Entries: []planner.Entry{
		{Kind: planner.EntryDelete, Source: target, Size: 999},
	}}

	result, err := mover.New(logging.NewNop()).Execute(context.Background(), plan)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Succeeded != 1 || result.BytesFreed != 5 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if _, err := os.Lstat(target); !os.IsNotExist(err) {
		t.Fatalf("target still present: %v", err)
	}
}

func TestExecuteDeleteMissingFileFails(t *testing.T) {
	dir := t.TempDir()
	plan := planner.Plan{Entries: []planner.Entry{
		{Kind: planner.EntryDelete, Source: filepath.Join(dir, "gone.bin"), Size: 10},
	}}

	result, err := mover.New(logging.NewNop()).Execute(context.Background(), plan)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if result.Succeeded != 0 || result.FailedCount() != 1 || result.BytesFreed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestExecuteStopsOnCancelledContext(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "a.txt")
	writeFile(t, source, "data")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := planner.Plan{Entries: []planner.Entry{
		{Kind: planner.EntryMove, Source: source, Destination: filepath.Join(dir, "out", "a.txt"), Size: 4},
	}}

	result, err := mover.New(logging.NewNop()).Execute(ctx, plan)
	if err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Succeeded != 0 || result.FailedCount() != 0 {
		t.Fatalf("unexpected partial result: %+v", result)
	}
	if _, err := os.Stat(source); err != nil {
		t.Fatalf("source should be untouched: %v", err)
	}
}

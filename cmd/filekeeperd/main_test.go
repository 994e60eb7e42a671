package main

import (
	"context"
	"testing"

	"filekeeper/internal/logging"
	"filekeeper/internal/testsupport"
)

func TestBuildDaemon(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Automation.Enabled = true

	d, err := buildDaemon(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("buildDaemon: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !d.Status().Running {
		t.Fatal("expected running daemon")
	}
	d.Stop()
}

func TestBuildDaemonRejectsBadScheduleClock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Automation.Enabled = true
	cfg.Automation.DailyTime = "99:99"

	if _, err := buildDaemon(cfg, logging.NewNop()); err == nil {
		t.Fatal("expected error for invalid daily time")
	}
}

package daemon_test

import (
	"context"
	"testing"

	"filekeeper/internal/automation"
	"filekeeper/internal/daemon"
	"filekeeper/internal/logging"
	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
	"filekeeper/internal/testsupport"
)

func newDaemon(t *testing.T) *daemon.Daemon {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Automation.Enabled = true

	store, err := reports.Open(cfg)
	if err != nil {
		t.Fatalf("reports.Open: %v", err)
	}

	logger := logging.NewNop()
	pipe := pipeline.New(cfg, logger, pipeline.WithStore(store))
	mgr, err := automation.NewManager(cfg, pipe, logger)
	if err != nil {
		t.Fatalf("automation.NewManager: %v", err)
	}

	d, err := daemon.New(cfg, store, logger, mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})
	return d
}

func TestDaemonStartStop(t *testing.T) {
	d := newDaemon(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	status := d.Status()
	if !status.Running {
		t.Fatal("expected daemon to report running")
	}
	if !status.Automation.Running {
		t.Fatal("expected automation to report running")
	}

	// Second start should fail
	if err := d.Start(ctx); err == nil {
		t.Fatal("expected second start to fail")
	}

	d.Stop()
	status = d.Status()
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
	if status.Automation.Running {
		t.Fatal("expected automation to be stopped")
	}
}

func TestDaemonRestartAfterStop(t *testing.T) {
	d := newDaemon(t)

	ctx := context.Background()
	if err := d.Start(ctx); err != nil {
		t.Fatalf("first start: %v", err)
	}
	d.Stop()

	if err := d.Start(ctx); err != nil {
		t.Fatalf("restart after stop: %v", err)
	}
	d.Stop()
}

func TestDaemonRejectsDisabledAutomation(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	store, err := reports.Open(cfg)
	if err != nil {
		t.Fatalf("reports.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	logger := logging.NewNop()
	pipe := pipeline.New(cfg, logger, pipeline.WithStore(store))
	mgr, err := automation.NewManager(cfg, pipe, logger)
	if err != nil {
		t.Fatalf("automation.NewManager: %v", err)
	}
	d, err := daemon.New(cfg, store, logger, mgr)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}

	if err := d.Start(context.Background()); err == nil {
		d.Stop()
		t.Fatal("expected start to fail with automation disabled")
	}

	if d.Status().Running {
		t.Fatal("expected daemon to remain stopped after failed start")
	}
}

func TestDaemonLockBlocksSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Automation.Enabled = true
	logger := logging.NewNop()

	build := func() *daemon.Daemon {
		store, err := reports.Open(cfg)
		if err != nil {
			t.Fatalf("reports.Open: %v", err)
		}
		pipe := pipeline.New(cfg, logger, pipeline.WithStore(store))
		mgr, err := automation.NewManager(cfg, pipe, logger)
		if err != nil {
			t.Fatalf("automation.NewManager: %v", err)
		}
		d, err := daemon.New(cfg, store, logger, mgr)
		if err != nil {
			t.Fatalf("daemon.New: %v", err)
		}
		t.Cleanup(func() { d.Close() })
		return d
	}

	first := build()
	second := build()

	ctx := context.Background()
	if err := first.Start(ctx); err != nil {
		t.Fatalf("first instance start: %v", err)
	}
	if err := second.Start(ctx); err == nil {
		t.Fatal("expected second instance to fail while lock is held")
	}

	first.Stop()
	if err := second.Start(ctx); err != nil {
		t.Fatalf("second instance after lock release: %v", err)
	}
	second.Stop()
}

func TestDaemonNewRequiresDependencies(t *testing.T) {
	if _, err := daemon.New(nil, nil, nil, nil); err == nil {
		t.Fatal("expected error for missing dependencies")
	}
}

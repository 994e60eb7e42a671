package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/gofrs/flock"

	"filekeeper/internal/automation"
	"filekeeper/internal/config"
	"filekeeper/internal/logging"
	"filekeeper/internal/preflight"
	"filekeeper/internal/reports"
)

// Daemon coordinates the automation manager and enforces single-instance
// execution through a filesystem lock.
type Daemon struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *reports.Store
	automation *automation.Manager

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Automation   automation.Status
	ReportDBPath string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *reports.Store, logger *slog.Logger, mgr *automation.Manager) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || mgr == nil {
		return nil, errors.New("daemon requires config, store, logger, and automation manager")
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:        cfg,
		logger:     logging.NewComponentLogger(logger, "daemon"),
		store:      store,
		automation: mgr,
		lockPath:   lockPath,
		lock:       flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, runs preflight checks, and launches the
// automation manager. It fails without side effects when another instance
// holds the lock or any preflight check fails.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another filekeeper instance is holding the run lock")
	}

	if err := d.preflight(ctx); err != nil {
		_ = d.lock.Unlock()
		return err
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	if err := d.automation.Start(d.ctx); err != nil {
		_ = d.lock.Unlock()
		d.cancel()
		d.ctx = nil
		d.cancel = nil
		return fmt.Errorf("start automation: %w", err)
	}

	d.running.Store(true)
	d.logger.Info("filekeeper daemon started", logging.String("lock", d.lockPath))
	return nil
}

// preflight runs all readiness checks and reports how many failed.
func (d *Daemon) preflight(ctx context.Context) error {
	results := preflight.RunAll(ctx, d.cfg)
	failed := 0
	for _, result := range results {
		if result.Passed {
			d.logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		failed++
		d.logger.Error("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail))
	}
	if failed > 0 {
		return fmt.Errorf("preflight: %d of %d checks failed", failed, len(results))
	}
	return nil
}

// Stop halts the automation manager and releases the instance lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.automation.Stop()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("filekeeper daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Automation:   d.automation.Status(),
		ReportDBPath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
	}
}

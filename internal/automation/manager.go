package automation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"filekeeper/internal/config"
	"filekeeper/internal/logging"
	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
)

// Runner executes one pipeline pass. *pipeline.Pipeline satisfies it; tests
// substitute recorders.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Outcome, error)
}

// Manager drives the scheduled cadences: it polls on an interval, runs
// whichever tasks have come due, and exports each run's report.
type Manager struct {
	cfg          *config.Config
	runner       Runner
	schedule     *Schedule
	logger       *slog.Logger
	pollInterval time.Duration
	exportDir    string
	now          func() time.Time

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	next    map[TaskKind]time.Time
	lastRun map[TaskKind]time.Time
	lastErr error
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithClock fixes the manager's notion of now for deterministic scheduling.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.now = now
	}
}

// WithPollInterval overrides the configured poll cadence.
func WithPollInterval(interval time.Duration) ManagerOption {
	return func(m *Manager) {
		m.pollInterval = interval
	}
}

// NewManager constructs the scheduler around a pipeline runner.
func NewManager(cfg *config.Config, runner Runner, logger *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	schedule, err := NewSchedule(cfg)
	if err != nil {
		return nil, err
	}
	m := &Manager{
		cfg:          cfg,
		runner:       runner,
		schedule:     schedule,
		logger:       logging.NewComponentLogger(logger, "automation"),
		pollInterval: time.Duration(cfg.Automation.PollIntervalSeconds) * time.Second,
		exportDir:    cfg.ReportsDir(),
		now:          time.Now,
		next:         make(map[TaskKind]time.Time),
		lastRun:      make(map[TaskKind]time.Time),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.pollInterval <= 0 {
		m.pollInterval = 30 * time.Second
	}
	return m, nil
}

// Start begins background scheduling.
func (m *Manager) Start(ctx context.Context) error {
	if !m.cfg.Automation.Enabled {
		return errors.New("automation disabled in config")
	}

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("automation already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	now := m.now()
	for _, kind := range TaskKinds() {
		m.next[kind] = m.schedule.Next(kind, now)
	}
	m.wg.Add(1)
	m.mu.Unlock()

	m.logger.Info("automation started",
		logging.Duration("poll_interval", m.pollInterval),
		logging.Time("next_daily", m.nextFor(TaskDaily)),
		logging.Time("next_weekly", m.nextFor(TaskWeekly)),
		logging.Time("next_monthly", m.nextFor(TaskMonthly)))

	go m.loop(runCtx)
	return nil
}

// Stop terminates background scheduling and waits for any in-flight task.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.logger.Info("automation stopped")
}

// Status reports scheduler state for status surfaces.
type Status struct {
	Running bool
	Next    map[TaskKind]time.Time
	LastRun map[TaskKind]time.Time
	LastErr string
}

// Status returns a snapshot of the scheduler state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	status := Status{
		Running: m.running,
		Next:    make(map[TaskKind]time.Time, len(m.next)),
		LastRun: make(map[TaskKind]time.Time, len(m.lastRun)),
	}
	for kind, at := range m.next {
		status.Next[kind] = at
	}
	for kind, at := range m.lastRun {
		status.LastRun[kind] = at
	}
	if m.lastErr != nil {
		status.LastErr = m.lastErr.Error()
	}
	return status
}

func (m *Manager) loop(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.pollInterval):
		}
		m.runDue(ctx)
	}
}

// runDue executes every task whose next time has passed, in cadence order.
// Next times advance from the post-run clock so a long task never fires
// twice for one slot.
func (m *Manager) runDue(ctx context.Context) {
	for _, kind := range TaskKinds() {
		if ctx.Err() != nil {
			return
		}
		due := m.nextFor(kind)
		now := m.now()
		if due.IsZero() || now.Before(due) {
			continue
		}

		m.runTask(ctx, kind)

		m.mu.Lock()
		m.lastRun[kind] = now
		m.next[kind] = m.schedule.Next(kind, m.now())
		m.mu.Unlock()
	}
}

func (m *Manager) runTask(ctx context.Context, kind TaskKind) {
	logger := m.logger.With(logging.String(logging.FieldTrigger, string(kind)))
	logger.Info("scheduled task starting")

	outcome, err := m.runner.Run(ctx, m.requestFor(kind))
	if err != nil {
		m.setLastError(err)
		logger.Error("scheduled task failed", logging.Error(err))
		return
	}

	if outcome == nil || outcome.Report == nil {
		return
	}
	path, err := reports.ExportJSON(outcome.Report, m.exportDir)
	if err != nil {
		logger.Warn("report export failed", logging.Error(err))
		path = ""
	}
	logger.Info("scheduled task complete",
		logging.Int("scanned", outcome.Report.FilesScanned),
		logging.Int("organized", outcome.Report.FilesOrganized),
		logging.Int("archived", outcome.Report.FilesArchived),
		logging.Int("duplicates", outcome.Report.DuplicatesHandled),
		logging.String("report", path))
}

func (m *Manager) nextFor(kind TaskKind) time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.next[kind]
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}

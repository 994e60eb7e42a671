package pipeline

import (
	"context"
	"log/slog"
	"time"

	"filekeeper/internal/advisor"
	"filekeeper/internal/config"
	"filekeeper/internal/logging"
	"filekeeper/internal/mover"
	"filekeeper/internal/notifications"
	"filekeeper/internal/planner"
	"filekeeper/internal/reports"
	"filekeeper/internal/scanner"
)

// Pipeline coordinates one end-to-end pass over the configured scan roots.
// It owns no goroutines; callers decide when and how often runs happen.
type Pipeline struct {
	cfg      *config.Config
	logger   *slog.Logger
	scanner  *scanner.Scanner
	planner  *planner.Planner
	mover    *mover.Mover
	store    *reports.Store
	notifier notifications.Service
	advisor  advisor.Advisor
	now      func() time.Time
}

// Option customizes a Pipeline at construction time.
type Option func(*Pipeline)

// WithStore attaches a report store; runs are persisted when one is present.
func WithStore(store *reports.Store) Option {
	return func(p *Pipeline) {
		p.store = store
	}
}

// WithNotifier overrides the notification service built from config.
func WithNotifier(notifier notifications.Service) Option {
	return func(p *Pipeline) {
		p.notifier = notifier
	}
}

// WithAdvisor overrides the advisor built from config.
func WithAdvisor(adv advisor.Advisor) Option {
	return func(p *Pipeline) {
		p.advisor = adv
	}
}

// WithClock fixes the pipeline's notion of now. Tests use this to make
// archival cutoffs and report timestamps deterministic.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New builds a pipeline from configuration. Without options the pipeline
// runs unpersisted, notifies per the config's ntfy settings, and selects
// the advisor the same way `filekeeper advise` does.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "pipeline"),
		scanner: scanner.New(cfg, logger),
		planner: planner.New(cfg, logger),
		mover:   mover.New(logger),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.notifier == nil {
		p.notifier = notifications.NewService(cfg)
	}
	if p.advisor == nil {
		p.advisor = advisor.New(cfg, logger)
	}
	return p
}

// notify delivers a best-effort notification, logging failures instead of
// propagating them.
func (p *Pipeline) notify(logger *slog.Logger, event string, send func() error) {
	if err := send(); err != nil {
		logger.Warn("notification failed",
			logging.String("event", event),
			logging.Error(err))
	}
}

// finish stamps the terminal status on the report and persists it. The
// store write uses a detached context so canceled runs still record their
// failure.
func (p *Pipeline) finish(ctx context.Context, logger *slog.Logger, report *reports.RunReport, persist bool) {
	finished := p.now()
	report.FinishedAt = &finished
	if report.ErrorMessage != "" {
		report.Status = reports.StatusFailed
	} else {
		report.Status = reports.StatusCompleted
	}
	if !persist {
		return
	}
	if err := p.store.Finish(context.WithoutCancel(ctx), report); err != nil {
		logger.Warn("report finish failed", logging.Error(err))
	}
}

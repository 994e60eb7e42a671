package main

import (
	"fmt"
	"log/slog"

	"filekeeper/internal/automation"
	"filekeeper/internal/config"
	"filekeeper/internal/daemon"
	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
)

// buildDaemon wires the report store, pipeline, and automation manager into
// a daemon. The daemon owns the store handle and closes it on Close.
func buildDaemon(cfg *config.Config, logger *slog.Logger) (*daemon.Daemon, error) {
	store, err := reports.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}

	pipe := pipeline.New(cfg, logger, pipeline.WithStore(store))
	mgr, err := automation.NewManager(cfg, pipe, logger)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("configure automation: %w", err)
	}

	d, err := daemon.New(cfg, store, logger, mgr)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return d, nil
}

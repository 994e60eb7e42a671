package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"filekeeper/internal/config"
	"filekeeper/internal/logging"
	"filekeeper/internal/pipeline"
	"filekeeper/internal/reports"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// runLogger returns a logger writing to the configured log file only, so
// pipeline activity is recorded without interleaving into command output.
func (c *commandContext) runLogger() *slog.Logger {
	cfg := c.configValue()
	if cfg == nil || strings.TrimSpace(cfg.Paths.LogDir) == "" {
		return logging.NewNop()
	}
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{filepath.Join(cfg.Paths.LogDir, "filekeeper.log")},
	})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// runPipeline executes one pipeline run with the report store attached when
// it opens. A store failure degrades to an unrecorded run rather than
// blocking the command.
func (c *commandContext) runPipeline(cmd *cobra.Command, req pipeline.Request) (*pipeline.Outcome, error) {
	cfg := c.configValue()
	logger := c.runLogger()

	if req.Apply {
		lock, err := acquireRunLock(cfg)
		if err != nil {
			return nil, err
		}
		defer func() { _ = lock.Unlock() }()
	}

	var opts []pipeline.Option
	store, err := reports.Open(cfg)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: report store unavailable: %v\n", err)
	} else {
		defer store.Close()
		opts = append(opts, pipeline.WithStore(store))
	}

	pipe := pipeline.New(cfg, logger, opts...)
	return pipe.Run(cmd.Context(), req)
}

// acquireRunLock takes the shared instance lock before a mutating run.
// The daemon holds the same lock for its lifetime, so a CLI --apply run
// never interleaves with a scheduled run against the same configuration.
func acquireRunLock(cfg *config.Config) (*flock.Flock, error) {
	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another filekeeper run is in progress (lock file %s)", cfg.LockPath())
	}
	return lock, nil
}

// openStore opens the report store for commands that read stored reports.
func (c *commandContext) openStore() (*reports.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := reports.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open report store: %w", err)
	}
	return store, nil
}

// resolveRoots expands explicit root arguments, falling back to the
// configured scan roots when none are given.
func resolveRoots(args []string) ([]string, error) {
	if len(args) == 0 {
		return nil, nil
	}
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		expanded, err := config.ExpandPath(strings.TrimSpace(arg))
		if err != nil {
			return nil, fmt.Errorf("resolve root %q: %w", arg, err)
		}
		roots = append(roots, expanded)
	}
	return roots, nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

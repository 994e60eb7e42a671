package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"filekeeper/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// One scan root is created under the temp base; automation and the advisor
// start disabled so tests opt in explicitly.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "files")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir scan root: %v", err)
	}

	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Scan.Roots = []string{root}
	cfgVal.Scan.HashWorkers = 2
	cfgVal.Automation.Enabled = false
	cfgVal.Advisor.Enabled = false
	cfgVal.Advisor.APIKey = ""
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithRoots replaces the scan roots on the test config, creating each root.
func WithRoots(roots ...string) ConfigOption {
	return func(b *configBuilder) {
		for _, root := range roots {
			if err := os.MkdirAll(root, 0o755); err != nil {
				b.t.Fatalf("mkdir root %s: %v", root, err)
			}
		}
		b.cfg.Scan.Roots = roots
	}
}

// WithOrganizeMode sets the organization layout on the test config.
func WithOrganizeMode(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Organize.Mode = mode
	}
}

// WithMaxFiles caps traversal on the test config.
func WithMaxFiles(limit int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Scan.MaxFiles = limit
	}
}

// WithAdvisorKey enables the LLM advisor with the given key.
func WithAdvisorKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Advisor.Enabled = true
		b.cfg.Advisor.APIKey = key
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}

// ScanRoot returns the first scan root of the generated config.
func ScanRoot(cfg *config.Config) string {
	if len(cfg.Scan.Roots) == 0 {
		return ""
	}
	return cfg.Scan.Roots[0]
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Organization plan modes accepted by organize.mode.
const (
	OrganizeModeFlat  = "flat"
	OrganizeModeDated = "dated"
)

// Paths contains directory configuration shared by the CLI and daemon.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Scan contains directory traversal and fingerprinting settings.
type Scan struct {
	Roots             []string `toml:"roots"`
	MaxFiles          int      `toml:"max_files"`
	ExcludedDirs      []string `toml:"excluded_dirs"`
	HashWorkers       int      `toml:"hash_workers"`
	PreviewExtensions []string `toml:"preview_extensions"`
	PreviewMaxChars   int      `toml:"preview_max_chars"`
}

// Organize contains organization planning settings.
type Organize struct {
	Mode         string `toml:"mode"`
	IncludeOther bool   `toml:"include_other"`
}

// Archive contains old-file archival settings.
type Archive struct {
	OldFileThresholdDays int `toml:"old_file_threshold_days"`
}

// Duplicates contains duplicate detection and review settings.
type Duplicates struct {
	SizeThresholdMB int    `toml:"size_threshold_mb"`
	ReviewDirName   string `toml:"review_dir_name"`
}

// Automation contains scheduled run cadence and per-trigger scan caps.
type Automation struct {
	Enabled             bool   `toml:"enabled"`
	DailyTime           string `toml:"daily_time"`
	WeeklyDay           string `toml:"weekly_day"`
	WeeklyTime          string `toml:"weekly_time"`
	MonthlyDay          int    `toml:"monthly_day"`
	MonthlyTime         string `toml:"monthly_time"`
	MaxFilesDaily       int    `toml:"max_files_daily"`
	MaxFilesWeekly      int    `toml:"max_files_weekly"`
	MaxFilesMonthly     int    `toml:"max_files_monthly"`
	PollIntervalSeconds int    `toml:"poll_interval"`
}

// Advisor contains LLM connection settings for the recommendation layer.
type Advisor struct {
	Enabled        bool   `toml:"enabled"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	RunStarted     bool   `toml:"run_started"`
	RunCompleted   bool   `toml:"run_completed"`
	Duplicates     bool   `toml:"duplicates"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for filekeeper.
//
// Configuration sections by subsystem:
//   - Paths: data and log directories
//   - Scan: roots, exclusions, caps, fingerprint workers, previews
//   - Organize: plan mode and Other-category handling
//   - Archive: old-file threshold
//   - Duplicates: removal threshold and review directory
//   - Automation: daily/weekly/monthly cadence and caps
//   - Advisor: LLM connection settings for recommendations
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
type Config struct {
	Paths         Paths         `toml:"paths"`
	Scan          Scan          `toml:"scan"`
	Organize      Organize      `toml:"organize"`
	Archive       Archive       `toml:"archive"`
	Duplicates    Duplicates    `toml:"duplicates"`
	Automation    Automation    `toml:"automation"`
	Advisor       Advisor       `toml:"advisor"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/filekeeper/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("filekeeper.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates required directories for operation.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.ReviewDir()} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the report store location under the data directory.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, "filekeeper.db")
}

// LockPath returns the run lock location. The daemon and the CLI's mutating
// runs contend on this one lock so overlapping executions against the same
// configuration cannot start.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "filekeeper.lock")
}

// ReportsDir returns the directory receiving exported run report JSON files.
func (c *Config) ReportsDir() string {
	return filepath.Join(c.Paths.DataDir, "reports")
}

// ReviewDir returns the quarantine directory receiving duplicate removal
// candidates during automation runs.
func (c *Config) ReviewDir() string {
	name := strings.TrimSpace(c.Duplicates.ReviewDirName)
	if name == "" {
		name = defaultReviewDirName
	}
	return filepath.Join(c.Paths.DataDir, name)
}

// DuplicateSizeThresholdBytes converts the configured megabyte threshold.
func (c *Config) DuplicateSizeThresholdBytes() int64 {
	if c.Duplicates.SizeThresholdMB <= 0 {
		return 0
	}
	return int64(c.Duplicates.SizeThresholdMB) * 1024 * 1024
}

// LLMConfig contains connection settings for the advisor's LLM backend.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// AdvisorLLM returns sanitized advisor connection settings.
func (c *Config) AdvisorLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.Advisor.APIKey),
		BaseURL:        strings.TrimSpace(c.Advisor.BaseURL),
		Model:          strings.TrimSpace(c.Advisor.Model),
		TimeoutSeconds: c.Advisor.TimeoutSeconds,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

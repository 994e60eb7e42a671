package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeScan(); err != nil {
		return err
	}
	c.normalizeOrganize()
	c.normalizeDuplicates()
	c.normalizeAutomation()
	c.normalizeAdvisor()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeScan() error {
	roots := make([]string, 0, len(c.Scan.Roots))
	seen := make(map[string]struct{}, len(c.Scan.Roots))
	for _, root := range c.Scan.Roots {
		trimmed := strings.TrimSpace(root)
		if trimmed == "" {
			continue
		}
		expanded, err := expandPath(trimmed)
		if err != nil {
			return fmt.Errorf("scan.roots: %w", err)
		}
		if _, ok := seen[expanded]; ok {
			continue
		}
		seen[expanded] = struct{}{}
		roots = append(roots, expanded)
	}
	c.Scan.Roots = roots

	if c.Scan.MaxFiles == 0 {
		c.Scan.MaxFiles = defaultMaxFiles
	}
	if c.Scan.HashWorkers == 0 {
		c.Scan.HashWorkers = defaultHashWorkers
	}
	if c.Scan.PreviewMaxChars == 0 {
		c.Scan.PreviewMaxChars = defaultPreviewMaxChars
	}

	c.Scan.ExcludedDirs = normalizeNameList(c.Scan.ExcludedDirs, false)
	c.Scan.PreviewExtensions = normalizeNameList(c.Scan.PreviewExtensions, true)
	return nil
}

func (c *Config) normalizeOrganize() {
	c.Organize.Mode = strings.ToLower(strings.TrimSpace(c.Organize.Mode))
	if c.Organize.Mode == "" {
		c.Organize.Mode = defaultOrganizeMode
	}
}

func (c *Config) normalizeDuplicates() {
	c.Duplicates.ReviewDirName = strings.TrimSpace(c.Duplicates.ReviewDirName)
	if c.Duplicates.ReviewDirName == "" {
		c.Duplicates.ReviewDirName = defaultReviewDirName
	}
}

func (c *Config) normalizeAutomation() {
	c.Automation.DailyTime = strings.TrimSpace(c.Automation.DailyTime)
	if c.Automation.DailyTime == "" {
		c.Automation.DailyTime = defaultDailyTime
	}
	c.Automation.WeeklyDay = strings.ToLower(strings.TrimSpace(c.Automation.WeeklyDay))
	if c.Automation.WeeklyDay == "" {
		c.Automation.WeeklyDay = defaultWeeklyDay
	}
	c.Automation.WeeklyTime = strings.TrimSpace(c.Automation.WeeklyTime)
	if c.Automation.WeeklyTime == "" {
		c.Automation.WeeklyTime = defaultWeeklyTime
	}
	if c.Automation.MonthlyDay == 0 {
		c.Automation.MonthlyDay = defaultMonthlyDay
	}
	c.Automation.MonthlyTime = strings.TrimSpace(c.Automation.MonthlyTime)
	if c.Automation.MonthlyTime == "" {
		c.Automation.MonthlyTime = defaultMonthlyTime
	}
	if c.Automation.MaxFilesDaily == 0 {
		c.Automation.MaxFilesDaily = defaultMaxFilesDaily
	}
	if c.Automation.MaxFilesWeekly == 0 {
		c.Automation.MaxFilesWeekly = defaultMaxFilesWeekly
	}
	if c.Automation.MaxFilesMonthly == 0 {
		c.Automation.MaxFilesMonthly = defaultMaxFilesMonthly
	}
	if c.Automation.PollIntervalSeconds == 0 {
		c.Automation.PollIntervalSeconds = defaultPollIntervalSeconds
	}
}

func (c *Config) normalizeAdvisor() {
	if c.Advisor.APIKey == "" {
		if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.Advisor.APIKey = strings.TrimSpace(value)
		}
	}
	c.Advisor.APIKey = strings.TrimSpace(c.Advisor.APIKey)
	c.Advisor.BaseURL = strings.TrimSpace(c.Advisor.BaseURL)
	if c.Advisor.BaseURL == "" {
		c.Advisor.BaseURL = defaultAdvisorBaseURL
	}
	c.Advisor.Model = strings.TrimSpace(c.Advisor.Model)
	if c.Advisor.Model == "" {
		c.Advisor.Model = defaultAdvisorModel
	}
	if c.Advisor.TimeoutSeconds == 0 {
		c.Advisor.TimeoutSeconds = defaultAdvisorTimeout
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout == 0 {
		c.Notifications.RequestTimeout = defaultNotifyTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// normalizeNameList lowercases, trims, and deduplicates entries. When
// ensureDot is set, entries gain a leading dot so they compare against file
// extensions directly.
func normalizeNameList(values []string, ensureDot bool) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if ensureDot && !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

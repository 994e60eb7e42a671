package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateScan(); err != nil {
		return err
	}
	if err := c.validateOrganize(); err != nil {
		return err
	}
	if err := c.validateArchive(); err != nil {
		return err
	}
	if err := c.validateDuplicates(); err != nil {
		return err
	}
	if err := c.validateAutomation(); err != nil {
		return err
	}
	if err := c.validateAdvisor(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateScan() error {
	if len(c.Scan.Roots) == 0 {
		return errors.New("scan.roots must list at least one directory")
	}
	if c.Scan.MaxFiles <= 0 {
		return errors.New("scan.max_files must be positive")
	}
	if c.Scan.HashWorkers <= 0 {
		return errors.New("scan.hash_workers must be positive")
	}
	if c.Scan.PreviewMaxChars < 0 {
		return errors.New("scan.preview_max_chars must not be negative")
	}
	return nil
}

func (c *Config) validateOrganize() error {
	switch c.Organize.Mode {
	case OrganizeModeFlat, OrganizeModeDated:
		return nil
	default:
		return fmt.Errorf("organize.mode must be %q or %q, got %q", OrganizeModeFlat, OrganizeModeDated, c.Organize.Mode)
	}
}

func (c *Config) validateArchive() error {
	if c.Archive.OldFileThresholdDays <= 0 {
		return errors.New("archive.old_file_threshold_days must be positive")
	}
	return nil
}

func (c *Config) validateDuplicates() error {
	if c.Duplicates.SizeThresholdMB < 0 {
		return errors.New("duplicates.size_threshold_mb must not be negative")
	}
	if strings.ContainsAny(c.Duplicates.ReviewDirName, "/\\") {
		return errors.New("duplicates.review_dir_name must be a bare directory name")
	}
	return nil
}

func (c *Config) validateAutomation() error {
	for field, value := range map[string]string{
		"automation.daily_time":   c.Automation.DailyTime,
		"automation.weekly_time":  c.Automation.WeeklyTime,
		"automation.monthly_time": c.Automation.MonthlyTime,
	} {
		if _, err := ParseClock(value); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	if _, ok := weekdayNames[c.Automation.WeeklyDay]; !ok {
		return fmt.Errorf("automation.weekly_day: unknown weekday %q", c.Automation.WeeklyDay)
	}
	if c.Automation.MonthlyDay < 1 || c.Automation.MonthlyDay > 28 {
		return errors.New("automation.monthly_day must be between 1 and 28")
	}
	for field, value := range map[string]int{
		"automation.max_files_daily":   c.Automation.MaxFilesDaily,
		"automation.max_files_weekly":  c.Automation.MaxFilesWeekly,
		"automation.max_files_monthly": c.Automation.MaxFilesMonthly,
		"automation.poll_interval":     c.Automation.PollIntervalSeconds,
	} {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", field)
		}
	}
	return nil
}

func (c *Config) validateAdvisor() error {
	if !c.Advisor.Enabled {
		return nil
	}
	if c.Advisor.APIKey == "" {
		return errors.New("advisor.api_key must be set when advisor.enabled is true (or export OPENROUTER_API_KEY)")
	}
	if c.Advisor.BaseURL == "" {
		return errors.New("advisor.base_url must be set when advisor.enabled is true")
	}
	if c.Advisor.Model == "" {
		return errors.New("advisor.model must be set when advisor.enabled is true")
	}
	if c.Advisor.TimeoutSeconds <= 0 {
		return errors.New("advisor.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
}

// Clock is a time of day in the local timezone.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" strings used by the automation cadence fields.
func ParseClock(value string) (Clock, error) {
	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return Clock{}, fmt.Errorf("expected HH:MM, got %q", value)
	}
	return Clock{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

// Weekday resolves the configured weekly day name.
func (c *Config) Weekday() time.Weekday {
	if day, ok := weekdayNames[c.Automation.WeeklyDay]; ok {
		return day
	}
	return time.Sunday
}

package config

const (
	defaultDataDir             = "~/.local/share/filekeeper"
	defaultLogDir              = "~/.local/share/filekeeper/logs"
	defaultMaxFiles            = 10000
	defaultHashWorkers         = 4
	defaultPreviewMaxChars     = 500
	defaultOrganizeMode        = OrganizeModeDated
	defaultOldFileDays         = 365
	defaultDuplicateSizeMB     = 1
	defaultReviewDirName       = "review_duplicates"
	defaultDailyTime           = "02:00"
	defaultWeeklyDay           = "sunday"
	defaultWeeklyTime          = "03:00"
	defaultMonthlyDay          = 1
	defaultMonthlyTime         = "04:00"
	defaultMaxFilesDaily       = 1000
	defaultMaxFilesWeekly      = 10000
	defaultMaxFilesMonthly     = 50000
	defaultPollIntervalSeconds = 30
	defaultAdvisorBaseURL      = "https://openrouter.ai/api/v1/chat/completions"
	defaultAdvisorModel        = "google/gemini-3-flash-preview"
	defaultAdvisorTimeout      = 60
	defaultNotifyTimeout       = 10
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

func defaultRoots() []string {
	return []string{"~/Downloads", "~/Documents", "~/Desktop"}
}

func defaultExcludedDirs() []string {
	return []string{".git", ".svn", "__pycache__", "node_modules", ".vscode", "AppData", "System32", "Windows"}
}

func defaultPreviewExtensions() []string {
	return []string{
		".txt", ".md", ".py", ".js", ".html", ".css",
		".json", ".xml", ".csv", ".log", ".yml", ".yaml", ".ini",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Scan: Scan{
			Roots:             defaultRoots(),
			MaxFiles:          defaultMaxFiles,
			ExcludedDirs:      defaultExcludedDirs(),
			HashWorkers:       defaultHashWorkers,
			PreviewExtensions: defaultPreviewExtensions(),
			PreviewMaxChars:   defaultPreviewMaxChars,
		},
		Organize: Organize{
			Mode: defaultOrganizeMode,
		},
		Archive: Archive{
			OldFileThresholdDays: defaultOldFileDays,
		},
		Duplicates: Duplicates{
			SizeThresholdMB: defaultDuplicateSizeMB,
			ReviewDirName:   defaultReviewDirName,
		},
		Automation: Automation{
			Enabled:             true,
			DailyTime:           defaultDailyTime,
			WeeklyDay:           defaultWeeklyDay,
			WeeklyTime:          defaultWeeklyTime,
			MonthlyDay:          defaultMonthlyDay,
			MonthlyTime:         defaultMonthlyTime,
			MaxFilesDaily:       defaultMaxFilesDaily,
			MaxFilesWeekly:      defaultMaxFilesWeekly,
			MaxFilesMonthly:     defaultMaxFilesMonthly,
			PollIntervalSeconds: defaultPollIntervalSeconds,
		},
		Advisor: Advisor{
			BaseURL:        defaultAdvisorBaseURL,
			Model:          defaultAdvisorModel,
			TimeoutSeconds: defaultAdvisorTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyTimeout,
			RunStarted:     true,
			RunCompleted:   true,
			Duplicates:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

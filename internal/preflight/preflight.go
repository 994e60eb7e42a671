package preflight

import (
	"context"

	"filekeeper/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every applicable check for the given config. Checks tied
// to optional features run only when the feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	for _, root := range cfg.Scan.Roots {
		results = append(results, CheckDirectoryAccess("Scan root", root))
	}
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckReportStore(ctx, cfg))

	if cfg.Advisor.Enabled {
		results = append(results, CheckLLM(ctx, "Advisor LLM", cfg.AdvisorLLM()))
	}

	return results
}

// Passed reports whether every check succeeded.
func Passed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}

package advisor

import (
	"context"
	"log/slog"

	"filekeeper/internal/catalog"
	"filekeeper/internal/config"
	"filekeeper/internal/dedup"
	"filekeeper/internal/services/llm"
)

// Advisor produces recommendation text from run summaries.
type Advisor interface {
	// Name identifies the active implementation for status output.
	Name() string
	// Recommendations renders advisory text for the supplied summaries.
	Recommendations(ctx context.Context, scan catalog.MergedSummary, duplicates dedup.Summary) (string, error)
	// HealthCheck verifies the advisor is usable.
	HealthCheck(ctx context.Context) error
}

// New selects an Advisor from configuration. The LLM advisor requires both
// the enabled flag and an API key; anything less falls back to the offline
// rules engine.
func New(cfg *config.Config, logger *slog.Logger) Advisor {
	settings := cfg.AdvisorLLM()
	if cfg.Advisor.Enabled && settings.APIKey != "" {
		client := llm.NewClient(llm.Config{
			APIKey:         settings.APIKey,
			BaseURL:        settings.BaseURL,
			Model:          settings.Model,
			TimeoutSeconds: settings.TimeoutSeconds,
		})
		return NewLLM(client, logger)
	}
	return NewRules()
}

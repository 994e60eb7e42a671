package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"filekeeper/internal/catalog"
	"filekeeper/internal/dedup"
	"filekeeper/internal/logging"
	"filekeeper/internal/services/llm"
)

// LLM asks a chat completion model for recommendations, feeding it the same
// summaries the rules engine sees.
type LLM struct {
	client *llm.Client
	logger *slog.Logger
}

// NewLLM wraps a configured chat completion client.
func NewLLM(client *llm.Client, logger *slog.Logger) *LLM {
	return &LLM{
		client: client,
		logger: logging.NewComponentLogger(logger, "advisor"),
	}
}

// Name identifies the implementation and model for status output.
func (a *LLM) Name() string {
	if model := a.client.Model(); model != "" {
		return "llm (" + model + ")"
	}
	return "llm"
}

// HealthCheck verifies the API key and model respond.
func (a *LLM) HealthCheck(ctx context.Context) error {
	return a.client.HealthCheck(ctx)
}

// advisorInput is the JSON document handed to the model as the user message.
type advisorInput struct {
	Scan       catalog.MergedSummary `json:"scan"`
	Duplicates dedup.Summary         `json:"duplicates"`
}

// Recommendations sends the summaries to the model and renders its
// recommendation list one item per line.
func (a *LLM) Recommendations(ctx context.Context, scan catalog.MergedSummary, duplicates dedup.Summary) (string, error) {
	encoded, err := json.Marshal(advisorInput{Scan: scan, Duplicates: duplicates})
	if err != nil {
		return "", fmt.Errorf("advisor: encode summaries: %w", err)
	}

	content, err := a.client.CompleteJSON(ctx, recommendationPrompt, string(encoded))
	if err != nil {
		return "", fmt.Errorf("advisor: completion: %w", err)
	}

	var parsed struct {
		Recommendations []string `json:"recommendations"`
	}
	if err := llm.DecodeLLMJSON(content, &parsed); err != nil {
		return "", fmt.Errorf("advisor: parse recommendations: %w", err)
	}

	cleaned := make([]string, 0, len(parsed.Recommendations))
	for _, recommendation := range parsed.Recommendations {
		if trimmed := strings.TrimSpace(recommendation); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	if len(cleaned) == 0 {
		return "", errors.New("advisor: model returned no recommendations")
	}
	if len(cleaned) > maxRecommendations {
		cleaned = cleaned[:maxRecommendations]
	}

	a.logger.Debug("llm recommendations received",
		"model", a.client.Model(),
		"count", len(cleaned),
	)
	return strings.Join(cleaned, "\n"), nil
}

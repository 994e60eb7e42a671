package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

const payloadSnippetLimit = 160

// DecodeLLMJSON parses a completion payload into target. Models frequently
// wrap JSON in markdown code fences or prepend prose, so a failed direct
// parse falls back to extracting the first JSON object from the payload.
func DecodeLLMJSON(payload string, target any) error {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return fmt.Errorf("llm response: empty payload")
	}
	if err := json.Unmarshal([]byte(trimmed), target); err == nil {
		return nil
	}
	sanitized := sanitizeJSONPayload(trimmed)
	if sanitized == "" {
		return fmt.Errorf("llm response: no JSON object found in payload %q", summarizePayloadSnippet(trimmed))
	}
	if err := json.Unmarshal([]byte(sanitized), target); err != nil {
		return fmt.Errorf("llm response: decode payload %q: %w", summarizePayloadSnippet(sanitized), err)
	}
	return nil
}

func sanitizeJSONPayload(payload string) string {
	cleaned := stripCodeFenceBlock(payload)
	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return strings.TrimSpace(cleaned[start : end+1])
}

func stripCodeFenceBlock(payload string) string {
	trimmed := strings.TrimSpace(payload)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if newline := strings.Index(trimmed, "\n"); newline != -1 {
		// Drop the language tag on the opening fence line.
		firstLine := strings.TrimSpace(trimmed[:newline])
		if firstLine == "" || !strings.ContainsAny(firstLine, "{}") {
			trimmed = trimmed[newline+1:]
		}
	}
	if idx := strings.LastIndex(trimmed, "```"); idx != -1 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func summarizePayloadSnippet(payload string) string {
	collapsed := strings.Join(strings.Fields(payload), " ")
	if utf8.RuneCountInString(collapsed) <= payloadSnippetLimit {
		return collapsed
	}
	runes := []rune(collapsed)
	return string(runes[:payloadSnippetLimit]) + "…"
}

// Package llm provides an OpenRouter-compatible chat client used by the
// advisory layer.
//
// The client sends system/user prompts with a JSON-only response format and
// returns the raw payload; prompt construction and schema interpretation
// belong to the caller. Requests retry on HTTP 408/429/5xx and network
// timeouts with exponential backoff (base 1s, max 10s, up to 5 attempts),
// honoring Retry-After when the server provides one. Context cancellation
// aborts retries immediately.
//
// DecodeLLMJSON tolerates the usual model formatting quirks: code fences,
// prose around the object, and streaming-schema responses.
package llm

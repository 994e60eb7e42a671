// Package advisor turns scan and duplicate summaries into human-readable
// recommendations for a run report.
//
// Two implementations satisfy the Advisor interface. The rules advisor is a
// deterministic heuristic engine that needs no connectivity: it comments on
// category spread, collection size, large files, stale data, and reclaimable
// duplicate space. The LLM advisor sends the same summaries to an
// OpenAI-compatible chat completion endpoint and expects a structured JSON
// response.
//
// New selects between them from configuration: the LLM advisor is used only
// when the advisor is enabled and an API key is present, otherwise runs fall
// back to the rules engine. Recommendations are advisory text; callers treat
// advisor failures as warnings, never as run failures.
package advisor

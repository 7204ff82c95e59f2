// Package llm provides a minimal client for OpenRouter-compatible chat
// completion APIs. Requests demand JSON-only responses; transient failures
// (rate limits, 5xx, timeouts, empty completions) retry with exponential
// backoff honoring Retry-After.
package llm

package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"
)

// FinishReason indicates why the model stopped generating.
type FinishReason string

const (
	FinishStop          FinishReason = "stop"
	FinishLength        FinishReason = "length"
	FinishContentFilter FinishReason = "content_filter"
)

// Request represents a normalized request across all LLM providers.
// It carries everything adapters need to build provider-specific HTTP
// requests, plus the control fields middleware keys on.
type Request struct {
	// Provider identifies which LLM service to use.
	Provider string `json:"provider"` // "openai"|"gemini"|"stub"

	// Model specifies the exact model version to use.
	Model string `json:"model"`

	// AgentType labels the originating agent for metrics and cache
	// namespacing; it does not affect prompt construction.
	AgentType string `json:"agent_type,omitempty"`

	// Prompt is the user-role content for the call.
	Prompt string `json:"prompt"`

	// SystemPrompt provides instructions to the model.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Generation parameters.
	MaxTokens   int64   `json:"max_tokens"`
	Temperature float64 `json:"temperature"`

	// JSONResponse requests structured JSON output from the provider.
	JSONResponse bool `json:"json_response"`

	// Control fields for resilience and observability.
	Timeout time.Duration `json:"timeout"`
	TraceID string        `json:"trace_id,omitempty"`
}

// CacheKey derives a deterministic key from the fields that affect model
// output. Two requests with the same key are interchangeable, so cached
// responses can be served across jobs.
func (r *Request) CacheKey() string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%.3f|%d|%t|", r.Provider, r.Model, r.Temperature, r.MaxTokens, r.JSONResponse)
	h.Write([]byte(r.SystemPrompt))
	h.Write([]byte{0})
	h.Write([]byte(r.Prompt))
	return hex.EncodeToString(h.Sum(nil))
}

// Response represents normalized output from any LLM provider.
type Response struct {
	// Content is the generated text, JSON when JSONResponse was requested.
	Content string `json:"content"`

	// Provider and Model record which backend actually answered.
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// FinishReason indicates why generation stopped.
	FinishReason FinishReason `json:"finish_reason"`

	// ProviderRequestIDs enables cross-system correlation.
	ProviderRequestIDs []string `json:"provider_request_ids,omitempty"`

	// Usage tracks resource consumption.
	Usage NormalizedUsage `json:"usage"`

	// EstimatedCostMilliCents is attached by the pricing middleware.
	EstimatedCostMilliCents int64 `json:"estimated_cost_milli_cents"`

	// Cached reports whether the response was served from cache.
	Cached bool `json:"cached"`

	// Headers preserves raw response headers for debugging.
	Headers http.Header `json:"-"`

	// RawBody preserves the original response body for audit.
	RawBody []byte `json:"-"`
}

// NormalizedUsage provides consistent usage metrics across providers.
type NormalizedUsage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
	TotalTokens      int64 `json:"total_tokens"`
	LatencyMs        int64 `json:"latency_ms"`
}

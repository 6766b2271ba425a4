// Package pricing estimates per-request LLM spend in milli-cents.
// Rates are registered per provider/model with an expiry, and the
// middleware attaches the estimate to every successful response so cost
// can be aggregated per agent and per job.
package pricing

import (
	"fmt"
	"sync"
	"time"

	"github.com/ahrav/contract-iq/internal/llm/configuration"
	llmerrors "github.com/ahrav/contract-iq/internal/llm/errors"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// Entry holds cost data for one provider/model pair. Rates are expressed
// in milli-cents per 1000 tokens with an expiration timestamp so stale
// pricing can be rejected in fail-closed mode.
type Entry struct {
	Provider          string    `json:"provider"`
	Model             string    `json:"model"`
	PromptCostPer1000 int64     `json:"prompt_cost_per_1000"`
	OutputCostPer1000 int64     `json:"output_cost_per_1000"`
	ValidUntil        time.Time `json:"valid_until"`
}

// Key returns the registry lookup key for this entry.
func (e *Entry) Key() string { return buildKey(e.Provider, e.Model) }

// IsExpired reports whether the pricing data is stale.
func (e *Entry) IsExpired() bool { return time.Now().After(e.ValidUntil) }

// Calculate computes the total cost in milli-cents for the given usage.
func (e *Entry) Calculate(usage transport.NormalizedUsage) int64 {
	promptCost := (usage.PromptTokens * e.PromptCostPer1000) / 1000
	outputCost := (usage.CompletionTokens * e.OutputCostPer1000) / 1000
	return promptCost + outputCost
}

// Registry provides thread-safe cost lookup with optional fail-closed
// behavior when pricing data is missing or expired.
type Registry struct {
	mu          sync.RWMutex
	entries     map[string]*Entry
	lastUpdated time.Time
	failClosed  bool
}

// NewRegistry creates a registry preloaded with rates for the models the
// routing strategies reference. With failClosed set, missing or expired
// pricing turns into a request error instead of a zero estimate.
func NewRegistry(failClosed bool) *Registry {
	r := &Registry{
		entries:    make(map[string]*Entry),
		failClosed: failClosed,
	}
	r.loadDefaults()
	return r
}

// GetCost returns the estimated cost in milli-cents for the usage, or an
// error in fail-closed mode when no valid pricing exists.
func (r *Registry) GetCost(provider, model string, usage transport.NormalizedUsage) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[buildKey(provider, model)]
	if !ok {
		if r.failClosed {
			return 0, fmt.Errorf("pricing unavailable for %s/%s: %w",
				provider, model, llmerrors.ErrUnknownModel)
		}
		return 0, nil
	}
	if entry.IsExpired() && r.failClosed {
		return 0, fmt.Errorf("pricing for %s/%s expired at %v: %w",
			provider, model, entry.ValidUntil, llmerrors.ErrUnknownModel)
	}
	return entry.Calculate(usage), nil
}

// IsAvailable reports whether valid pricing exists for the pair.
func (r *Registry) IsAvailable(provider, model string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[buildKey(provider, model)]
	return ok && !entry.IsExpired()
}

// AddEntry registers or replaces pricing for a provider/model pair.
func (r *Registry) AddEntry(entry *Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.Key()] = entry
	r.lastUpdated = time.Now()
}

// LastUpdated returns the timestamp of the most recent registry change.
func (r *Registry) LastUpdated() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastUpdated
}

func (r *Registry) loadDefaults() {
	now := time.Now()
	validFor := 24 * time.Hour

	defaults := []*Entry{
		{
			Provider:          configuration.ProviderOpenAI,
			Model:             "gpt-4o",
			PromptCostPer1000: 30000,
			OutputCostPer1000: 60000,
			ValidUntil:        now.Add(validFor),
		},
		{
			Provider:          configuration.ProviderOpenAI,
			Model:             "gpt-4o-mini",
			PromptCostPer1000: 1500,
			OutputCostPer1000: 2000,
			ValidUntil:        now.Add(validFor),
		},
		{
			Provider:          configuration.ProviderGemini,
			Model:             "gemini-1.5-pro",
			PromptCostPer1000: 3500,
			OutputCostPer1000: 10500,
			ValidUntil:        now.Add(validFor),
		},
		{
			Provider:          configuration.ProviderGemini,
			Model:             "gemini-1.5-flash",
			PromptCostPer1000: 500,
			OutputCostPer1000: 1500,
			ValidUntil:        now.Add(validFor),
		},
	}

	for _, entry := range defaults {
		r.entries[entry.Key()] = entry
	}
	r.lastUpdated = now
}

func buildKey(provider, model string) string {
	return provider + "/" + model
}

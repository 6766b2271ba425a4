// Package providers implements provider-specific adapters for the LLM
// transport layer. Each adapter translates the normalized transport request
// into the vendor's wire format and parses the vendor response back into
// normalized content and usage.
package providers

import (
	"fmt"

	"github.com/ahrav/contract-iq/internal/llm/configuration"
	llmerrors "github.com/ahrav/contract-iq/internal/llm/errors"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// Supported LLM provider identifiers. These constants must match the
// provider names used in configuration and routing strategies.
const (
	ProviderOpenAI = configuration.ProviderOpenAI
	ProviderGemini = configuration.ProviderGemini
	ProviderStub   = configuration.ProviderStub
)

// NewRouter creates a transport router with configured provider adapters.
// Unknown provider names are a startup error, not a call-time surprise.
func NewRouter(configs map[string]configuration.ProviderConfig) (transport.Router, error) {
	adapters := make(map[string]transport.ProviderAdapter)

	for name, cfg := range configs {
		switch name {
		case ProviderOpenAI:
			adapters[name] = NewOpenAIAdapter(cfg)
		case ProviderGemini:
			adapters[name] = NewGeminiAdapter(cfg)
		case ProviderStub:
			// Stub calls never reach the HTTP handler; registration is
			// allowed so configs may list it without a real endpoint.
			continue
		default:
			return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, name)
		}
	}

	return &router{adapters: adapters}, nil
}

type router struct {
	adapters map[string]transport.ProviderAdapter
}

// Pick selects the adapter for the given provider name.
func (r *router) Pick(provider, _ string) (transport.ProviderAdapter, error) {
	adapter, ok := r.adapters[provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", llmerrors.ErrUnknownProvider, provider)
	}
	return adapter, nil
}

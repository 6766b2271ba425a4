package worker

import (
	"fmt"

	"github.com/ahrav/contract-iq/internal/llm"
	"github.com/ahrav/contract-iq/internal/llm/configuration"
)

// InitializeLLMClient creates the shared LLM client for worker activities.
// Returned for dependency injection rather than stored as global state.
func InitializeLLMClient(cfg *configuration.Config) (llm.Client, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}
	client, err := llm.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM client: %w", err)
	}
	return client, nil
}

// Package routing maps agent types onto provider models. Each agent has a
// primary model, exactly one fallback tried when the primary fails, and an
// optional cross-validation model consulted when result confidence falls
// below the agent's threshold.
package routing

import (
	"time"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/llm/configuration"
)

// ModelRef identifies one provider/model pair.
type ModelRef struct {
	Provider string `json:"provider" yaml:"provider"`
	Model    string `json:"model" yaml:"model"`
}

// CrossValidationSpec configures secondary validation for an agent. The
// validator runs only when the primary result's confidence drops below
// Threshold, and always on a provider independent of the one that answered.
type CrossValidationSpec struct {
	Ref       ModelRef `json:"ref" yaml:"ref"`
	Threshold float64  `json:"threshold" yaml:"threshold"`
}

// Strategy is the routing decision for one agent type.
type Strategy struct {
	Primary  ModelRef `json:"primary" yaml:"primary"`
	Fallback ModelRef `json:"fallback" yaml:"fallback"`

	// CrossValidation is nil for agents that never validate.
	CrossValidation *CrossValidationSpec `json:"cross_validation,omitempty" yaml:"cross_validation,omitempty"`

	// Generation parameters applied to every call for this agent.
	Temperature float64       `json:"temperature" yaml:"temperature"`
	MaxTokens   int64         `json:"max_tokens" yaml:"max_tokens"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
}

// Table maps each analysis agent to its routing strategy.
type Table map[domain.AgentType]Strategy

// DefaultTable returns the production routing table. Extraction and
// benchmarking favor cheap high-context models; judgment-heavy agents
// (risk, strategy) get the strongest models plus cross-validation.
func DefaultTable() Table {
	openai := configuration.ProviderOpenAI
	gemini := configuration.ProviderGemini

	return Table{
		domain.AgentClauseExtraction: {
			Primary:     ModelRef{Provider: gemini, Model: "gemini-1.5-pro"},
			Fallback:    ModelRef{Provider: openai, Model: "gpt-4o"},
			Temperature: 0.1,
			MaxTokens:   4096,
			Timeout:     60 * time.Second,
		},
		domain.AgentRiskScoring: {
			Primary:  ModelRef{Provider: openai, Model: "gpt-4o"},
			Fallback: ModelRef{Provider: gemini, Model: "gemini-1.5-pro"},
			CrossValidation: &CrossValidationSpec{
				Ref:       ModelRef{Provider: gemini, Model: "gemini-1.5-flash"},
				Threshold: 0.75,
			},
			Temperature: 0.2,
			MaxTokens:   2048,
			Timeout:     45 * time.Second,
		},
		domain.AgentBenchmarking: {
			Primary:     ModelRef{Provider: gemini, Model: "gemini-1.5-flash"},
			Fallback:    ModelRef{Provider: openai, Model: "gpt-4o-mini"},
			Temperature: 0.2,
			MaxTokens:   2048,
			Timeout:     45 * time.Second,
		},
		domain.AgentNegotiationStrategy: {
			Primary:  ModelRef{Provider: openai, Model: "gpt-4o"},
			Fallback: ModelRef{Provider: gemini, Model: "gemini-1.5-pro"},
			CrossValidation: &CrossValidationSpec{
				Ref:       ModelRef{Provider: gemini, Model: "gemini-1.5-pro"},
				Threshold: 0.8,
			},
			Temperature: 0.4,
			MaxTokens:   3072,
			Timeout:     60 * time.Second,
		},
		domain.AgentSimulation: {
			Primary:     ModelRef{Provider: gemini, Model: "gemini-1.5-flash"},
			Fallback:    ModelRef{Provider: openai, Model: "gpt-4o-mini"},
			Temperature: 0.5,
			MaxTokens:   2048,
			Timeout:     45 * time.Second,
		},
		domain.AgentReporting: {
			Primary:     ModelRef{Provider: openai, Model: "gpt-4o-mini"},
			Fallback:    ModelRef{Provider: gemini, Model: "gemini-1.5-flash"},
			Temperature: 0.3,
			MaxTokens:   2048,
			Timeout:     45 * time.Second,
		},
	}
}

// StubTable returns a table routing every agent to the deterministic stub
// provider. Cross-validation specs are preserved so validation paths stay
// exercisable offline.
func StubTable() Table {
	table := DefaultTable()
	for agent, strategy := range table {
		strategy.Primary = ModelRef{Provider: configuration.ProviderStub, Model: strategy.Primary.Model}
		strategy.Fallback = ModelRef{Provider: configuration.ProviderStub, Model: strategy.Fallback.Model}
		if strategy.CrossValidation != nil {
			cv := *strategy.CrossValidation
			cv.Ref = ModelRef{Provider: configuration.ProviderStub, Model: cv.Ref.Model}
			strategy.CrossValidation = &cv
		}
		table[agent] = strategy
	}
	return table
}

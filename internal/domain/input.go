package domain

import "fmt"

// MaxContractTextRunes caps contract text embedded into agent inputs.
// Oversized documents are truncated rather than rejected.
const MaxContractTextRunes = 200_000

// DefaultRequiredAgents is the agent set used when a request does not
// specify one.
var DefaultRequiredAgents = []AgentType{
	AgentClauseExtraction,
	AgentRiskScoring,
	AgentBenchmarking,
	AgentNegotiationStrategy,
}

// ContractProcessingInput is the orchestrator's entry request: one contract
// document plus the caller's processing context and desired agent set.
type ContractProcessingInput struct {
	// ContractID identifies the contract in the caller's system.
	ContractID string `json:"contract_id" validate:"required,min=1"`

	// ContractText is the already-extracted plain text of the document.
	// Binary parsing happens upstream; this core assumes clean UTF-8.
	ContractText string `json:"contract_text" validate:"required,min=1"`

	// Context carries caller-supplied processing context.
	Context ProcessingContext `json:"context"`

	// RequiredAgents selects which analyses to run. Empty means
	// DefaultRequiredAgents.
	RequiredAgents []AgentType `json:"required_agents,omitempty"`

	// Priority orders the job for queue consumers. Empty means medium.
	Priority Priority `json:"priority,omitempty" validate:"omitempty,oneof=critical high medium low"`
}

// ApplyDefaults fills the default agent set and priority in place.
func (in *ContractProcessingInput) ApplyDefaults() {
	if len(in.RequiredAgents) == 0 {
		in.RequiredAgents = append([]AgentType(nil), DefaultRequiredAgents...)
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
}

// Validate checks the request before any paid provider call is made.
// Unknown or routing-only agent types are rejected here, not mid-pipeline.
func (in *ContractProcessingInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := in.Context.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	for _, a := range in.RequiredAgents {
		if !a.IsAnalysis() {
			return fmt.Errorf("%w: %w: %q", ErrInvalidInput, ErrUnknownAgentType, a)
		}
	}
	return nil
}

// AgentInput is the per-agent view the orchestrator assembles from a job's
// accumulated outputs. Only the outputs of the agent's declared dependencies
// are populated; undeclared dependency outputs are never forwarded, so an
// agent cannot read data it did not declare. Pointers are nil when the
// dependency was not requested or failed, and agents must degrade
// gracefully rather than crash.
type AgentInput struct {
	// ContractText is the sanitized raw document text.
	ContractText string `json:"contract_text"`

	// Dependency outputs, populated only for declared dependencies.
	Clauses    *ClauseExtraction `json:"clauses,omitempty"`
	Risk       *RiskAssessment   `json:"risk,omitempty"`
	Benchmarks *BenchmarkReport  `json:"benchmarks,omitempty"`

	// Strategy is populated only for the reporting agent, which declares
	// negotiation_strategy as a dependency.
	Strategy *NegotiationStrategy `json:"strategy,omitempty"`

	// Context is the job's shared read-only processing context.
	Context ProcessingContext `json:"context"`

	// RetryCount is how many times this agent has been re-invoked.
	RetryCount int `json:"retry_count"`

	// NodeID identifies the processing node for provenance.
	NodeID string `json:"node_id,omitempty"`
}

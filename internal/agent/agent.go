// Package agent implements the specialized contract analysis agents. Each
// agent declares its dependencies, builds its prompt from the inputs the
// orchestrator assembled, and parses the model's JSON into its domain
// payload with a completeness-derived confidence score.
package agent

import (
	"context"
	"fmt"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/routing"
)

// Router is the slice of the model router agents consume. Satisfied by
// *routing.ModelRouter.
type Router interface {
	Invoke(ctx context.Context, agent domain.AgentType, prompt routing.Prompt) (*routing.Invocation, error)
	MaybeCrossValidate(ctx context.Context, agent domain.AgentType, confidence float64, prompt routing.Prompt, content string) *domain.ValidationResult
}

// Agent is one analysis capability. Implementations must be safe for
// concurrent use; all per-job state lives in the input and output.
type Agent interface {
	// Type returns the agent's identity in the dependency graph.
	Type() domain.AgentType

	// Dependencies lists the agent types whose outputs this agent reads.
	Dependencies() []domain.AgentType

	// Execute runs the analysis. A returned error means the agent failed
	// outright; degraded-but-usable results return an output with
	// warnings and reduced confidence instead.
	Execute(ctx context.Context, in *domain.AgentInput) (*domain.AgentOutput, error)
}

// Registry holds the closed set of analysis agents keyed by type.
type Registry struct {
	agents map[domain.AgentType]Agent
}

// NewRegistry constructs the full agent set over one model router.
func NewRegistry(router Router) *Registry {
	agents := []Agent{
		NewClauseExtractionAgent(router),
		NewRiskScoringAgent(router),
		NewBenchmarkingAgent(router),
		NewNegotiationStrategyAgent(router),
		NewSimulationAgent(router),
		NewReportingAgent(router),
	}
	r := &Registry{agents: make(map[domain.AgentType]Agent, len(agents))}
	for _, a := range agents {
		r.agents[a.Type()] = a
	}
	return r
}

// Get returns the agent for a type.
func (r *Registry) Get(t domain.AgentType) (Agent, error) {
	a, ok := r.agents[t]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAgentType, t)
	}
	return a, nil
}

// DependencyGraph derives the graph from the registered agents' declared
// dependencies.
func (r *Registry) DependencyGraph() domain.DependencyGraph {
	g := make(domain.DependencyGraph, len(r.agents))
	for t, a := range r.agents {
		g[t] = a.Dependencies()
	}
	return g
}

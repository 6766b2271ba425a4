// Package domain provides core types and business logic for contract
// intelligence processing. It defines agent contracts, the inter-agent
// dependency graph, processing jobs, and the structured analysis payloads
// produced by each agent. The types are designed to support deterministic,
// auditable contract analysis with per-call cost attribution.
package domain

import (
	"fmt"
	"sort"
)

// AgentType identifies one specialized analysis agent. It is used as the
// map key for dependency declarations, stage plans, and job output maps.
type AgentType string

const (
	// AgentClauseExtraction extracts and classifies contract clauses.
	AgentClauseExtraction AgentType = "clause_extraction"

	// AgentRiskScoring scores contract risk from extracted clauses.
	AgentRiskScoring AgentType = "risk_scoring"

	// AgentBenchmarking compares clause terms against market data.
	AgentBenchmarking AgentType = "benchmarking"

	// AgentNegotiationStrategy produces a prioritized negotiation plan.
	AgentNegotiationStrategy AgentType = "negotiation_strategy"

	// AgentSimulation runs negotiation outcome scenario simulation.
	AgentSimulation AgentType = "simulation"

	// AgentReporting assembles the executive summary report.
	AgentReporting AgentType = "reporting"

	// AgentCrossValidation is a routing-only variant used to attribute
	// secondary validation calls. It never appears in a stage plan.
	AgentCrossValidation AgentType = "cross_validation"

	// AgentCostOptimization is a routing-only variant reserved for
	// cost-driven model selection. It never appears in a stage plan.
	AgentCostOptimization AgentType = "cost_optimization"
)

// AnalysisAgentTypes lists the agents that may appear in a stage plan,
// in canonical order.
var AnalysisAgentTypes = []AgentType{
	AgentClauseExtraction,
	AgentRiskScoring,
	AgentBenchmarking,
	AgentNegotiationStrategy,
	AgentSimulation,
	AgentReporting,
}

// String returns the string representation of the agent type.
func (a AgentType) String() string { return string(a) }

// IsAnalysis reports whether the agent type represents a schedulable
// analysis agent rather than a routing-only variant.
func (a AgentType) IsAnalysis() bool {
	switch a {
	case AgentClauseExtraction, AgentRiskScoring, AgentBenchmarking,
		AgentNegotiationStrategy, AgentSimulation, AgentReporting:
		return true
	default:
		return false
	}
}

// ParseAgentType converts a raw string into a schedulable AgentType.
// Returns ErrUnknownAgentType for routing-only variants and unknown values.
func ParseAgentType(s string) (AgentType, error) {
	a := AgentType(s)
	if !a.IsAnalysis() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAgentType, s)
	}
	return a, nil
}

// DependencyGraph maps each agent type to the agent types whose outputs it
// consumes. The graph must be acyclic; the orchestrator's planner rejects
// cyclic graphs before any provider call is made.
type DependencyGraph map[AgentType][]AgentType

// DefaultDependencyGraph returns the static dependency graph for the six
// analysis agents. Clause extraction is the only root; everything else
// builds on its structured output.
func DefaultDependencyGraph() DependencyGraph {
	return DependencyGraph{
		AgentClauseExtraction:    {},
		AgentRiskScoring:         {AgentClauseExtraction},
		AgentBenchmarking:        {AgentClauseExtraction},
		AgentNegotiationStrategy: {AgentClauseExtraction, AgentRiskScoring, AgentBenchmarking},
		AgentSimulation:          {AgentRiskScoring, AgentBenchmarking},
		AgentReporting:           {AgentRiskScoring, AgentBenchmarking, AgentNegotiationStrategy},
	}
}

// Dependencies returns the declared dependencies for the given agent type.
// Unknown agent types have no dependencies.
func (g DependencyGraph) Dependencies(a AgentType) []AgentType {
	return g[a]
}

// SortAgentTypes sorts agent types lexicographically in place and returns
// the slice. Used to keep stage membership deterministic.
func SortAgentTypes(agents []AgentType) []AgentType {
	sort.Slice(agents, func(i, j int) bool { return agents[i] < agents[j] })
	return agents
}

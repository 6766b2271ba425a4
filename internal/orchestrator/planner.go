// Package orchestrator coordinates contract analysis jobs: it plans
// execution stages from the agent dependency graph, runs each stage's
// agents concurrently, and assembles the terminal processing result.
package orchestrator

import (
	"fmt"

	"github.com/ahrav/contract-iq/internal/domain"
)

// StagePlan is an ordered list of stages. Agents within a stage have no
// dependencies on one another and run concurrently; stages run in order
// with a full barrier between them.
type StagePlan [][]domain.AgentType

// AgentCount returns the total number of scheduled agents.
func (p StagePlan) AgentCount() int {
	n := 0
	for _, stage := range p {
		n += len(stage)
	}
	return n
}

// BuildStagePlan computes the stage plan for a requested agent set.
// Dependencies on agents outside the requested set are treated as already
// satisfied: the dependent still runs and degrades at execution time
// rather than blocking the plan. The plan is deterministic; agents within
// a stage are ordered lexicographically.
func BuildStagePlan(required []domain.AgentType, graph domain.DependencyGraph) (StagePlan, error) {
	if len(required) == 0 {
		return nil, domain.ErrEmptyAgentSet
	}

	requested := make(map[domain.AgentType]bool, len(required))
	for _, a := range required {
		if !a.IsAnalysis() {
			return nil, fmt.Errorf("%w: %q", domain.ErrUnknownAgentType, a)
		}
		requested[a] = true
	}

	scheduled := make(map[domain.AgentType]bool, len(requested))
	var plan StagePlan
	for len(scheduled) < len(requested) {
		var stage []domain.AgentType
		for a := range requested {
			if scheduled[a] {
				continue
			}
			ready := true
			for _, dep := range graph.Dependencies(a) {
				// Only dependencies the caller asked for gate scheduling.
				if requested[dep] && !scheduled[dep] {
					ready = false
					break
				}
			}
			if ready {
				stage = append(stage, a)
			}
		}
		if len(stage) == 0 {
			return nil, fmt.Errorf("%w: remaining agents %v", domain.ErrDependencyCycle, unscheduled(requested, scheduled))
		}
		domain.SortAgentTypes(stage)
		for _, a := range stage {
			scheduled[a] = true
		}
		plan = append(plan, stage)
	}
	return plan, nil
}

func unscheduled(requested, scheduled map[domain.AgentType]bool) []domain.AgentType {
	var out []domain.AgentType
	for a := range requested {
		if !scheduled[a] {
			out = append(out, a)
		}
	}
	return domain.SortAgentTypes(out)
}

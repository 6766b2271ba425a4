package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/routing"
)

const simulationSystemPrompt = `You are a negotiation outcome simulator.
Given a risk assessment and market benchmarks, enumerate plausible negotiation
scenarios with probabilities that sum to roughly 1, and summarize a Monte Carlo
style projection of outcomes.
Respond with only a JSON object:
{"scenarios": [{"name": string, "probability": number, "outcome": string,
"savings_pct": number}], "monte_carlo": {"runs": number, "success_rate": number,
"avg_savings_pct": number, "risk_distribution": {string: number}}}`

// SimulationAgent projects negotiation outcome scenarios. It needs at
// least one of risk or benchmark inputs; with only one it degrades.
type SimulationAgent struct {
	router Router
}

// NewSimulationAgent creates the simulation agent.
func NewSimulationAgent(router Router) *SimulationAgent {
	return &SimulationAgent{router: router}
}

// Type implements Agent.
func (a *SimulationAgent) Type() domain.AgentType { return domain.AgentSimulation }

// Dependencies implements Agent.
func (a *SimulationAgent) Dependencies() []domain.AgentType {
	return []domain.AgentType{domain.AgentRiskScoring, domain.AgentBenchmarking}
}

// Execute implements Agent.
func (a *SimulationAgent) Execute(ctx context.Context, in *domain.AgentInput) (*domain.AgentOutput, error) {
	start := time.Now()

	if in.Risk == nil && in.Benchmarks == nil {
		return nil, fmt.Errorf("%w: simulation requires a risk assessment or market benchmarks", domain.ErrInvalidInput)
	}

	var ub strings.Builder
	if block := contextBlock(in.Context); block != "" {
		ub.WriteString(block)
		ub.WriteString("\n")
	}
	var sources []string
	if in.Risk != nil {
		ub.WriteString("Risk assessment:\n")
		ub.WriteString(jsonBlock(in.Risk))
		sources = append(sources, string(domain.AgentRiskScoring))
	}
	if in.Benchmarks != nil {
		ub.WriteString("\n\nMarket benchmarks:\n")
		ub.WriteString(jsonBlock(in.Benchmarks))
		fmt.Fprintf(&ub, "\nAggregate market position: %.0fth percentile\n", in.Benchmarks.MedianPercentile())
		sources = append(sources, string(domain.AgentBenchmarking))
	}

	prompt := routing.Prompt{System: simulationSystemPrompt, User: ub.String()}
	inv, err := a.router.Invoke(ctx, a.Type(), prompt)
	if err != nil {
		return nil, err
	}

	var report domain.SimulationReport
	if err := decodeJSON(inv.Content, &report); err != nil {
		return nil, fmt.Errorf("simulation: %w", err)
	}

	out := domain.NewAgentOutput(a.Type())
	out.Simulation = &report
	out.Sources = sources
	out.Confidence = a.confidence(&report)
	if in.Risk == nil {
		out.AddWarning("simulation ran without risk assessment")
		out.Confidence = clampConfidence(out.Confidence - 0.15)
	}
	if in.Benchmarks == nil {
		out.AddWarning("simulation ran without market benchmarks")
		out.Confidence = clampConfidence(out.Confidence - 0.15)
	}
	finalize(out, start, inv)
	if cv := a.router.MaybeCrossValidate(ctx, a.Type(), out.Confidence, prompt, inv.Content); cv != nil {
		out.CrossValidation = cv
	}
	return out, nil
}

func (a *SimulationAgent) confidence(r *domain.SimulationReport) float64 {
	if len(r.Scenarios) == 0 {
		return 0.1
	}
	score := 0.55 + 0.05*float64(len(r.Scenarios))
	if score > 0.75 {
		score = 0.75
	}
	if r.MonteCarlo.Runs > 0 {
		score += 0.1
	}
	var totalProb float64
	for _, s := range r.Scenarios {
		totalProb += s.Probability
	}
	if totalProb > 0.9 && totalProb < 1.1 {
		score += 0.1
	}
	return clampConfidence(score)
}

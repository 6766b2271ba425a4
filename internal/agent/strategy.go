package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/routing"
)

const strategySystemPrompt = `You are a contract negotiation strategist.
Given extracted clauses, a risk assessment, and market benchmarks, produce a
prioritized negotiation plan for the customer. Priorities start at 1 (most urgent).
Respond with only a JSON object:
{"issues": [{"priority": number, "topic": string, "clause_type": string,
"severity": "low"|"medium"|"high"|"critical", "rationale": string}],
"tactics": [string], "concessions": [{"give": string, "get": string, "rationale": string}],
"redlines": [{"clause_type": string, "current_text": string, "proposed_text": string,
"justification": string}], "walk_away_conditions": [string],
"timeline": [{"phase": string, "duration_days": number, "focus": [string]}]}`

// NegotiationStrategyAgent produces a prioritized negotiation plan.
// Clause extraction is the hard requirement: with no clauses there is
// nothing to negotiate over and the agent fails. Missing risk or
// benchmark inputs instead degrade the plan, each absent input adding a
// warning and a fixed confidence penalty, so a single failed upstream
// agent narrows the strategy rather than erasing it.
type NegotiationStrategyAgent struct {
	router Router
}

// NewNegotiationStrategyAgent creates the negotiation strategy agent.
func NewNegotiationStrategyAgent(router Router) *NegotiationStrategyAgent {
	return &NegotiationStrategyAgent{router: router}
}

// Type implements Agent.
func (a *NegotiationStrategyAgent) Type() domain.AgentType { return domain.AgentNegotiationStrategy }

// Dependencies implements Agent.
func (a *NegotiationStrategyAgent) Dependencies() []domain.AgentType {
	return []domain.AgentType{
		domain.AgentClauseExtraction,
		domain.AgentRiskScoring,
		domain.AgentBenchmarking,
	}
}

// Execute implements Agent.
func (a *NegotiationStrategyAgent) Execute(ctx context.Context, in *domain.AgentInput) (*domain.AgentOutput, error) {
	start := time.Now()

	if in.Clauses == nil || len(in.Clauses.Clauses) == 0 {
		return nil, fmt.Errorf("%w: no extracted clauses available for strategy", domain.ErrNoClauses)
	}

	var ub strings.Builder
	if block := contextBlock(in.Context); block != "" {
		ub.WriteString(block)
		ub.WriteString("\n")
	}
	ub.WriteString("Extracted clauses:\n")
	ub.WriteString(jsonBlock(in.Clauses))
	sources := []string{string(domain.AgentClauseExtraction)}

	missing := 0
	if in.Risk != nil {
		ub.WriteString("\n\nRisk assessment:\n")
		ub.WriteString(jsonBlock(in.Risk))
		sources = append(sources, string(domain.AgentRiskScoring))
	} else {
		missing++
	}
	if in.Benchmarks != nil {
		ub.WriteString("\n\nMarket benchmarks:\n")
		ub.WriteString(jsonBlock(in.Benchmarks))
		sources = append(sources, string(domain.AgentBenchmarking))
	} else {
		missing++
	}

	prompt := routing.Prompt{System: strategySystemPrompt, User: ub.String()}
	inv, err := a.router.Invoke(ctx, a.Type(), prompt)
	if err != nil {
		return nil, err
	}

	var strategy domain.NegotiationStrategy
	if err := decodeJSON(inv.Content, &strategy); err != nil {
		return nil, fmt.Errorf("negotiation strategy: %w", err)
	}
	for i := range strategy.Issues {
		strategy.Issues[i].ClauseType = domain.NormalizeClauseType(string(strategy.Issues[i].ClauseType))
	}

	out := domain.NewAgentOutput(a.Type())
	out.Strategy = &strategy
	out.Sources = sources
	out.Confidence = a.confidence(&strategy)
	if in.Risk == nil {
		out.AddWarning("strategy built without risk assessment")
	}
	if in.Benchmarks == nil {
		out.AddWarning("strategy built without market benchmarks")
	}
	out.Confidence = clampConfidence(out.Confidence - 0.15*float64(missing))
	finalize(out, start, inv)
	if cv := a.router.MaybeCrossValidate(ctx, a.Type(), out.Confidence, prompt, inv.Content); cv != nil {
		out.CrossValidation = cv
		if cv.Recommendation != domain.ValidationAccept {
			out.AddWarning("cross-validation by %s recommends %s", cv.Model, cv.Recommendation)
		}
	}
	return out, nil
}

func (a *NegotiationStrategyAgent) confidence(s *domain.NegotiationStrategy) float64 {
	if len(s.Issues) == 0 {
		return 0.1
	}
	score := 0.6
	if len(s.Redlines) > 0 {
		score += 0.1
	}
	if len(s.Concessions) > 0 {
		score += 0.1
	}
	if len(s.Timeline) > 0 {
		score += 0.05
	}
	if len(s.WalkAwayConditions) > 0 {
		score += 0.05
	}
	return clampConfidence(score)
}

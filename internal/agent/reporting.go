package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/routing"
)

const reportingSystemPrompt = `You are an executive report writer for contract analysis.
Given the analyses below, write a concise executive summary for a business audience.
Respond with only a JSON object:
{"overview": string, "key_risks": [string], "opportunities": [string],
"recommendations": [string], "next_steps": [string], "confidence": number between 0 and 1}`

// ReportingAgent assembles the executive summary from upstream analyses.
// Each missing input degrades the report; it fails only when every
// upstream analysis is absent.
type ReportingAgent struct {
	router Router
}

// NewReportingAgent creates the reporting agent.
func NewReportingAgent(router Router) *ReportingAgent {
	return &ReportingAgent{router: router}
}

// Type implements Agent.
func (a *ReportingAgent) Type() domain.AgentType { return domain.AgentReporting }

// Dependencies implements Agent.
func (a *ReportingAgent) Dependencies() []domain.AgentType {
	return []domain.AgentType{
		domain.AgentRiskScoring,
		domain.AgentBenchmarking,
		domain.AgentNegotiationStrategy,
	}
}

// Execute implements Agent.
func (a *ReportingAgent) Execute(ctx context.Context, in *domain.AgentInput) (*domain.AgentOutput, error) {
	start := time.Now()

	if in.Risk == nil && in.Benchmarks == nil && in.Strategy == nil {
		return nil, fmt.Errorf("%w: no upstream analyses available to report on", domain.ErrInvalidInput)
	}

	var ub strings.Builder
	if block := contextBlock(in.Context); block != "" {
		ub.WriteString(block)
		ub.WriteString("\n")
	}
	var sources []string
	missing := 0
	if in.Risk != nil {
		ub.WriteString("Risk assessment:\n")
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
	if in.Strategy != nil {
		ub.WriteString("\n\nNegotiation strategy:\n")
		ub.WriteString(jsonBlock(in.Strategy))
		sources = append(sources, string(domain.AgentNegotiationStrategy))
	} else {
		missing++
	}

	prompt := routing.Prompt{System: reportingSystemPrompt, User: ub.String()}
	inv, err := a.router.Invoke(ctx, a.Type(), prompt)
	if err != nil {
		return nil, err
	}

	var summary domain.ExecutiveSummary
	if err := decodeJSON(inv.Content, &summary); err != nil {
		return nil, fmt.Errorf("reporting: %w", err)
	}

	out := domain.NewAgentOutput(a.Type())
	out.Report = &summary
	out.Sources = sources
	out.Confidence = clampConfidence(a.confidence(&summary) - 0.15*float64(missing))
	for _, dep := range a.Dependencies() {
		if !containsSource(sources, string(dep)) {
			out.AddWarning("report generated without %s output", dep)
		}
	}
	finalize(out, start, inv)
	if cv := a.router.MaybeCrossValidate(ctx, a.Type(), out.Confidence, prompt, inv.Content); cv != nil {
		out.CrossValidation = cv
	}
	return out, nil
}

func (a *ReportingAgent) confidence(s *domain.ExecutiveSummary) float64 {
	if s.Overview == "" {
		return 0.1
	}
	score := 0.6
	if len(s.KeyRisks) > 0 {
		score += 0.1
	}
	if len(s.Recommendations) > 0 {
		score += 0.1
	}
	if len(s.NextSteps) > 0 {
		score += 0.1
	}
	return clampConfidence(score)
}

func containsSource(sources []string, s string) bool {
	for _, v := range sources {
		if v == s {
			return true
		}
	}
	return false
}

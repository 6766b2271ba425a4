package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/routing"
)

const riskSystemPrompt = `You are a contract risk analyst.
Given extracted contract clauses and customer context, score the contract's risk.
Scores run 0-100 where 0 is risk-free and 100 is existential.
Respond with only a JSON object:
{"overall_score": number, "clause_risks": [{"clause_id": string, "score": number,
"level": "low"|"medium"|"high"|"critical", "rationale": string}],
"factors": [{"name": string, "severity": "low"|"medium"|"high"|"critical",
"likelihood": number between 0 and 1, "description": string, "mitigations": [string]}]}`

// RiskScoringAgent scores contract risk from extracted clauses. Clause
// extraction output is a hard requirement; without it there is nothing
// defensible to score.
type RiskScoringAgent struct {
	router Router
}

// NewRiskScoringAgent creates the risk scoring agent.
func NewRiskScoringAgent(router Router) *RiskScoringAgent {
	return &RiskScoringAgent{router: router}
}

// Type implements Agent.
func (a *RiskScoringAgent) Type() domain.AgentType { return domain.AgentRiskScoring }

// Dependencies implements Agent.
func (a *RiskScoringAgent) Dependencies() []domain.AgentType {
	return []domain.AgentType{domain.AgentClauseExtraction}
}

// Execute implements Agent.
func (a *RiskScoringAgent) Execute(ctx context.Context, in *domain.AgentInput) (*domain.AgentOutput, error) {
	start := time.Now()

	if in.Clauses == nil || len(in.Clauses.Clauses) == 0 {
		return nil, fmt.Errorf("%w: no extracted clauses available for risk scoring", domain.ErrNoClauses)
	}

	var ub strings.Builder
	if block := contextBlock(in.Context); block != "" {
		ub.WriteString(block)
		ub.WriteString("\n")
	}
	ub.WriteString("Extracted clauses:\n")
	ub.WriteString(jsonBlock(in.Clauses))

	exposure := append(in.Clauses.ByType(domain.ClauseLiability), in.Clauses.ByType(domain.ClauseIndemnification)...)
	if len(exposure) > 0 {
		ub.WriteString("\n\nClauses requiring particular scrutiny:\n")
		for _, c := range exposure {
			ub.WriteString("- " + c.ID)
			if c.Title != "" {
				ub.WriteString(": " + c.Title)
			}
			ub.WriteString("\n")
		}
	}

	prompt := routing.Prompt{System: riskSystemPrompt, User: ub.String()}
	inv, err := a.router.Invoke(ctx, a.Type(), prompt)
	if err != nil {
		return nil, err
	}

	var assessment domain.RiskAssessment
	if err := decodeJSON(inv.Content, &assessment); err != nil {
		return nil, fmt.Errorf("risk scoring: %w", err)
	}
	if assessment.OverallScore < 0 {
		assessment.OverallScore = 0
	}
	if assessment.OverallScore > 100 {
		assessment.OverallScore = 100
	}
	assessment.OverallLevel = domain.RiskLevelForScore(assessment.OverallScore)
	for i := range assessment.ClauseRisks {
		if assessment.ClauseRisks[i].Level == "" {
			assessment.ClauseRisks[i].Level = domain.RiskLevelForScore(assessment.ClauseRisks[i].Score)
		}
	}

	out := domain.NewAgentOutput(a.Type())
	out.Risk = &assessment
	out.Sources = []string{string(domain.AgentClauseExtraction)}
	out.Confidence = a.confidence(&assessment, in.Clauses)
	finalize(out, start, inv)
	if cv := a.router.MaybeCrossValidate(ctx, a.Type(), out.Confidence, prompt, inv.Content); cv != nil {
		out.CrossValidation = cv
		if cv.Recommendation != domain.ValidationAccept {
			out.AddWarning("cross-validation by %s recommends %s", cv.Model, cv.Recommendation)
		}
	}
	return out, nil
}

// confidence scores assessment completeness: clause coverage plus the
// presence of named risk factors with mitigations.
func (a *RiskScoringAgent) confidence(r *domain.RiskAssessment, clauses *domain.ClauseExtraction) float64 {
	score := 0.5
	if len(clauses.Clauses) > 0 {
		coverage := float64(len(r.ClauseRisks)) / float64(len(clauses.Clauses))
		if coverage > 1 {
			coverage = 1
		}
		score += 0.3 * coverage
	}
	if len(r.Factors) > 0 {
		score += 0.1
		for _, f := range r.Factors {
			if len(f.Mitigations) > 0 {
				score += 0.1
				break
			}
		}
	}
	return clampConfidence(score)
}

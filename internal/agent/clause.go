package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/routing"
)

const clauseSystemPrompt = `You are a contract clause extraction specialist.
Extract every material clause from the contract text and classify each into one of:
liability, indemnification, termination, payment_terms, auto_renewal, ip_assignment,
confidentiality, warranty, sla, data_protection, other.
For each clause include normalized_terms: a flat map of the clause's key quantitative
terms (caps, day counts, percentages) as strings.
Respond with only a JSON object:
{"detected_contract_type": string, "clauses": [{"id": string, "type": string,
"title": string, "text": string, "normalized_terms": {string: string}, "confidence": number}]}`

// ClauseExtractionAgent extracts and classifies contract clauses. It is
// the root of the dependency graph and reads only the raw contract text.
type ClauseExtractionAgent struct {
	router Router
}

// NewClauseExtractionAgent creates the clause extraction agent.
func NewClauseExtractionAgent(router Router) *ClauseExtractionAgent {
	return &ClauseExtractionAgent{router: router}
}

// Type implements Agent.
func (a *ClauseExtractionAgent) Type() domain.AgentType { return domain.AgentClauseExtraction }

// Dependencies implements Agent.
func (a *ClauseExtractionAgent) Dependencies() []domain.AgentType { return nil }

// Execute implements Agent.
func (a *ClauseExtractionAgent) Execute(ctx context.Context, in *domain.AgentInput) (*domain.AgentOutput, error) {
	start := time.Now()

	excerpt, truncated := contractExcerpt(in.ContractText)
	if excerpt == "" {
		return nil, fmt.Errorf("%w: contract text empty after sanitization", domain.ErrInvalidInput)
	}

	var ub strings.Builder
	if block := contextBlock(in.Context); block != "" {
		ub.WriteString(block)
		ub.WriteString("\n")
	}
	ub.WriteString("Contract text:\n")
	ub.WriteString(excerpt)

	prompt := routing.Prompt{System: clauseSystemPrompt, User: ub.String()}
	inv, err := a.router.Invoke(ctx, a.Type(), prompt)
	if err != nil {
		return nil, err
	}

	var extraction domain.ClauseExtraction
	if err := decodeJSON(inv.Content, &extraction); err != nil {
		return nil, fmt.Errorf("clause extraction: %w", err)
	}
	for i := range extraction.Clauses {
		c := &extraction.Clauses[i]
		c.Type = domain.NormalizeClauseType(string(c.Type))
		if c.ID == "" {
			c.ID = fmt.Sprintf("clause-%d", i+1)
		}
	}

	out := domain.NewAgentOutput(a.Type())
	out.Clauses = &extraction
	out.Sources = []string{"contract_text"}
	out.Confidence = a.confidence(&extraction)
	if truncated {
		out.AddWarning("contract text truncated to %d runes for extraction", maxPromptContractRunes)
		out.Confidence = clampConfidence(out.Confidence - 0.1)
	}
	if len(extraction.Clauses) == 0 {
		out.AddWarning("no clauses extracted from contract text")
	}
	finalize(out, start, inv)
	if cv := a.router.MaybeCrossValidate(ctx, a.Type(), out.Confidence, prompt, inv.Content); cv != nil {
		out.CrossValidation = cv
	}
	return out, nil
}

// confidence scores extraction completeness: mean per-clause model
// confidence weighted by whether any clauses were found at all.
func (a *ClauseExtractionAgent) confidence(ex *domain.ClauseExtraction) float64 {
	if len(ex.Clauses) == 0 {
		return 0.1
	}
	perClause := make([]float64, 0, len(ex.Clauses))
	for _, c := range ex.Clauses {
		perClause = append(perClause, c.Confidence)
	}
	score := meanFloat(perClause)
	if ex.DetectedContractType == "" {
		score -= 0.05
	}
	return clampConfidence(score)
}

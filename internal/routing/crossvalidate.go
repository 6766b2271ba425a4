package routing

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

const crossValidationSystemPrompt = `You are a validation reviewer for contract analysis results.
Given the original task prompt and a candidate result produced by another model,
judge whether the result is sound. Respond with only a JSON object:
{"agreement": bool, "agreement_score": number between 0 and 1,
"differences": [list of material disagreements], "recommendation": "accept"|"review"|"reject"}`

// MaybeCrossValidate runs a secondary model against a low-confidence
// result. It returns nil when the agent has no validation configured, when
// confidence meets the threshold, or when the validation call itself fails.
// Validation never blocks a result; disagreement surfaces in the returned
// ValidationResult, not as an error.
func (r *ModelRouter) MaybeCrossValidate(ctx context.Context, agent domain.AgentType, confidence float64, prompt Prompt, content string) *domain.ValidationResult {
	strategy, err := r.Strategy(agent)
	if err != nil || strategy.CrossValidation == nil {
		return nil
	}
	spec := strategy.CrossValidation
	if confidence >= spec.Threshold {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("Original task:\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n\nCandidate result:\n")
	sb.WriteString(content)

	resp, err := r.client.Complete(ctx, &transport.Request{
		Provider:     spec.Ref.Provider,
		Model:        spec.Ref.Model,
		AgentType:    string(domain.AgentCrossValidation),
		Prompt:       sb.String(),
		SystemPrompt: crossValidationSystemPrompt,
		MaxTokens:    1024,
		Temperature:  0.0,
		JSONResponse: true,
		Timeout:      strategy.Timeout,
	})
	if err != nil {
		r.logger.Warn("cross-validation call failed",
			"agent_type", agent,
			"validator", spec.Ref.Model,
			"error", err)
		return nil
	}

	var verdict struct {
		Agreement      bool     `json:"agreement"`
		AgreementScore float64  `json:"agreement_score"`
		Differences    []string `json:"differences"`
		Recommendation string   `json:"recommendation"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(resp.Content)), &verdict); err != nil {
		r.logger.Warn("cross-validation response unparseable",
			"agent_type", agent,
			"validator", spec.Ref.Model,
			"error", err)
		return nil
	}

	recommendation := domain.ValidationRecommendation(verdict.Recommendation)
	switch recommendation {
	case domain.ValidationAccept, domain.ValidationReview, domain.ValidationReject:
	default:
		if verdict.Agreement {
			recommendation = domain.ValidationAccept
		} else {
			recommendation = domain.ValidationReview
		}
	}

	return &domain.ValidationResult{
		Provider:       resp.Provider,
		Model:          resp.Model,
		Agreement:      verdict.Agreement,
		AgreementScore: clampUnit(verdict.AgreementScore),
		Differences:    verdict.Differences,
		Recommendation: recommendation,
		CostMilliCents: domain.MilliCents(resp.EstimatedCostMilliCents),
	}
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its JSON despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func clampUnit(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

package llm

import (
	"fmt"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/llm/configuration"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// stubComplete answers a request deterministically without any network
// I/O. The payload depends only on the agent type, so repeated runs over
// the same input produce identical results. Used in tests and in keyless
// environments where real providers are unreachable.
func stubComplete(req *transport.Request) (*transport.Response, error) {
	payload, ok := stubPayloads[domain.AgentType(req.AgentType)]
	if !ok {
		payload = `{"content": "stub response"}`
	}

	promptTokens := int64(len(req.Prompt)+len(req.SystemPrompt)) / 4
	completionTokens := int64(len(payload)) / 4
	return &transport.Response{
		Content:      payload,
		Provider:     configuration.ProviderStub,
		Model:        req.Model,
		FinishReason: transport.FinishStop,
		Usage: transport.NormalizedUsage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
			LatencyMs:        1,
		},
	}, nil
}

// stubPayloads are canned completions shaped like each agent's expected
// JSON schema so downstream parsing exercises the same code paths as a
// real provider call.
var stubPayloads = map[domain.AgentType]string{
	domain.AgentClauseExtraction: fmt.Sprintf(`{
  "detected_contract_type": "saas_subscription",
  "clauses": [
    {
      "id": "clause-1",
      "type": %q,
      "title": "Limitation of Liability",
      "text": "Neither party's aggregate liability shall exceed the fees paid in the preceding twelve months.",
      "normalized_terms": {"liability_cap": "12_months_fees"},
      "confidence": 0.92
    },
    {
      "id": "clause-2",
      "type": %q,
      "title": "Payment Terms",
      "text": "Invoices are due within thirty days of receipt.",
      "normalized_terms": {"payment_days": "30"},
      "confidence": 0.95
    },
    {
      "id": "clause-3",
      "type": %q,
      "title": "Automatic Renewal",
      "text": "This agreement renews automatically for successive one year terms unless terminated with sixty days notice.",
      "normalized_terms": {"renewal_term": "1_year", "notice_days": "60"},
      "confidence": 0.88
    }
  ]
}`, domain.ClauseLiability, domain.ClausePaymentTerms, domain.ClauseAutoRenewal),

	domain.AgentRiskScoring: fmt.Sprintf(`{
  "overall_score": 62,
  "overall_level": "high",
  "clause_risks": [
    {"clause_id": "clause-1", "score": 45, "level": "medium", "rationale": "Liability cap present but excludes indemnification claims."},
    {"clause_id": "clause-3", "score": 70, "level": "high", "rationale": "Auto-renewal with long notice window risks unwanted lock-in."}
  ],
  "factors": [
    {
      "name": "renewal_lock_in",
      "severity": "high",
      "likelihood": 0.6,
      "description": "Sixty day notice requirement makes timely exit easy to miss.",
      "mitigations": ["Calendar the notice deadline", "Negotiate notice down to 30 days"]
    }
  ]
}`),

	domain.AgentBenchmarking: `{
  "segment": "mid_market_saas",
  "metrics": [
    {
      "name": "payment_terms_days",
      "contract_value": "30",
      "market_median": "45",
      "percentile": 25,
      "recommendation": "negotiate",
      "notes": "Net-30 is tighter than the market norm of net-45."
    },
    {
      "name": "liability_cap_multiple",
      "contract_value": "1x annual fees",
      "market_median": "1x annual fees",
      "percentile": 50,
      "recommendation": "acceptable"
    }
  ]
}`,

	domain.AgentNegotiationStrategy: `{
  "issues": [
    {"priority": 1, "topic": "Liability cap exclusions", "clause_type": "liability", "severity": "high", "rationale": "The cap excludes indemnification claims, leaving exposure effectively uncapped."},
    {"priority": 2, "topic": "Auto-renewal notice window", "clause_type": "auto_renewal", "severity": "high", "rationale": "Sixty days is above market and easy to miss."},
    {"priority": 3, "topic": "Payment terms", "clause_type": "payment_terms", "severity": "medium", "rationale": "Net-30 sits below the market median of net-45."}
  ],
  "tactics": ["Bundle renewal and payment asks", "Anchor on market benchmarks"],
  "concessions": [
    {"give": "Two year initial term", "get": "Net-45 payment terms", "rationale": "Longer commitment funds better cash terms."}
  ],
  "redlines": [
    {"clause_type": "auto_renewal", "proposed_text": "Either party may decline renewal with thirty days written notice.", "justification": "Aligns notice period with market practice."}
  ],
  "walk_away_conditions": ["Uncapped liability", "Unilateral price increases above 7% annually"],
  "timeline": [
    {"phase": "opening", "duration_days": 7, "focus": ["renewal terms"]},
    {"phase": "trading", "duration_days": 14, "focus": ["payment terms", "concession packages"]}
  ]
}`,

	domain.AgentSimulation: `{
  "scenarios": [
    {"name": "full_concession_package", "probability": 0.35, "outcome": "Counterparty accepts bundled asks", "savings_pct": 8.5},
    {"name": "partial_acceptance", "probability": 0.45, "outcome": "Payment terms improve, renewal unchanged", "savings_pct": 4.0},
    {"name": "no_movement", "probability": 0.2, "outcome": "Terms unchanged", "savings_pct": 0}
  ],
  "monte_carlo": {
    "runs": 1000,
    "success_rate": 0.72,
    "avg_savings_pct": 4.8,
    "risk_distribution": {"low": 0.3, "medium": 0.5, "high": 0.2}
  }
}`,

	domain.AgentReporting: `{
  "overview": "Mid-market SaaS subscription with capped liability, tight payment terms, and an above-market auto-renewal notice window.",
  "key_risks": ["Auto-renewal lock-in with sixty day notice", "Payment terms below market median"],
  "opportunities": ["Trade term length for net-45 payment terms"],
  "recommendations": ["Negotiate renewal notice down to thirty days", "Calendar the renewal deadline immediately"],
  "next_steps": ["Confirm walk-away conditions with legal", "Schedule opening negotiation call"],
  "confidence": 0.85
}`,
}

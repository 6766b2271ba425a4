package domain

// ClauseType classifies a contract clause into a normalized category.
// The set mirrors the categories the clause extraction agent is prompted
// to produce; unrecognized model output maps to ClauseOther.
type ClauseType string

const (
	ClauseLiability       ClauseType = "liability"
	ClauseIndemnification ClauseType = "indemnification"
	ClauseTermination     ClauseType = "termination"
	ClausePaymentTerms    ClauseType = "payment_terms"
	ClauseAutoRenewal     ClauseType = "auto_renewal"
	ClauseIPAssignment    ClauseType = "ip_assignment"
	ClauseConfidentiality ClauseType = "confidentiality"
	ClauseWarranty        ClauseType = "warranty"
	ClauseSLA             ClauseType = "sla"
	ClauseDataProtection  ClauseType = "data_protection"
	ClauseOther           ClauseType = "other"
)

// NormalizeClauseType maps free-form model output onto the closed ClauseType
// set, defaulting to ClauseOther.
func NormalizeClauseType(s string) ClauseType {
	switch ClauseType(s) {
	case ClauseLiability, ClauseIndemnification, ClauseTermination,
		ClausePaymentTerms, ClauseAutoRenewal, ClauseIPAssignment,
		ClauseConfidentiality, ClauseWarranty, ClauseSLA, ClauseDataProtection:
		return ClauseType(s)
	default:
		return ClauseOther
	}
}

// Clause is one classified contract clause with normalized terms.
type Clause struct {
	// ID is a stable identifier within the extraction, e.g. "c1".
	ID string `json:"id"`

	// Type is the normalized clause category.
	Type ClauseType `json:"type"`

	// Title is a short human-readable label for the clause.
	Title string `json:"title,omitempty"`

	// Text is the clause language as found in the contract, truncated
	// by the extraction agent to keep downstream prompts bounded.
	Text string `json:"text"`

	// NormalizedTerms holds machine-usable key figures extracted from the
	// clause, e.g. {"payment_days": "60", "liability_cap": "uncapped"}.
	NormalizedTerms map[string]string `json:"normalized_terms,omitempty"`

	// Confidence is the extraction confidence for this clause in [0,1].
	Confidence float64 `json:"confidence" validate:"min=0,max=1"`
}

// ClauseExtraction is the clause extraction agent's result payload.
type ClauseExtraction struct {
	// Clauses lists every classified clause found in the document.
	Clauses []Clause `json:"clauses"`

	// DetectedContractType is the model's document classification,
	// independent of the caller-declared contract type.
	DetectedContractType string `json:"detected_contract_type,omitempty"`
}

// ByType returns the extracted clauses matching the given type.
func (e *ClauseExtraction) ByType(t ClauseType) []Clause {
	var out []Clause
	for _, c := range e.Clauses {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// Terms flattens normalized terms across all clauses, keyed by clause type
// and term name ("payment_terms.payment_days"). Later clauses win on key
// collision, matching document order precedence.
func (e *ClauseExtraction) Terms() map[string]string {
	terms := make(map[string]string)
	for _, c := range e.Clauses {
		for k, v := range c.NormalizedTerms {
			terms[string(c.Type)+"."+k] = v
		}
	}
	return terms
}

package domain

// PrioritizedIssue is one negotiation issue ranked by urgency.
type PrioritizedIssue struct {
	// Priority ranks the issue, 1 being most urgent.
	Priority int `json:"priority" validate:"min=1"`

	// Topic names the issue, e.g. "uncapped liability".
	Topic string `json:"topic"`

	// ClauseType ties the issue back to an extracted clause category.
	ClauseType ClauseType `json:"clause_type,omitempty"`

	// Severity carries the underlying risk severity driving the priority.
	Severity RiskLevel `json:"severity,omitempty"`

	// Rationale explains why the issue ranks where it does.
	Rationale string `json:"rationale,omitempty"`
}

// ConcessionTrade pairs something to give with something to get.
type ConcessionTrade struct {
	Give      string `json:"give"`
	Get       string `json:"get"`
	Rationale string `json:"rationale,omitempty"`
}

// RedlineProposal is a concrete clause rewrite to propose.
type RedlineProposal struct {
	ClauseType    ClauseType `json:"clause_type"`
	CurrentText   string     `json:"current_text,omitempty"`
	ProposedText  string     `json:"proposed_text"`
	Justification string     `json:"justification,omitempty"`
}

// NegotiationPhase is one step in the phased negotiation timeline.
type NegotiationPhase struct {
	Phase        string   `json:"phase"`
	DurationDays int      `json:"duration_days" validate:"min=0"`
	Focus        []string `json:"focus,omitempty"`
}

// NegotiationStrategy is the negotiation strategy agent's result payload.
type NegotiationStrategy struct {
	// Issues ranks what to negotiate, most urgent first.
	Issues []PrioritizedIssue `json:"issues"`

	// Tactics lists situational negotiation tactics.
	Tactics []string `json:"tactics,omitempty"`

	// Concessions lists trade-offs to offer.
	Concessions []ConcessionTrade `json:"concessions,omitempty"`

	// Redlines proposes concrete clause rewrites.
	Redlines []RedlineProposal `json:"redlines,omitempty"`

	// WalkAwayConditions lists deal-breakers.
	WalkAwayConditions []string `json:"walk_away_conditions,omitempty"`

	// Timeline phases the negotiation.
	Timeline []NegotiationPhase `json:"timeline,omitempty"`
}

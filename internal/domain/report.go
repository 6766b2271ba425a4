package domain

// ExecutiveSummary is the reporting agent's result payload and the
// top-level summary attached to every ProcessingResult. When the reporting
// agent is not requested, the orchestrator synthesizes one from whatever
// outputs are available.
type ExecutiveSummary struct {
	// Overview is a short prose summary of the contract and its posture.
	Overview string `json:"overview"`

	// KeyRisks lists the most significant risks, highest severity first.
	KeyRisks []string `json:"key_risks,omitempty"`

	// Opportunities lists negotiable terms likely to yield value.
	Opportunities []string `json:"opportunities,omitempty"`

	// Recommendations lists the recommended actions in priority order.
	Recommendations []string `json:"recommendations,omitempty"`

	// NextSteps lists immediate follow-ups for the deal team.
	NextSteps []string `json:"next_steps,omitempty"`

	// Confidence is the summary's own confidence in [0,1].
	Confidence float64 `json:"confidence" validate:"min=0,max=1"`
}

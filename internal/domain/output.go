package domain

import (
	"fmt"
	"time"
)

// ModelAttribution records which provider and model actually produced an
// agent's result, what the call cost, and whether it was served from cache.
// On fallback the attribution names the fallback model, never the primary.
type ModelAttribution struct {
	Provider       string     `json:"provider"`
	Model          string     `json:"model"`
	CostMilliCents MilliCents `json:"cost_milli_cents"`
	Cached         bool       `json:"cached"`
}

// ValidationRecommendation is the cross-validation verdict.
type ValidationRecommendation string

const (
	// ValidationAccept means the secondary model corroborates the result.
	ValidationAccept ValidationRecommendation = "accept"

	// ValidationReview means material differences warrant human review.
	ValidationReview ValidationRecommendation = "review"

	// ValidationReject means the secondary model contradicts the result.
	ValidationReject ValidationRecommendation = "reject"
)

// ValidationResult reports a cross-validation call made on an independent
// provider to corroborate a low-confidence primary result. Disagreement is
// not an error; it surfaces here for downstream human or UI handling.
type ValidationResult struct {
	// Provider and Model identify the validating backend.
	Provider string `json:"provider"`
	Model    string `json:"model"`

	// Agreement reports whether the validator broadly concurs.
	Agreement bool `json:"agreement"`

	// AgreementScore quantifies concurrence in [0,1].
	AgreementScore float64 `json:"agreement_score" validate:"min=0,max=1"`

	// Differences lists material points of disagreement.
	Differences []string `json:"differences,omitempty"`

	// Recommendation is the accept/review/reject verdict.
	Recommendation ValidationRecommendation `json:"recommendation"`

	// CostMilliCents is what the validation call itself cost. It counts
	// toward the per-contract total alongside the primary attribution.
	CostMilliCents MilliCents `json:"cost_milli_cents"`
}

// AgentOutput is the result of one agent execution. It is a tagged union
// keyed by Type: exactly one payload pointer is set on success, none on
// failure. A failed output always carries confidence 0 and at least one
// error; a successful output never has confidence 0.
type AgentOutput struct {
	// Type identifies which agent produced this output.
	Type AgentType `json:"type"`

	// Payload pointers; the one matching Type is set on success.
	Clauses    *ClauseExtraction    `json:"clauses,omitempty"`
	Risk       *RiskAssessment      `json:"risk,omitempty"`
	Benchmarks *BenchmarkReport     `json:"benchmarks,omitempty"`
	Strategy   *NegotiationStrategy `json:"strategy,omitempty"`
	Simulation *SimulationReport    `json:"simulation,omitempty"`
	Report     *ExecutiveSummary    `json:"report,omitempty"`

	// Confidence is the agent's self-assessed output quality in [0,1],
	// computed from output completeness, never taken verbatim from the model.
	Confidence float64 `json:"confidence" validate:"min=0,max=1"`

	// Sources lists provenance references used to build the output.
	Sources []string `json:"sources,omitempty"`

	// DurationMs is wall-clock execution time for the agent.
	DurationMs int64 `json:"duration_ms"`

	// Timestamp records when the agent finished.
	Timestamp time.Time `json:"timestamp"`

	// Attribution names the provider/model that actually answered.
	Attribution ModelAttribution `json:"attribution"`

	// CrossValidation carries the secondary validation result, if any.
	CrossValidation *ValidationResult `json:"cross_validation,omitempty"`

	// Errors is non-empty iff the agent failed (Confidence 0).
	Errors []string `json:"errors,omitempty"`

	// Warnings notes degraded conditions that lowered confidence
	// without failing the agent.
	Warnings []string `json:"warnings,omitempty"`
}

// NewAgentOutput returns an empty output for the given agent type.
func NewAgentOutput(t AgentType) *AgentOutput {
	return &AgentOutput{Type: t, Timestamp: time.Now()}
}

// NewFailedOutput returns a zero-confidence output recording the failure.
func NewFailedOutput(t AgentType, err error) *AgentOutput {
	out := NewAgentOutput(t)
	out.Errors = []string{err.Error()}
	return out
}

// Failed reports whether the agent failed outright.
func (o *AgentOutput) Failed() bool { return len(o.Errors) > 0 }

// AddWarning records a degraded condition on the output.
func (o *AgentOutput) AddWarning(format string, args ...any) {
	o.Warnings = append(o.Warnings, fmt.Sprintf(format, args...))
}

// Validate enforces the failure invariant: confidence 0 must coincide with
// a non-empty error list, and a failed output must report confidence 0.
func (o *AgentOutput) Validate() error {
	if o.Confidence < 0 || o.Confidence > 1 {
		return fmt.Errorf("confidence %f out of range [0,1]", o.Confidence)
	}
	if o.Failed() && o.Confidence != 0 {
		return fmt.Errorf("failed %s output reports non-zero confidence %f", o.Type, o.Confidence)
	}
	if !o.Failed() && o.Confidence == 0 {
		return fmt.Errorf("successful %s output reports zero confidence without errors", o.Type)
	}
	return nil
}

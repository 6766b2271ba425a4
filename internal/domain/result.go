package domain

// ProcessingResult is the immutable snapshot produced exactly once when a
// job reaches a terminal state. It is stored in the registry keyed by job
// id and never mutated afterward.
type ProcessingResult struct {
	JobID      string    `json:"job_id"`
	ContractID string    `json:"contract_id"`
	Status     JobStatus `json:"status"`

	// AgentResults maps each executed agent to its output, success or
	// failure. Entries individually indicate which analyses succeeded,
	// degraded, or failed.
	AgentResults map[AgentType]*AgentOutput `json:"agent_results"`

	// ProcessingTimeMs is total wall-clock time for the job.
	ProcessingTimeMs int64 `json:"processing_time_ms"`

	// Confidence aggregates per-agent confidences over agents that ran.
	Confidence float64 `json:"confidence" validate:"min=0,max=1"`

	// TotalCostMilliCents sums provider costs across all calls.
	TotalCostMilliCents MilliCents `json:"total_cost_milli_cents"`

	// Summary is the executive summary, from the reporting agent when it
	// ran or synthesized by the orchestrator otherwise.
	Summary *ExecutiveSummary `json:"summary,omitempty"`

	// Error is set only for jobs that failed before any stage ran.
	Error string `json:"error,omitempty"`
}

// AggregateConfidence computes overall job confidence as the arithmetic
// mean over the agents that actually ran, failed agents included at
// confidence 0. Agents that never ran contribute nothing, so a healthy
// subset is not penalized for analyses the caller did not request.
func AggregateConfidence(outputs map[AgentType]*AgentOutput) float64 {
	if len(outputs) == 0 {
		return 0
	}
	var sum float64
	for _, out := range outputs {
		sum += out.Confidence
	}
	return sum / float64(len(outputs))
}

// TotalCost sums model attribution costs across outputs, including
// cross-validation calls attributed to their outputs.
func TotalCost(outputs map[AgentType]*AgentOutput) MilliCents {
	var total MilliCents
	for _, out := range outputs {
		total += out.Attribution.CostMilliCents
		if out.CrossValidation != nil {
			total += out.CrossValidation.CostMilliCents
		}
	}
	return total
}

package domain

import "time"

// JobStatus tracks a processing job through its lifecycle.
// Valid transitions: queued → processing → completed|failed, and
// queued → cancelled. Cancellation after execution starts is not supported.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
	JobCancelled  JobStatus = "cancelled"
)

// Terminal reports whether the status is an end state.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed || s == JobCancelled
}

// ProcessingJob is the mutable aggregate root for one contract processing
// request. It is owned exclusively by the job registry; agents and the
// model router only ever see the AgentInput/AgentOutput they need.
type ProcessingJob struct {
	ID             string                     `json:"id"`
	ContractID     string                     `json:"contract_id"`
	RequiredAgents []AgentType                `json:"required_agents"`
	Status         JobStatus                  `json:"status"`
	Priority       Priority                   `json:"priority"`
	Context        ProcessingContext          `json:"context"`
	ContractText   string                     `json:"-"`
	CreatedAt      time.Time                  `json:"created_at"`
	StartedAt      time.Time                  `json:"started_at,omitzero"`
	CompletedAt    time.Time                  `json:"completed_at,omitzero"`
	Outputs        map[AgentType]*AgentOutput `json:"outputs,omitempty"`
	Error          string                     `json:"error,omitempty"`
}

// Snapshot returns a copy safe to hand to callers while the registry
// retains ownership of the live job. The output map is shallow-copied;
// outputs themselves are written once and read-only afterward.
func (j *ProcessingJob) Snapshot() ProcessingJob {
	cp := *j
	cp.ContractText = ""
	if j.Outputs != nil {
		cp.Outputs = make(map[AgentType]*AgentOutput, len(j.Outputs))
		for k, v := range j.Outputs {
			cp.Outputs[k] = v
		}
	}
	cp.RequiredAgents = append([]AgentType(nil), j.RequiredAgents...)
	return cp
}

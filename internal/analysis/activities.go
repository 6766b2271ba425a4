// Package analysis exposes contract analysis as Temporal activities. The
// heavy lifting lives in the orchestrator's stage executor; this package
// adapts it to activity semantics: heartbeats, workflow context, and
// lifecycle event emission.
package analysis

import (
	"context"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/orchestrator"
	"github.com/ahrav/contract-iq/pkg/activity"
	"github.com/ahrav/contract-iq/pkg/events"
)

// StageResponse carries one stage's outputs back to the workflow.
type StageResponse struct {
	Outputs map[domain.AgentType]*domain.AgentOutput `json:"outputs"`
}

// Activities implements the contract analysis activity set.
type Activities struct {
	activity.BaseActivities
	executor *orchestrator.StageExecutor
}

// NewActivities creates the analysis activities over a stage executor.
func NewActivities(base activity.BaseActivities, executor *orchestrator.StageExecutor) *Activities {
	return &Activities{BaseActivities: base, executor: executor}
}

// ExecuteStage runs one stage of agents concurrently. Agent failures are
// absorbed into zero-confidence outputs, so the activity itself only fails
// on cancellation; Temporal retries would otherwise re-run paid model
// calls whose failures are already represented in the outputs.
func (a *Activities) ExecuteStage(ctx context.Context, req orchestrator.StageRequest) (*StageResponse, error) {
	wfCtx := a.GetWorkflowContext(ctx)
	req.Attempt = activity.Attempt(ctx)
	activity.SafeLog(ctx, "executing analysis stage",
		"workflow_id", wfCtx.WorkflowID,
		"agents", req.Stage,
		"attempt", req.Attempt)
	a.RecordHeartbeat(ctx, "stage started")

	outputs := a.executor.Run(ctx, &req)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for t, out := range outputs {
		a.EmitEventSafe(ctx, events.NewEnvelope(
			events.TypeAgentCompleted, "analysis-activity", wfCtx.WorkflowID, "",
			map[string]any{
				"agent_type":       t,
				"confidence":       out.Confidence,
				"failed":           out.Failed(),
				"cost_milli_cents": out.Attribution.CostMilliCents,
			}).WithIdempotencySuffix(string(t)),
			"agent completion")
	}

	a.RecordHeartbeat(ctx, "stage finished")
	return &StageResponse{Outputs: outputs}, nil
}

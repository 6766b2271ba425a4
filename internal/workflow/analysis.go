// Package workflow orchestrates contract analysis through Temporal. The
// workflow plans stages deterministically from the dependency graph and
// delegates all model calls to activities; workflow code uses
// workflow-safe APIs only.
package workflow

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ahrav/contract-iq/internal/analysis"
	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/orchestrator"
)

// TaskQueue is the Temporal task queue for contract analysis.
const TaskQueue = "contract-analysis"

// ContractAnalysisWorkflow runs one contract through its planned stages.
// Stage planning happens inside the workflow from pure inputs, so replays
// reproduce the identical plan.
func ContractAnalysisWorkflow(
	ctx workflow.Context,
	req domain.ContractProcessingInput,
) (*domain.ProcessingResult, error) {
	// Version gate enables safe evolution and backward compatibility.
	const currentVersion = 1
	_ = workflow.GetVersion(ctx, "contract-analysis.v", workflow.DefaultVersion, currentVersion)

	req.ApplyDefaults()
	if err := req.Validate(); err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"invalid contract processing input", "Validation", err)
	}

	plan, err := orchestrator.BuildStagePlan(req.RequiredAgents, domain.DefaultDependencyGraph())
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(
			"unsatisfiable agent set", "Planning", err)
	}

	ao := workflow.ActivityOptions{
		StartToCloseTimeout: 10 * time.Minute,
		HeartbeatTimeout:    time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, ao)

	info := workflow.GetInfo(ctx)
	start := workflow.Now(ctx)
	logger := workflow.GetLogger(ctx)
	logger.Info("contract analysis started",
		"contract_id", req.ContractID,
		"stages", len(plan),
		"agents", plan.AgentCount())

	var activities *analysis.Activities
	outputs := make(map[domain.AgentType]*domain.AgentOutput)
	for _, stage := range plan {
		var resp analysis.StageResponse
		err := workflow.ExecuteActivity(ctx, activities.ExecuteStage, orchestrator.StageRequest{
			Stage:        stage,
			ContractText: req.ContractText,
			Context:      req.Context,
			Prior:        outputs,
			NodeID:       info.WorkflowExecution.ID,
		}).Get(ctx, &resp)
		if err != nil {
			return nil, err
		}
		for t, out := range resp.Outputs {
			outputs[t] = out
		}
	}

	result := &domain.ProcessingResult{
		JobID:               info.WorkflowExecution.ID,
		ContractID:          req.ContractID,
		Status:              domain.JobCompleted,
		AgentResults:        outputs,
		ProcessingTimeMs:    workflow.Now(ctx).Sub(start).Milliseconds(),
		Confidence:          domain.AggregateConfidence(outputs),
		TotalCostMilliCents: domain.TotalCost(outputs),
	}
	if report, ok := outputs[domain.AgentReporting]; ok && report.Report != nil {
		result.Summary = report.Report
	} else {
		result.Summary = orchestrator.SynthesizeSummary(outputs, result.Confidence)
	}

	logger.Info("contract analysis completed",
		"contract_id", req.ContractID,
		"confidence", result.Confidence,
		"total_cost_milli_cents", result.TotalCostMilliCents)
	return result, nil
}

// Package worker exposes helpers to initialize and register the contract
// analysis workflow and activities with a Temporal worker.
package worker

import (
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/ahrav/contract-iq/internal/agent"
	"github.com/ahrav/contract-iq/internal/analysis"
	"github.com/ahrav/contract-iq/internal/llm"
	"github.com/ahrav/contract-iq/internal/orchestrator"
	"github.com/ahrav/contract-iq/internal/routing"
	"github.com/ahrav/contract-iq/internal/workflow"
	"github.com/ahrav/contract-iq/pkg/activity"
	"github.com/ahrav/contract-iq/pkg/events"
)

// RegisterAll registers the workflow and activities with the worker. Not
// thread-safe; call once during startup before the worker starts.
func RegisterAll(w sdkworker.Worker, client llm.Client, table routing.Table, sink events.EventSink) {
	if sink == nil {
		sink = events.NewNoOpEventSink()
	}
	base := activity.NewBaseActivities(sink)

	router := routing.NewModelRouter(client, table)
	agents := agent.NewRegistry(router)
	executor := orchestrator.NewStageExecutor(agents, orchestrator.DefaultAgentTimeout)
	analysisActivities := analysis.NewActivities(base, executor)

	w.RegisterWorkflow(workflow.ContractAnalysisWorkflow)
	w.RegisterActivity(analysisActivities.ExecuteStage)
}

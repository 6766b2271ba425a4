package workflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/testsuite"

	"github.com/ahrav/contract-iq/internal/agent"
	"github.com/ahrav/contract-iq/internal/analysis"
	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/llm"
	"github.com/ahrav/contract-iq/internal/llm/configuration"
	"github.com/ahrav/contract-iq/internal/orchestrator"
	"github.com/ahrav/contract-iq/internal/routing"
	"github.com/ahrav/contract-iq/pkg/activity"
	"github.com/ahrav/contract-iq/pkg/events"
)

const sampleContract = `MASTER SUBSCRIPTION AGREEMENT
1. Limitation of Liability. Neither party's aggregate liability shall exceed
the fees paid in the twelve months preceding the claim.
2. Payment Terms. Invoices are due within thirty days of receipt.
3. Renewal. This agreement renews automatically for successive one year terms
unless either party gives sixty days written notice.`

// newStubActivities wires the full activity stack against the deterministic
// stub provider so workflow tests run without network calls.
func newStubActivities(t *testing.T) *analysis.Activities {
	t.Helper()
	client, err := llm.NewClient(configuration.DefaultConfig())
	require.NoError(t, err)
	router := routing.NewModelRouter(client, routing.StubTable())
	executor := orchestrator.NewStageExecutor(agent.NewRegistry(router), orchestrator.DefaultAgentTimeout)
	return analysis.NewActivities(activity.NewBaseActivities(events.NewNoOpEventSink()), executor)
}

func validInput() domain.ContractProcessingInput {
	return domain.ContractProcessingInput{
		ContractID:   "contract-42",
		ContractText: sampleContract,
	}
}

func TestContractAnalysisWorkflow(t *testing.T) {
	testSuite := &testsuite.WorkflowTestSuite{}

	t.Run("default agent set completes end to end", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		env.RegisterActivity(newStubActivities(t).ExecuteStage)

		env.ExecuteWorkflow(ContractAnalysisWorkflow, validInput())
		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var result domain.ProcessingResult
		require.NoError(t, env.GetWorkflowResult(&result))
		assert.Equal(t, "contract-42", result.ContractID)
		assert.Equal(t, domain.JobCompleted, result.Status)
		assert.Len(t, result.AgentResults, len(domain.DefaultRequiredAgents))
		assert.Positive(t, result.Confidence)
		require.NotNil(t, result.Summary)
		assert.NotEmpty(t, result.Summary.Overview)
	})

	t.Run("reporting output becomes the summary", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()
		env.RegisterActivity(newStubActivities(t).ExecuteStage)

		input := validInput()
		input.RequiredAgents = append([]domain.AgentType(nil), domain.AnalysisAgentTypes...)
		env.ExecuteWorkflow(ContractAnalysisWorkflow, input)
		require.True(t, env.IsWorkflowCompleted())
		require.NoError(t, env.GetWorkflowError())

		var result domain.ProcessingResult
		require.NoError(t, env.GetWorkflowResult(&result))
		require.Contains(t, result.AgentResults, domain.AgentReporting)
		require.NotNil(t, result.Summary)
		assert.Equal(t, result.AgentResults[domain.AgentReporting].Report.Overview, result.Summary.Overview)
	})

	t.Run("invalid input fails without running activities", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()

		env.ExecuteWorkflow(ContractAnalysisWorkflow, domain.ContractProcessingInput{ContractID: "x"})
		require.True(t, env.IsWorkflowCompleted())

		err := env.GetWorkflowError()
		require.Error(t, err)
		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Validation", appErr.Type())
		assert.True(t, appErr.NonRetryable())
	})

	t.Run("routing-only agent request fails planning", func(t *testing.T) {
		env := testSuite.NewTestWorkflowEnvironment()

		input := validInput()
		input.RequiredAgents = []domain.AgentType{domain.AgentCrossValidation}
		env.ExecuteWorkflow(ContractAnalysisWorkflow, input)
		require.True(t, env.IsWorkflowCompleted())

		err := env.GetWorkflowError()
		require.Error(t, err)
		var appErr *temporal.ApplicationError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "Validation", appErr.Type())
	})

	t.Run("repeated executions produce identical results", func(t *testing.T) {
		var first domain.ProcessingResult
		for i := range 3 {
			env := testSuite.NewTestWorkflowEnvironment()
			env.RegisterActivity(newStubActivities(t).ExecuteStage)

			env.ExecuteWorkflow(ContractAnalysisWorkflow, validInput())
			require.True(t, env.IsWorkflowCompleted())
			require.NoError(t, env.GetWorkflowError())

			var result domain.ProcessingResult
			require.NoError(t, env.GetWorkflowResult(&result))
			if i == 0 {
				first = result
				continue
			}
			assert.Equal(t, first.Confidence, result.Confidence)
			assert.Equal(t, first.TotalCostMilliCents, result.TotalCostMilliCents)
			assert.Equal(t, len(first.AgentResults), len(result.AgentResults))
		}
	})
}

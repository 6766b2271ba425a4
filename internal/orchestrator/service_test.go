package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/contract-iq/internal/agent"
	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/llm"
	"github.com/ahrav/contract-iq/internal/llm/configuration"
	"github.com/ahrav/contract-iq/internal/routing"
)

const sampleContract = `MASTER SUBSCRIPTION AGREEMENT
1. Limitation of Liability. Neither party's aggregate liability shall exceed
the fees paid in the twelve months preceding the claim.
2. Payment Terms. Invoices are due within thirty days of receipt.
3. Renewal. This agreement renews automatically for successive one year terms
unless either party gives sixty days written notice.`

// newStubService wires the full stack against the deterministic stub
// provider so no network calls are made.
func newStubService(t *testing.T) *Service {
	t.Helper()
	client, err := llm.NewClient(configuration.DefaultConfig())
	require.NoError(t, err)
	router := routing.NewModelRouter(client, routing.StubTable())
	return NewService(agent.NewRegistry(router))
}

func sampleInput() *domain.ContractProcessingInput {
	return &domain.ContractProcessingInput{
		ContractID:   "contract-42",
		ContractText: sampleContract,
		Context: domain.ProcessingContext{
			ContractType: "saas",
			Objectives:   []string{"reduce renewal lock-in"},
		},
	}
}

func TestServiceProcessContractDefaultAgents(t *testing.T) {
	svc := newStubService(t)

	result, err := svc.ProcessContract(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, domain.JobCompleted, result.Status)
	assert.Equal(t, "contract-42", result.ContractID)
	require.Len(t, result.AgentResults, len(domain.DefaultRequiredAgents))
	for _, agentType := range domain.DefaultRequiredAgents {
		out, ok := result.AgentResults[agentType]
		require.True(t, ok, "missing output for %s", agentType)
		assert.False(t, out.Failed(), "%s failed: %v", agentType, out.Errors)
		assert.Positive(t, out.Confidence, "%s confidence", agentType)
		assert.NoError(t, out.Validate())
	}
	assert.Positive(t, result.Confidence)
	require.NotNil(t, result.Summary, "summary must be synthesized when reporting did not run")
	assert.NotEmpty(t, result.Summary.Overview)
}

func TestServiceProcessFullAgentSet(t *testing.T) {
	svc := newStubService(t)
	in := sampleInput()
	in.RequiredAgents = append([]domain.AgentType(nil), domain.AnalysisAgentTypes...)

	result, err := svc.ProcessContract(context.Background(), in)
	require.NoError(t, err)

	require.Len(t, result.AgentResults, len(domain.AnalysisAgentTypes))
	report := result.AgentResults[domain.AgentReporting]
	require.NotNil(t, report)
	require.NotNil(t, report.Report)
	// The reporting agent's summary wins over synthesis.
	assert.Equal(t, report.Report, result.Summary)

	// Downstream agents consumed structured upstream outputs.
	strategy := result.AgentResults[domain.AgentNegotiationStrategy]
	require.NotNil(t, strategy.Strategy)
	assert.Contains(t, strategy.Sources, string(domain.AgentRiskScoring))
	assert.Contains(t, strategy.Sources, string(domain.AgentBenchmarking))
}

func TestServiceDeterministicOverStub(t *testing.T) {
	svc := newStubService(t)

	first, err := svc.ProcessContract(context.Background(), sampleInput())
	require.NoError(t, err)
	second, err := svc.ProcessContract(context.Background(), sampleInput())
	require.NoError(t, err)

	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t,
		len(first.AgentResults[domain.AgentClauseExtraction].Clauses.Clauses),
		len(second.AgentResults[domain.AgentClauseExtraction].Clauses.Clauses))
}

func TestServiceRiskScoringAloneDegrades(t *testing.T) {
	svc := newStubService(t)
	in := sampleInput()
	in.RequiredAgents = []domain.AgentType{domain.AgentRiskScoring}

	result, err := svc.ProcessContract(context.Background(), in)
	require.NoError(t, err)

	// The job completes; the agent's hard dependency failure is absorbed
	// as a zero-confidence output.
	assert.Equal(t, domain.JobCompleted, result.Status)
	out := result.AgentResults[domain.AgentRiskScoring]
	require.NotNil(t, out)
	assert.True(t, out.Failed())
	assert.Zero(t, out.Confidence)
	assert.Contains(t, strings.Join(out.Errors, " "), "clauses")
	assert.Zero(t, result.Confidence)
}

func TestServiceBenchmarkingAloneDegradesWithWarning(t *testing.T) {
	svc := newStubService(t)
	in := sampleInput()
	in.RequiredAgents = []domain.AgentType{domain.AgentBenchmarking}

	result, err := svc.ProcessContract(context.Background(), in)
	require.NoError(t, err)

	out := result.AgentResults[domain.AgentBenchmarking]
	require.NotNil(t, out)
	assert.False(t, out.Failed())
	assert.NotEmpty(t, out.Warnings, "raw-text benchmarking must carry a warning")
	assert.Positive(t, out.Confidence)
}

func TestServiceCancelQueuedJob(t *testing.T) {
	svc := newStubService(t)

	job, err := svc.Submit(sampleInput())
	require.NoError(t, err)
	require.Equal(t, domain.JobQueued, job.Status)

	require.NoError(t, svc.Cancel(context.Background(), job.ID))

	status, err := svc.Status(job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobCancelled, status.Status)

	// The cancelled job is no longer runnable.
	_, err = svc.Process(context.Background(), job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotRunnable)
}

func TestServiceCancelCompletedJobRejected(t *testing.T) {
	svc := newStubService(t)

	job, err := svc.Submit(sampleInput())
	require.NoError(t, err)
	_, err = svc.Process(context.Background(), job.ID)
	require.NoError(t, err)

	err = svc.Cancel(context.Background(), job.ID)
	assert.ErrorIs(t, err, domain.ErrJobNotRunnable)
}

func TestServiceSubmitRejectsInvalidInput(t *testing.T) {
	svc := newStubService(t)

	_, err := svc.Submit(&domain.ContractProcessingInput{ContractID: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestServiceResultLifecycle(t *testing.T) {
	svc := newStubService(t)

	job, err := svc.Submit(sampleInput())
	require.NoError(t, err)

	_, err = svc.Result(job.ID)
	require.Error(t, err, "no result before processing")

	processed, err := svc.Process(context.Background(), job.ID)
	require.NoError(t, err)

	stored, err := svc.Result(job.ID)
	require.NoError(t, err)
	assert.Equal(t, processed, stored)

	_, err = svc.Result("missing-job")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

// scriptedRouter returns canned content per agent type for end-to-end
// pipeline tests with controlled payloads.
type scriptedRouter struct {
	content map[domain.AgentType]string
}

func (s *scriptedRouter) Invoke(_ context.Context, agentType domain.AgentType, _ routing.Prompt) (*routing.Invocation, error) {
	content, ok := s.content[agentType]
	if !ok {
		return nil, errors.New("no scripted content for " + string(agentType))
	}
	return &routing.Invocation{
		Content: content,
		Attribution: domain.ModelAttribution{
			Provider:       "scripted",
			Model:          "test-model",
			CostMilliCents: 300,
		},
	}, nil
}

func (s *scriptedRouter) MaybeCrossValidate(context.Context, domain.AgentType, float64, routing.Prompt, string) *domain.ValidationResult {
	return nil
}

// TestServiceSaaSNegotiationScenario runs the pipeline over a SaaS
// contract with an uncapped liability carve-out and below-market payment
// terms, and checks that each finding survives into the right output:
// risk scoring flags the liability exposure, benchmarking marks payment
// terms as negotiable, and the strategy leads with the liability issue.
func TestServiceSaaSNegotiationScenario(t *testing.T) {
	router := &scriptedRouter{content: map[domain.AgentType]string{
		domain.AgentClauseExtraction: `{
			"detected_contract_type": "saas_subscription",
			"clauses": [
				{"id": "clause-1", "type": "liability", "title": "Limitation of Liability",
				 "text": "Liability capped at twelve months of fees, excluding indemnification claims.",
				 "normalized_terms": {"liability_cap": "12_months_fees"}, "confidence": 0.9},
				{"id": "clause-2", "type": "payment_terms", "title": "Payment Terms",
				 "text": "Invoices are due within fifteen days of receipt.",
				 "normalized_terms": {"payment_days": "15"}, "confidence": 0.95}
			]
		}`,
		domain.AgentRiskScoring: `{
			"overall_score": 68,
			"clause_risks": [
				{"clause_id": "clause-1", "score": 82, "level": "critical",
				 "rationale": "Indemnification carve-out leaves exposure effectively uncapped."}
			],
			"factors": [
				{"name": "uncapped_indemnity_exposure", "severity": "critical", "likelihood": 0.4,
				 "description": "Indemnification claims fall outside the liability cap.",
				 "mitigations": ["Fold indemnification into the cap"]}
			]
		}`,
		domain.AgentBenchmarking: `{
			"segment": "mid_market_saas",
			"metrics": [
				{"name": "payment_terms_days", "contract_value": "15", "market_median": "45",
				 "percentile": 5, "recommendation": "negotiate",
				 "notes": "Net-15 is a far outlier against the net-45 market norm."}
			]
		}`,
		domain.AgentNegotiationStrategy: `{
			"issues": [
				{"priority": 1, "topic": "Liability cap carve-out", "clause_type": "liability",
				 "severity": "critical", "rationale": "Indemnification exposure must come under the cap."},
				{"priority": 2, "topic": "Payment terms", "clause_type": "payment_terms",
				 "severity": "medium", "rationale": "Net-15 sits far below the market median."}
			],
			"tactics": ["Anchor on the market median"],
			"concessions": [{"give": "Longer term", "get": "Net-45 payment terms"}],
			"redlines": [{"clause_type": "liability",
				"proposed_text": "Aggregate liability, including indemnification, shall not exceed twelve months of fees."}],
			"walk_away_conditions": ["Uncapped indemnification"],
			"timeline": [{"phase": "opening", "duration_days": 7}]
		}`,
	}}
	svc := NewService(agent.NewRegistry(router))

	result, err := svc.ProcessContract(context.Background(), sampleInput())
	require.NoError(t, err)
	require.Equal(t, domain.JobCompleted, result.Status)

	risk := result.AgentResults[domain.AgentRiskScoring]
	require.NotNil(t, risk)
	require.NotNil(t, risk.Risk)
	require.NotEmpty(t, risk.Risk.ClauseRisks)
	assert.Equal(t, "clause-1", risk.Risk.ClauseRisks[0].ClauseID)
	assert.True(t, risk.Risk.ClauseRisks[0].Level.AtLeast(domain.RiskHigh),
		"liability clause must be flagged at high severity or above")
	require.NotEmpty(t, risk.Risk.HighSeverityFactors())

	bench := result.AgentResults[domain.AgentBenchmarking]
	require.NotNil(t, bench)
	require.NotNil(t, bench.Benchmarks)
	negotiable := bench.Benchmarks.Negotiable()
	require.NotEmpty(t, negotiable)
	assert.Equal(t, "payment_terms_days", negotiable[0].Name)

	strategy := result.AgentResults[domain.AgentNegotiationStrategy]
	require.NotNil(t, strategy)
	require.NotNil(t, strategy.Strategy)
	require.NotEmpty(t, strategy.Strategy.Issues)
	top := strategy.Strategy.Issues[0]
	assert.Equal(t, 1, top.Priority)
	assert.Equal(t, domain.ClauseLiability, top.ClauseType)
	assert.True(t, top.Severity.AtLeast(domain.RiskHigh))
}

// failingRouter fails every invocation, simulating total provider outage.
type failingRouter struct{}

func (f *failingRouter) Invoke(context.Context, domain.AgentType, routing.Prompt) (*routing.Invocation, error) {
	return nil, errors.New("all providers unavailable")
}

func (f *failingRouter) MaybeCrossValidate(context.Context, domain.AgentType, float64, routing.Prompt, string) *domain.ValidationResult {
	return nil
}

func TestServiceAbsorbsTotalProviderOutage(t *testing.T) {
	svc := NewService(agent.NewRegistry(&failingRouter{}))

	result, err := svc.ProcessContract(context.Background(), sampleInput())
	require.NoError(t, err, "provider outage must not fail the job itself")

	assert.Equal(t, domain.JobCompleted, result.Status)
	require.Len(t, result.AgentResults, len(domain.DefaultRequiredAgents))
	for agentType, out := range result.AgentResults {
		assert.True(t, out.Failed(), "%s should have failed", agentType)
		assert.Zero(t, out.Confidence)
	}
	assert.Zero(t, result.Confidence)
	require.NotNil(t, result.Summary)
	assert.NotEmpty(t, result.Summary.KeyRisks, "failed analyses must be surfaced")
}

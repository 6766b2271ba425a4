package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/contract-iq/internal/agent"
	"github.com/ahrav/contract-iq/internal/domain"
)

func TestStageRequestAttemptFeedsRetryCount(t *testing.T) {
	executor := NewStageExecutor(agent.NewRegistry(&failingRouter{}), 0)
	a, err := executor.agents.Get(domain.AgentClauseExtraction)
	require.NoError(t, err)

	tests := []struct {
		name    string
		attempt int32
		want    int
	}{
		{name: "outside an activity", attempt: 0, want: 0},
		{name: "first attempt", attempt: 1, want: 0},
		{name: "third attempt", attempt: 3, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := executor.buildInput(a, &StageRequest{
				ContractText: "contract",
				Attempt:      tt.attempt,
			})
			assert.Equal(t, tt.want, in.RetryCount)
		})
	}
}

func TestBuildInputDropsFailedDependencies(t *testing.T) {
	executor := NewStageExecutor(agent.NewRegistry(&failingRouter{}), 0)
	a, err := executor.agents.Get(domain.AgentNegotiationStrategy)
	require.NoError(t, err)

	clauses := &domain.ClauseExtraction{Clauses: []domain.Clause{{ID: "c1", Type: domain.ClauseLiability}}}
	clauseOut := domain.NewAgentOutput(domain.AgentClauseExtraction)
	clauseOut.Clauses = clauses
	clauseOut.Confidence = 0.9

	in := executor.buildInput(a, &StageRequest{
		ContractText: "contract",
		Prior: map[domain.AgentType]*domain.AgentOutput{
			domain.AgentClauseExtraction: clauseOut,
			domain.AgentRiskScoring:      domain.NewFailedOutput(domain.AgentRiskScoring, assert.AnError),
		},
	})

	assert.Equal(t, clauses, in.Clauses)
	assert.Nil(t, in.Risk, "failed dependency output reads as absent")
}

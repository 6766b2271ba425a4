package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAgentType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    AgentType
		wantErr bool
	}{
		{name: "clause extraction", input: "clause_extraction", want: AgentClauseExtraction},
		{name: "risk scoring", input: "risk_scoring", want: AgentRiskScoring},
		{name: "reporting", input: "reporting", want: AgentReporting},
		{name: "routing-only cross validation rejected", input: "cross_validation", wantErr: true},
		{name: "routing-only cost optimization rejected", input: "cost_optimization", wantErr: true},
		{name: "unknown", input: "sentiment", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAgentType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrUnknownAgentType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgentTypeIsAnalysis(t *testing.T) {
	for _, a := range AnalysisAgentTypes {
		assert.True(t, a.IsAnalysis(), "%s should be schedulable", a)
	}
	assert.False(t, AgentCrossValidation.IsAnalysis())
	assert.False(t, AgentCostOptimization.IsAnalysis())
}

func TestDefaultDependencyGraph(t *testing.T) {
	g := DefaultDependencyGraph()

	assert.Empty(t, g.Dependencies(AgentClauseExtraction))
	assert.Equal(t, []AgentType{AgentClauseExtraction}, g.Dependencies(AgentRiskScoring))
	assert.Contains(t, g.Dependencies(AgentNegotiationStrategy), AgentRiskScoring)
	assert.Contains(t, g.Dependencies(AgentReporting), AgentNegotiationStrategy)

	// Every agent and every dependency must be a schedulable analysis type.
	for agent, deps := range g {
		assert.True(t, agent.IsAnalysis())
		for _, dep := range deps {
			assert.True(t, dep.IsAnalysis(), "%s depends on non-analysis %s", agent, dep)
		}
	}
}

func TestSortAgentTypes(t *testing.T) {
	agents := []AgentType{AgentSimulation, AgentBenchmarking, AgentRiskScoring}
	SortAgentTypes(agents)
	assert.Equal(t, []AgentType{AgentBenchmarking, AgentRiskScoring, AgentSimulation}, agents)
}

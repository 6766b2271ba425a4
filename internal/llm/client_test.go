package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/llm/configuration"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

func TestStubComplete(t *testing.T) {
	t.Run("deterministic per agent type", func(t *testing.T) {
		req := &transport.Request{
			Provider:  configuration.ProviderStub,
			Model:     "gpt-4o",
			AgentType: string(domain.AgentClauseExtraction),
			Prompt:    "extract clauses from this contract",
		}

		first, err := stubComplete(req)
		require.NoError(t, err)
		second, err := stubComplete(req)
		require.NoError(t, err)

		assert.Equal(t, first.Content, second.Content)
		assert.Equal(t, first.Usage, second.Usage)
		assert.Equal(t, configuration.ProviderStub, first.Provider)
		assert.Equal(t, "gpt-4o", first.Model)
		assert.Equal(t, transport.FinishStop, first.FinishReason)
		assert.Positive(t, first.Usage.TotalTokens)
	})

	t.Run("unknown agent type gets a generic payload", func(t *testing.T) {
		resp, err := stubComplete(&transport.Request{Provider: configuration.ProviderStub, AgentType: "mystery"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"content": "stub response"}`, resp.Content)
	})
}

// Stub payloads must parse into the same domain types the agents decode
// into, otherwise offline runs diverge from real provider behavior.
func TestStubPayloadsMatchAgentSchemas(t *testing.T) {
	t.Run("clause extraction", func(t *testing.T) {
		var out domain.ClauseExtraction
		require.NoError(t, json.Unmarshal([]byte(stubPayloads[domain.AgentClauseExtraction]), &out))
		assert.Len(t, out.Clauses, 3)
		assert.Equal(t, "saas_subscription", out.DetectedContractType)
		for _, c := range out.Clauses {
			assert.NotEmpty(t, c.ID)
			assert.NotEmpty(t, c.Text)
			assert.Positive(t, c.Confidence)
		}
	})

	t.Run("risk scoring", func(t *testing.T) {
		var out domain.RiskAssessment
		require.NoError(t, json.Unmarshal([]byte(stubPayloads[domain.AgentRiskScoring]), &out))
		assert.Equal(t, float64(62), out.OverallScore)
		assert.Len(t, out.ClauseRisks, 2)
		require.Len(t, out.Factors, 1)
		assert.NotEmpty(t, out.Factors[0].Mitigations)
	})

	t.Run("benchmarking", func(t *testing.T) {
		var out domain.BenchmarkReport
		require.NoError(t, json.Unmarshal([]byte(stubPayloads[domain.AgentBenchmarking]), &out))
		assert.Len(t, out.Metrics, 2)
		assert.NotEmpty(t, out.Segment)
	})

	t.Run("negotiation strategy", func(t *testing.T) {
		var out domain.NegotiationStrategy
		require.NoError(t, json.Unmarshal([]byte(stubPayloads[domain.AgentNegotiationStrategy]), &out))
		assert.NotEmpty(t, out.Issues)
		assert.NotEmpty(t, out.Redlines)
		assert.NotEmpty(t, out.WalkAwayConditions)
	})

	t.Run("simulation", func(t *testing.T) {
		var out domain.SimulationReport
		require.NoError(t, json.Unmarshal([]byte(stubPayloads[domain.AgentSimulation]), &out))
		require.Len(t, out.Scenarios, 3)
		var total float64
		for _, s := range out.Scenarios {
			total += s.Probability
		}
		assert.InDelta(t, 1.0, total, 0.001)
		assert.Positive(t, out.MonteCarlo.Runs)
	})

	t.Run("reporting", func(t *testing.T) {
		var out domain.ExecutiveSummary
		require.NoError(t, json.Unmarshal([]byte(stubPayloads[domain.AgentReporting]), &out))
		assert.NotEmpty(t, out.Overview)
		assert.NotEmpty(t, out.KeyRisks)
		assert.NotEmpty(t, out.Recommendations)
	})
}

func TestClientStubInterception(t *testing.T) {
	c, err := NewClient(configuration.DefaultConfig())
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), &transport.Request{
		Provider:  configuration.ProviderStub,
		Model:     "gemini-1.5-flash",
		AgentType: string(domain.AgentBenchmarking),
		Prompt:    "benchmark this contract",
	})
	require.NoError(t, err)
	assert.Equal(t, configuration.ProviderStub, resp.Provider)
	assert.False(t, resp.Cached)

	// Stub calls bypass the pipeline, so no breaker is ever registered.
	assert.Empty(t, c.ProviderHealth())
}

func TestNewClientRejectsUnknownProvider(t *testing.T) {
	cfg := configuration.DefaultConfig()
	cfg.Providers["anthropic"] = configuration.ProviderConfig{}
	_, err := NewClient(cfg)
	assert.Error(t, err)
}

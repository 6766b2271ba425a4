package routing

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/llm/circuitbreaker"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// fakeClient scripts responses per provider for routing tests.
type fakeClient struct {
	responses map[string]*transport.Response
	errs      map[string]error
	calls     []*transport.Request
}

func (f *fakeClient) Complete(_ context.Context, req *transport.Request) (*transport.Response, error) {
	f.calls = append(f.calls, req)
	if err, ok := f.errs[req.Provider]; ok {
		return nil, err
	}
	if resp, ok := f.responses[req.Provider]; ok {
		out := *resp
		out.Model = req.Model
		return &out, nil
	}
	return nil, errors.New("unscripted provider " + req.Provider)
}

func (f *fakeClient) ProviderHealth() map[string]circuitbreaker.Health { return nil }

func okResponse(provider, content string) *transport.Response {
	return &transport.Response{
		Content:                 content,
		Provider:                provider,
		FinishReason:            transport.FinishStop,
		EstimatedCostMilliCents: 1200,
	}
}

func TestModelRouterInvokePrimary(t *testing.T) {
	client := &fakeClient{responses: map[string]*transport.Response{
		"openai": okResponse("openai", `{"ok":true}`),
	}}
	router := NewModelRouter(client, nil)

	inv, err := router.Invoke(context.Background(), domain.AgentRiskScoring, Prompt{User: "score this"})
	require.NoError(t, err)

	assert.False(t, inv.UsedFallback)
	assert.Equal(t, "openai", inv.Attribution.Provider)
	assert.Equal(t, "gpt-4o", inv.Attribution.Model)
	assert.Equal(t, domain.MilliCents(1200), inv.Attribution.CostMilliCents)
	require.Len(t, client.calls, 1)
	assert.Equal(t, string(domain.AgentRiskScoring), client.calls[0].AgentType)
	assert.True(t, client.calls[0].JSONResponse)
}

func TestModelRouterFallbackOnPrimaryFailure(t *testing.T) {
	client := &fakeClient{
		errs:      map[string]error{"openai": errors.New("rate limited")},
		responses: map[string]*transport.Response{"gemini": okResponse("gemini", `{"ok":true}`)},
	}
	router := NewModelRouter(client, nil)

	inv, err := router.Invoke(context.Background(), domain.AgentRiskScoring, Prompt{User: "score this"})
	require.NoError(t, err)

	assert.True(t, inv.UsedFallback)
	// Attribution names the fallback, never the primary.
	assert.Equal(t, "gemini", inv.Attribution.Provider)
	assert.Equal(t, "gemini-1.5-pro", inv.Attribution.Model)
	assert.Len(t, client.calls, 2)
}

func TestModelRouterFallbackTriedExactlyOnce(t *testing.T) {
	client := &fakeClient{errs: map[string]error{
		"openai": errors.New("down"),
		"gemini": errors.New("also down"),
	}}
	router := NewModelRouter(client, nil)

	_, err := router.Invoke(context.Background(), domain.AgentRiskScoring, Prompt{User: "score this"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fallback")
	assert.Len(t, client.calls, 2, "primary once, fallback once, nothing more")
}

func TestModelRouterUnknownAgent(t *testing.T) {
	router := NewModelRouter(&fakeClient{}, nil)
	_, err := router.Invoke(context.Background(), domain.AgentCostOptimization, Prompt{})
	assert.ErrorIs(t, err, ErrNoStrategy)
}

func TestMaybeCrossValidate(t *testing.T) {
	verdict := `{"agreement": false, "agreement_score": 0.4,
		"differences": ["overall score too low"], "recommendation": "review"}`

	t.Run("triggers below threshold", func(t *testing.T) {
		client := &fakeClient{responses: map[string]*transport.Response{
			"gemini": okResponse("gemini", verdict),
		}}
		router := NewModelRouter(client, nil)

		cv := router.MaybeCrossValidate(context.Background(), domain.AgentRiskScoring, 0.5, Prompt{User: "task"}, `{"overall_score": 10}`)
		require.NotNil(t, cv)
		assert.False(t, cv.Agreement)
		assert.InDelta(t, 0.4, cv.AgreementScore, 1e-9)
		assert.Equal(t, domain.ValidationReview, cv.Recommendation)
		assert.Equal(t, "gemini", cv.Provider)
		require.Len(t, client.calls, 1)
		assert.Equal(t, string(domain.AgentCrossValidation), client.calls[0].AgentType)
	})

	t.Run("carries the validator call cost", func(t *testing.T) {
		resp := okResponse("gemini", verdict)
		resp.EstimatedCostMilliCents = 7777
		client := &fakeClient{responses: map[string]*transport.Response{"gemini": resp}}
		router := NewModelRouter(client, nil)

		cv := router.MaybeCrossValidate(context.Background(), domain.AgentRiskScoring, 0.5, Prompt{User: "task"}, "{}")
		require.NotNil(t, cv)
		assert.Equal(t, domain.MilliCents(7777), cv.CostMilliCents)
	})

	t.Run("skipped at or above threshold", func(t *testing.T) {
		client := &fakeClient{}
		router := NewModelRouter(client, nil)

		cv := router.MaybeCrossValidate(context.Background(), domain.AgentRiskScoring, 0.75, Prompt{}, "{}")
		assert.Nil(t, cv)
		assert.Empty(t, client.calls)
	})

	t.Run("skipped for agents without validation", func(t *testing.T) {
		client := &fakeClient{}
		router := NewModelRouter(client, nil)

		cv := router.MaybeCrossValidate(context.Background(), domain.AgentBenchmarking, 0.1, Prompt{}, "{}")
		assert.Nil(t, cv)
		assert.Empty(t, client.calls)
	})

	t.Run("validator failure never blocks", func(t *testing.T) {
		client := &fakeClient{errs: map[string]error{"gemini": errors.New("down")}}
		router := NewModelRouter(client, nil)

		cv := router.MaybeCrossValidate(context.Background(), domain.AgentRiskScoring, 0.5, Prompt{}, "{}")
		assert.Nil(t, cv)
	})

	t.Run("unparseable verdict never blocks", func(t *testing.T) {
		client := &fakeClient{responses: map[string]*transport.Response{
			"gemini": okResponse("gemini", "I think it looks fine"),
		}}
		router := NewModelRouter(client, nil)

		cv := router.MaybeCrossValidate(context.Background(), domain.AgentRiskScoring, 0.5, Prompt{}, "{}")
		assert.Nil(t, cv)
	})
}

func TestStubTableRoutesEverythingToStub(t *testing.T) {
	table := StubTable()
	require.Len(t, table, len(DefaultTable()))
	for agentType, strategy := range table {
		assert.Equal(t, "stub", strategy.Primary.Provider, "%s primary", agentType)
		assert.Equal(t, "stub", strategy.Fallback.Provider, "%s fallback", agentType)
		if strategy.CrossValidation != nil {
			assert.Equal(t, "stub", strategy.CrossValidation.Ref.Provider)
		}
	}
	// The default table must be left untouched.
	assert.Equal(t, "gemini", DefaultTable()[domain.AgentClauseExtraction].Primary.Provider)
}

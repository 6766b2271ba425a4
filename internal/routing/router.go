package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/llm"
	"github.com/ahrav/contract-iq/internal/llm/transport"
)

// ErrNoStrategy indicates an agent type with no routing table entry.
var ErrNoStrategy = errors.New("no routing strategy for agent type")

// Prompt carries the model-facing text for one agent invocation.
type Prompt struct {
	System string
	User   string
}

// Invocation is the outcome of one routed model call.
type Invocation struct {
	// Content is the model's completion text.
	Content string

	// Attribution names the model that actually answered. On fallback
	// this is the fallback model, never the primary.
	Attribution domain.ModelAttribution

	// UsedFallback reports whether the primary failed and the fallback
	// produced this result.
	UsedFallback bool

	// LatencyMs is the answering call's round-trip time.
	LatencyMs int64
}

// ModelRouter routes agent invocations to providers per the strategy
// table, handling primary-to-fallback failover and cross-validation.
type ModelRouter struct {
	client llm.Client
	table  Table
	logger *slog.Logger
}

// NewModelRouter creates a router over the given client and table. A nil
// table gets the default production table.
func NewModelRouter(client llm.Client, table Table) *ModelRouter {
	if table == nil {
		table = DefaultTable()
	}
	return &ModelRouter{
		client: client,
		table:  table,
		logger: slog.Default().With("component", "routing"),
	}
}

// Strategy returns the routing entry for an agent type.
func (r *ModelRouter) Strategy(agent domain.AgentType) (Strategy, error) {
	strategy, ok := r.table[agent]
	if !ok {
		return Strategy{}, fmt.Errorf("%w: %s", ErrNoStrategy, agent)
	}
	return strategy, nil
}

// Invoke executes the agent's prompt against its primary model, falling
// back to the secondary exactly once if the primary fails. The returned
// attribution always names the model that produced the content.
func (r *ModelRouter) Invoke(ctx context.Context, agent domain.AgentType, prompt Prompt) (*Invocation, error) {
	strategy, err := r.Strategy(agent)
	if err != nil {
		return nil, err
	}

	inv, primaryErr := r.call(ctx, agent, strategy, strategy.Primary, prompt)
	if primaryErr == nil {
		return inv, nil
	}
	if ctx.Err() != nil {
		return nil, primaryErr
	}

	r.logger.Warn("primary model failed, trying fallback",
		"agent_type", agent,
		"primary", strategy.Primary.Model,
		"fallback", strategy.Fallback.Model,
		"error", primaryErr)

	inv, fallbackErr := r.call(ctx, agent, strategy, strategy.Fallback, prompt)
	if fallbackErr != nil {
		return nil, fmt.Errorf("primary %s/%s failed (%v); fallback %s/%s failed: %w",
			strategy.Primary.Provider, strategy.Primary.Model, primaryErr,
			strategy.Fallback.Provider, strategy.Fallback.Model, fallbackErr)
	}
	inv.UsedFallback = true
	return inv, nil
}

func (r *ModelRouter) call(ctx context.Context, agent domain.AgentType, strategy Strategy, ref ModelRef, prompt Prompt) (*Invocation, error) {
	resp, err := r.client.Complete(ctx, &transport.Request{
		Provider:     ref.Provider,
		Model:        ref.Model,
		AgentType:    string(agent),
		Prompt:       prompt.User,
		SystemPrompt: prompt.System,
		MaxTokens:    strategy.MaxTokens,
		Temperature:  strategy.Temperature,
		JSONResponse: true,
		Timeout:      strategy.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return &Invocation{
		Content: resp.Content,
		Attribution: domain.ModelAttribution{
			Provider:       resp.Provider,
			Model:          resp.Model,
			CostMilliCents: domain.MilliCents(resp.EstimatedCostMilliCents),
			Cached:         resp.Cached,
		},
		LatencyMs: resp.Usage.LatencyMs,
	}, nil
}

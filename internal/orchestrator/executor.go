package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ahrav/contract-iq/internal/agent"
	"github.com/ahrav/contract-iq/internal/domain"
)

// DefaultAgentTimeout bounds one agent execution including model retries
// and fallback.
const DefaultAgentTimeout = 3 * time.Minute

// StageRequest carries everything one stage execution needs. Prior holds
// the outputs accumulated from earlier stages; the executor forwards only
// each agent's declared dependencies into its input.
type StageRequest struct {
	Stage        []domain.AgentType                       `json:"stage"`
	ContractText string                                   `json:"contract_text"`
	Context      domain.ProcessingContext                 `json:"context"`
	Prior        map[domain.AgentType]*domain.AgentOutput `json:"prior,omitempty"`
	NodeID       string                                   `json:"node_id,omitempty"`

	// Attempt is the Temporal activity attempt number for this stage,
	// starting at 1. Zero means the stage runs outside an activity.
	Attempt int32 `json:"attempt,omitempty"`
}

// StageExecutor runs the agents of one stage concurrently and absorbs
// their failures into zero-confidence outputs. One agent failing never
// aborts its stage siblings.
type StageExecutor struct {
	agents       *agent.Registry
	agentTimeout time.Duration
	logger       *slog.Logger
}

// NewStageExecutor creates an executor over the agent registry.
func NewStageExecutor(agents *agent.Registry, agentTimeout time.Duration) *StageExecutor {
	if agentTimeout <= 0 {
		agentTimeout = DefaultAgentTimeout
	}
	return &StageExecutor{
		agents:       agents,
		agentTimeout: agentTimeout,
		logger:       slog.Default().With("component", "orchestrator.executor"),
	}
}

// Run executes every agent in the stage concurrently and returns their
// outputs keyed by agent type. The returned map always has one entry per
// stage agent; failed agents appear as zero-confidence outputs carrying
// their error.
func (e *StageExecutor) Run(ctx context.Context, req *StageRequest) map[domain.AgentType]*domain.AgentOutput {
	results := make(map[domain.AgentType]*domain.AgentOutput, len(req.Stage))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, agentType := range req.Stage {
		wg.Add(1)
		go func(t domain.AgentType) {
			defer wg.Done()
			out := e.runOne(ctx, t, req)
			mu.Lock()
			results[t] = out
			mu.Unlock()
		}(agentType)
	}
	wg.Wait()
	return results
}

// runOne executes a single agent with a timeout and panic guard.
func (e *StageExecutor) runOne(ctx context.Context, t domain.AgentType, req *StageRequest) (out *domain.AgentOutput) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("agent panicked",
				"agent_type", t, "panic", r)
			out = domain.NewFailedOutput(t, fmt.Errorf("agent panicked: %v", r))
			out.DurationMs = time.Since(start).Milliseconds()
		}
	}()

	a, err := e.agents.Get(t)
	if err != nil {
		return domain.NewFailedOutput(t, err)
	}

	agentCtx, cancel := context.WithTimeout(ctx, e.agentTimeout)
	defer cancel()

	result, err := a.Execute(agentCtx, e.buildInput(a, req))
	if err != nil {
		e.logger.Warn("agent failed",
			"agent_type", t,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err)
		failed := domain.NewFailedOutput(t, err)
		failed.DurationMs = time.Since(start).Milliseconds()
		return failed
	}

	e.logger.Info("agent completed",
		"agent_type", t,
		"confidence", result.Confidence,
		"duration_ms", result.DurationMs,
		"provider", result.Attribution.Provider,
		"model", result.Attribution.Model,
		"cached", result.Attribution.Cached,
		"warnings", len(result.Warnings))
	return result
}

// buildInput assembles the agent's input from the stage request. Only the
// agent's declared dependencies are forwarded, and only when they
// succeeded; a failed dependency output reads as absent.
func (e *StageExecutor) buildInput(a agent.Agent, req *StageRequest) *domain.AgentInput {
	in := &domain.AgentInput{
		ContractText: req.ContractText,
		Context:      req.Context,
		NodeID:       req.NodeID,
	}
	if req.Attempt > 1 {
		in.RetryCount = int(req.Attempt) - 1
	}
	for _, dep := range a.Dependencies() {
		out, ok := req.Prior[dep]
		if !ok || out.Failed() {
			continue
		}
		switch dep {
		case domain.AgentClauseExtraction:
			in.Clauses = out.Clauses
		case domain.AgentRiskScoring:
			in.Risk = out.Risk
		case domain.AgentBenchmarking:
			in.Benchmarks = out.Benchmarks
		case domain.AgentNegotiationStrategy:
			in.Strategy = out.Strategy
		}
	}
	return in
}

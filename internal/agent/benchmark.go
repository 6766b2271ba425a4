package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/routing"
)

const benchmarkSystemPrompt = `You are a contract benchmarking analyst.
Compare the contract's terms against market norms for the customer's segment.
For each comparable term produce a metric with the contract's value, the market
median, the contract's percentile (0-100, higher is more customer-favorable), and
a recommendation of "acceptable", "negotiate", or "red_flag".
Respond with only a JSON object:
{"segment": string, "metrics": [{"name": string, "contract_value": string,
"market_median": string, "percentile": number, "recommendation": string, "notes": string}]}`

// BenchmarkingAgent compares contract terms against market data. It
// prefers structured clauses but degrades to raw contract text when
// extraction is unavailable, at reduced confidence.
type BenchmarkingAgent struct {
	router Router
}

// NewBenchmarkingAgent creates the benchmarking agent.
func NewBenchmarkingAgent(router Router) *BenchmarkingAgent {
	return &BenchmarkingAgent{router: router}
}

// Type implements Agent.
func (a *BenchmarkingAgent) Type() domain.AgentType { return domain.AgentBenchmarking }

// Dependencies implements Agent.
func (a *BenchmarkingAgent) Dependencies() []domain.AgentType {
	return []domain.AgentType{domain.AgentClauseExtraction}
}

// Execute implements Agent.
func (a *BenchmarkingAgent) Execute(ctx context.Context, in *domain.AgentInput) (*domain.AgentOutput, error) {
	start := time.Now()

	degraded := in.Clauses == nil || len(in.Clauses.Clauses) == 0

	var ub strings.Builder
	if block := contextBlock(in.Context); block != "" {
		ub.WriteString(block)
		ub.WriteString("\n")
	}
	sources := []string{string(domain.AgentClauseExtraction)}
	if degraded {
		excerpt, _ := contractExcerpt(in.ContractText)
		if excerpt == "" {
			return nil, fmt.Errorf("%w: no clauses and no contract text to benchmark", domain.ErrInvalidInput)
		}
		ub.WriteString("No structured clauses are available. Benchmark from the raw contract text:\n")
		ub.WriteString(excerpt)
		sources = []string{"contract_text"}
	} else {
		ub.WriteString("Extracted clauses:\n")
		ub.WriteString(jsonBlock(in.Clauses))
		if terms := in.Clauses.Terms(); len(terms) > 0 {
			ub.WriteString("\n\nNormalized terms to benchmark:\n")
			ub.WriteString(jsonBlock(terms))
		}
	}

	prompt := routing.Prompt{System: benchmarkSystemPrompt, User: ub.String()}
	inv, err := a.router.Invoke(ctx, a.Type(), prompt)
	if err != nil {
		return nil, err
	}

	var report domain.BenchmarkReport
	if err := decodeJSON(inv.Content, &report); err != nil {
		return nil, fmt.Errorf("benchmarking: %w", err)
	}

	out := domain.NewAgentOutput(a.Type())
	out.Benchmarks = &report
	out.Sources = sources
	out.Confidence = a.confidence(&report)
	if degraded {
		out.AddWarning("benchmarking ran without extracted clauses; comparisons are approximate")
		out.Confidence = clampConfidence(out.Confidence - 0.2)
	}
	finalize(out, start, inv)
	if cv := a.router.MaybeCrossValidate(ctx, a.Type(), out.Confidence, prompt, inv.Content); cv != nil {
		out.CrossValidation = cv
	}
	return out, nil
}

func (a *BenchmarkingAgent) confidence(r *domain.BenchmarkReport) float64 {
	if len(r.Metrics) == 0 {
		return 0.1
	}
	score := 0.5 + 0.05*float64(len(r.Metrics))
	if score > 0.85 {
		score = 0.85
	}
	withMedian := 0
	for _, m := range r.Metrics {
		if m.MarketMedian != "" {
			withMedian++
		}
	}
	if withMedian == len(r.Metrics) {
		score += 0.1
	}
	if r.Segment != "" {
		score += 0.05
	}
	return clampConfidence(score)
}

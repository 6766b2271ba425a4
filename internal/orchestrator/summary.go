package orchestrator

import (
	"fmt"

	"github.com/ahrav/contract-iq/internal/domain"
)

// SynthesizeSummary builds a minimal executive summary from whatever
// outputs exist when the reporting agent did not run or failed. It never
// invents analysis; it only restates what upstream agents produced.
func SynthesizeSummary(outputs map[domain.AgentType]*domain.AgentOutput, confidence float64) *domain.ExecutiveSummary {
	summary := &domain.ExecutiveSummary{
		Overview:   "Automated contract analysis summary.",
		Confidence: confidence,
	}

	if out, ok := outputs[domain.AgentClauseExtraction]; ok && out.Clauses != nil {
		summary.Overview = fmt.Sprintf("Analyzed contract with %d extracted clauses.", len(out.Clauses.Clauses))
		if ct := out.Clauses.DetectedContractType; ct != "" {
			summary.Overview = fmt.Sprintf("Analyzed %s contract with %d extracted clauses.", ct, len(out.Clauses.Clauses))
		}
	}

	if out, ok := outputs[domain.AgentRiskScoring]; ok && out.Risk != nil {
		summary.KeyRisks = append(summary.KeyRisks,
			fmt.Sprintf("Overall risk %s (score %.0f/100).", out.Risk.OverallLevel, out.Risk.OverallScore))
		for _, f := range out.Risk.HighSeverityFactors() {
			summary.KeyRisks = append(summary.KeyRisks, f.Name+": "+f.Description)
		}
	}

	if out, ok := outputs[domain.AgentBenchmarking]; ok && out.Benchmarks != nil {
		for _, m := range out.Benchmarks.Negotiable() {
			summary.Opportunities = append(summary.Opportunities,
				fmt.Sprintf("%s is off-market (%s vs median %s).", m.Name, m.ContractValue, m.MarketMedian))
		}
	}

	if out, ok := outputs[domain.AgentNegotiationStrategy]; ok && out.Strategy != nil {
		for _, issue := range out.Strategy.Issues {
			summary.Recommendations = append(summary.Recommendations,
				fmt.Sprintf("Priority %d: %s.", issue.Priority, issue.Topic))
		}
		summary.NextSteps = append([]string(nil), out.Strategy.WalkAwayConditions...)
	}

	failed := make([]domain.AgentType, 0, len(outputs))
	for t, out := range outputs {
		if out.Failed() {
			failed = append(failed, t)
		}
	}
	for _, t := range domain.SortAgentTypes(failed) {
		summary.KeyRisks = append(summary.KeyRisks,
			fmt.Sprintf("Analysis %s failed and its findings are unavailable.", t))
	}
	return summary
}

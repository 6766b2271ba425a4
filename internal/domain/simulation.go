package domain

// Scenario is one named negotiation outcome with estimated probability.
type Scenario struct {
	// Name labels the scenario, e.g. "full concessions accepted".
	Name string `json:"name"`

	// Probability is the estimated likelihood in [0,1].
	Probability float64 `json:"probability" validate:"min=0,max=1"`

	// Outcome describes the result if the scenario plays out.
	Outcome string `json:"outcome,omitempty"`

	// SavingsPct estimates contract-value savings for the scenario.
	SavingsPct float64 `json:"savings_pct,omitempty"`
}

// MonteCarloSummary aggregates the simulated outcome distribution.
type MonteCarloSummary struct {
	// Runs is the number of simulated negotiations.
	Runs int `json:"runs" validate:"min=0"`

	// SuccessRate is the fraction of runs reaching an acceptable deal.
	SuccessRate float64 `json:"success_rate" validate:"min=0,max=1"`

	// AvgSavingsPct is the mean savings across successful runs.
	AvgSavingsPct float64 `json:"avg_savings_pct"`

	// RiskDistribution maps residual risk level to probability mass.
	RiskDistribution map[string]float64 `json:"risk_distribution,omitempty"`
}

// SimulationReport is the simulation agent's result payload.
type SimulationReport struct {
	Scenarios  []Scenario        `json:"scenarios"`
	MonteCarlo MonteCarloSummary `json:"monte_carlo"`
}

package domain

// RiskLevel buckets a numeric risk score for display and prioritization.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// rank orders risk levels for comparisons; unknown levels rank lowest.
func (l RiskLevel) rank() int {
	switch l {
	case RiskCritical:
		return 4
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether the level is at or above the given floor.
func (l RiskLevel) AtLeast(floor RiskLevel) bool { return l.rank() >= floor.rank() }

// RiskLevelForScore maps a 0-100 risk score onto a RiskLevel bucket.
func RiskLevelForScore(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskCritical
	case score >= 60:
		return RiskHigh
	case score >= 35:
		return RiskMedium
	default:
		return RiskLow
	}
}

// ClauseRisk scores one extracted clause.
type ClauseRisk struct {
	ClauseID  string    `json:"clause_id"`
	Score     float64   `json:"score" validate:"min=0,max=100"`
	Level     RiskLevel `json:"level"`
	Rationale string    `json:"rationale,omitempty"`
}

// RiskFactor is one ranked contributor to overall contract risk.
type RiskFactor struct {
	// Name labels the factor, e.g. "uncapped liability exposure".
	Name string `json:"name"`

	// Severity buckets the impact if the risk materializes.
	Severity RiskLevel `json:"severity"`

	// Likelihood is the estimated probability of occurrence in [0,1].
	Likelihood float64 `json:"likelihood" validate:"min=0,max=1"`

	// Description explains the exposure in business terms.
	Description string `json:"description,omitempty"`

	// Mitigations lists concrete countermeasures, best first.
	Mitigations []string `json:"mitigations,omitempty"`
}

// RiskAssessment is the risk scoring agent's result payload.
type RiskAssessment struct {
	// OverallScore is the aggregate contract risk on a 0-100 scale.
	OverallScore float64 `json:"overall_score" validate:"min=0,max=100"`

	// OverallLevel is the bucket for OverallScore.
	OverallLevel RiskLevel `json:"overall_level"`

	// ClauseRisks scores each extracted clause individually.
	ClauseRisks []ClauseRisk `json:"clause_risks,omitempty"`

	// Factors ranks the principal risk drivers, highest severity first.
	Factors []RiskFactor `json:"factors,omitempty"`
}

// HighSeverityFactors returns factors at or above RiskHigh, preserving rank order.
func (r *RiskAssessment) HighSeverityFactors() []RiskFactor {
	var out []RiskFactor
	for _, f := range r.Factors {
		if f.Severity.AtLeast(RiskHigh) {
			out = append(out, f)
		}
	}
	return out
}

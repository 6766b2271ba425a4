package domain

import "strings"

// Priority orders jobs for downstream queue consumers. The orchestrator
// itself does not reorder work; priority is carried for callers.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// CompanySize buckets the customer organization for benchmarking context.
type CompanySize string

const (
	CompanySizeStartup    CompanySize = "startup"
	CompanySizeSMB        CompanySize = "smb"
	CompanySizeMidMarket  CompanySize = "mid_market"
	CompanySizeEnterprise CompanySize = "enterprise"
)

// RiskTolerance expresses how aggressively the customer absorbs contract risk.
type RiskTolerance string

const (
	RiskToleranceLow    RiskTolerance = "low"
	RiskToleranceMedium RiskTolerance = "medium"
	RiskToleranceHigh   RiskTolerance = "high"
)

// CompanyProfile describes the customer organization. Used by risk scoring
// and benchmarking to calibrate severity and market comparisons.
type CompanyProfile struct {
	Industry      string        `json:"industry,omitempty" validate:"max=120"`
	Size          CompanySize   `json:"size,omitempty" validate:"omitempty,oneof=startup smb mid_market enterprise"`
	RiskTolerance RiskTolerance `json:"risk_tolerance,omitempty" validate:"omitempty,oneof=low medium high"`
}

// ProcessingContext carries caller-supplied context for one job. It is
// read-only for the duration of the job: agents receive it by value and
// the orchestrator never mutates it after job creation.
type ProcessingContext struct {
	// ContractType tags the document category, e.g. "saas", "msa", "nda".
	ContractType string `json:"contract_type,omitempty" validate:"max=120"`

	// Urgency is a free-form caller signal, e.g. "renewal in 30 days".
	Urgency string `json:"urgency,omitempty" validate:"max=200"`

	// UserID and SessionID identify the requesting principal for audit.
	UserID    string `json:"user_id,omitempty"`
	SessionID string `json:"session_id,omitempty"`

	// Objectives lists the caller's negotiation goals in priority order.
	Objectives []string `json:"objectives,omitempty"`

	// Company optionally profiles the customer organization.
	Company *CompanyProfile `json:"company,omitempty"`
}

// Validate checks the processing context against its constraints.
func (c *ProcessingContext) Validate() error { return validate.Struct(c) }

// SanitizeText normalizes caller-supplied free text before it is embedded
// in a prompt: control characters are dropped, whitespace is trimmed, and
// the result is truncated to max runes. Truncation prevents a single
// oversized document from dominating token budgets.
func SanitizeText(s string, max int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '\n' || r == '\t' || r >= 0x20 {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if max > 0 {
		runes := []rune(out)
		if len(runes) > max {
			out = string(runes[:max])
		}
	}
	return out
}

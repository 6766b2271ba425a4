package domain

// BenchmarkRecommendation is the per-metric market verdict.
type BenchmarkRecommendation string

const (
	// BenchmarkAcceptable means the term is at or better than market.
	BenchmarkAcceptable BenchmarkRecommendation = "acceptable"

	// BenchmarkNegotiate means the term is off-market and worth pushing on.
	BenchmarkNegotiate BenchmarkRecommendation = "negotiate"

	// BenchmarkRedFlag means the term is far outside market norms.
	BenchmarkRedFlag BenchmarkRecommendation = "red_flag"
)

// BenchmarkMetric compares one contract term against market data.
type BenchmarkMetric struct {
	// Name identifies the metric, e.g. "payment_terms_days".
	Name string `json:"name"`

	// ContractValue is the term as found in this contract.
	ContractValue string `json:"contract_value"`

	// MarketMedian is the typical market value for comparable deals.
	MarketMedian string `json:"market_median,omitempty"`

	// Percentile positions the contract value in the market distribution,
	// where higher percentiles are worse for the customer.
	Percentile float64 `json:"percentile" validate:"min=0,max=100"`

	// Recommendation is the verdict for this metric.
	Recommendation BenchmarkRecommendation `json:"recommendation"`

	// Notes carries model commentary on the comparison.
	Notes string `json:"notes,omitempty"`
}

// BenchmarkReport is the benchmarking agent's result payload.
type BenchmarkReport struct {
	// Metrics lists the per-term market comparisons.
	Metrics []BenchmarkMetric `json:"metrics"`

	// Segment describes the market segment used for comparison,
	// e.g. "mid-market SaaS".
	Segment string `json:"segment,omitempty"`
}

// Negotiable returns metrics flagged negotiate or red_flag, preserving order.
func (b *BenchmarkReport) Negotiable() []BenchmarkMetric {
	var out []BenchmarkMetric
	for _, m := range b.Metrics {
		if m.Recommendation == BenchmarkNegotiate || m.Recommendation == BenchmarkRedFlag {
			out = append(out, m)
		}
	}
	return out
}

// MedianPercentile returns the midpoint percentile across metrics, used by
// simulation as a single aggregate market position. Returns 50 when no
// metrics are present.
func (b *BenchmarkReport) MedianPercentile() float64 {
	if len(b.Metrics) == 0 {
		return 50
	}
	var sum float64
	for _, m := range b.Metrics {
		sum += m.Percentile
	}
	return sum / float64(len(b.Metrics))
}

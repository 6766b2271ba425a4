package agent

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ahrav/contract-iq/internal/domain"
	"github.com/ahrav/contract-iq/internal/routing"
)

// maxPromptContractRunes caps how much contract text is embedded in a
// single prompt. Larger documents are truncated with a warning rather
// than rejected.
const maxPromptContractRunes = 10_000

// decodeJSON parses a model completion into out, stripping a markdown code
// fence if present and retrying once on the largest well-formed JSON object
// when the model appended trailing prose.
func decodeJSON(content string, out any) error {
	cleaned := stripCodeFence(content)
	if err := json.Unmarshal([]byte(cleaned), out); err == nil {
		return nil
	}

	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start >= 0 && end > start {
		if err := json.Unmarshal([]byte(cleaned[start:end+1]), out); err == nil {
			return nil
		}
	}
	return fmt.Errorf("model returned unparseable JSON")
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// contractExcerpt sanitizes and bounds contract text for prompt embedding.
// The second return reports whether truncation occurred.
func contractExcerpt(text string) (string, bool) {
	sanitized := domain.SanitizeText(text, maxPromptContractRunes)
	truncated := len([]rune(domain.SanitizeText(text, 0))) > maxPromptContractRunes
	return sanitized, truncated
}

// contextBlock renders the shared processing context into prompt text.
// Empty fields are omitted so the block stays compact.
func contextBlock(pc domain.ProcessingContext) string {
	var b strings.Builder
	if pc.ContractType != "" {
		fmt.Fprintf(&b, "Contract type: %s\n", domain.SanitizeText(pc.ContractType, 120))
	}
	if pc.Urgency != "" {
		fmt.Fprintf(&b, "Urgency: %s\n", domain.SanitizeText(pc.Urgency, 200))
	}
	if len(pc.Objectives) > 0 {
		b.WriteString("Negotiation objectives:\n")
		for i, o := range pc.Objectives {
			fmt.Fprintf(&b, "%d. %s\n", i+1, domain.SanitizeText(o, 200))
		}
	}
	if pc.Company != nil {
		if pc.Company.Industry != "" {
			fmt.Fprintf(&b, "Company industry: %s\n", domain.SanitizeText(pc.Company.Industry, 120))
		}
		if pc.Company.Size != "" {
			fmt.Fprintf(&b, "Company size: %s\n", pc.Company.Size)
		}
		if pc.Company.RiskTolerance != "" {
			fmt.Fprintf(&b, "Risk tolerance: %s\n", pc.Company.RiskTolerance)
		}
	}
	return b.String()
}

// jsonBlock marshals a dependency payload for prompt embedding. Marshal
// failures degrade to an empty block; the agent notes the gap through its
// normal missing-dependency handling.
func jsonBlock(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// finalize stamps timing, attribution, and fallback provenance onto an
// output after a successful invocation.
func finalize(out *domain.AgentOutput, start time.Time, inv *routing.Invocation) {
	out.DurationMs = time.Since(start).Milliseconds()
	out.Timestamp = time.Now()
	out.Attribution = inv.Attribution
	if inv.UsedFallback {
		out.AddWarning("primary model unavailable; result produced by fallback %s/%s",
			inv.Attribution.Provider, inv.Attribution.Model)
	}
}

func clampConfidence(f float64) float64 {
	if f < 0.05 {
		return 0.05
	}
	if f > 1 {
		return 1
	}
	return f
}

func meanFloat(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// Package usage resolves token usage and cost for agent sessions from
// their on-disk logs. Resolution is best-effort: IO and parse failures
// degrade to zero usage, never to an error, so the monitoring loop can
// never stall or fail on foreign file contents.
package usage

import "fmt"

// TokenUsage holds summed token counts for one session
type TokenUsage struct {
	InputTokens      uint64
	OutputTokens     uint64
	CacheReadTokens  uint64
	CacheWriteTokens uint64
}

// TotalTokens is input plus output, the headline number
func (u TokenUsage) TotalTokens() uint64 {
	return u.InputTokens + u.OutputTokens
}

// Flat per-category prices in USD per million tokens, independent of
// model identity (Sonnet-class list pricing).
const (
	inputPricePerM      = 3.0
	outputPricePerM     = 15.0
	cacheReadPricePerM  = 0.30
	cacheWritePricePerM = 3.75
)

// CostUSD prices the usage under the flat per-million-token table
func (u TokenUsage) CostUSD() float64 {
	const mtok = 1_000_000.0
	return float64(u.InputTokens)/mtok*inputPricePerM +
		float64(u.OutputTokens)/mtok*outputPricePerM +
		float64(u.CacheReadTokens)/mtok*cacheReadPricePerM +
		float64(u.CacheWriteTokens)/mtok*cacheWritePricePerM
}

// Report is the resolved usage with its computed cost, cached per pane
type Report struct {
	Usage   TokenUsage
	CostUSD float64
}

// FormatTokens renders a token count compactly: "500", "12.3k", "1.2M"
func FormatTokens(tokens uint64) string {
	switch {
	case tokens >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(tokens)/1_000_000)
	case tokens >= 1_000:
		return fmt.Sprintf("%.1fk", float64(tokens)/1_000)
	default:
		return fmt.Sprintf("%d", tokens)
	}
}

// FormatCost renders a USD cost for display
func FormatCost(cost float64) string {
	switch {
	case cost >= 0.01:
		return fmt.Sprintf("$%.2f", cost)
	case cost > 0:
		return fmt.Sprintf("$%.3f", cost)
	default:
		return "$0"
	}
}

package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCostUSDFlatTable(t *testing.T) {
	u := TokenUsage{
		InputTokens:     1_000_000,
		OutputTokens:    100_000,
		CacheReadTokens: 500_000,
	}
	// 1M input @ $3/M + 100k output @ $15/M + 500k cache read @ $0.30/M
	assert.InDelta(t, 3.0+1.5+0.15, u.CostUSD(), 0.001)
}

func TestCostUSDZero(t *testing.T) {
	assert.Equal(t, 0.0, TokenUsage{}.CostUSD())
}

func TestTotalTokens(t *testing.T) {
	u := TokenUsage{InputTokens: 100, OutputTokens: 50, CacheReadTokens: 999}
	assert.Equal(t, uint64(150), u.TotalTokens())
}

func TestFormatTokens(t *testing.T) {
	assert.Equal(t, "500", FormatTokens(500))
	assert.Equal(t, "1.5k", FormatTokens(1500))
	assert.Equal(t, "1.5M", FormatTokens(1_500_000))
}

func TestFormatCost(t *testing.T) {
	assert.Equal(t, "$1.50", FormatCost(1.5))
	assert.Equal(t, "$0.05", FormatCost(0.05))
	assert.Equal(t, "$0.003", FormatCost(0.003))
	assert.Equal(t, "$0", FormatCost(0))
}

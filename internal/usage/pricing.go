package usage

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
)

// ModelPricing is USD per million tokens for one model, with cache
// tiers. This is the model-aware alternative to the flat table in
// TokenUsage.CostUSD; the two strategies are never mixed in one report.
type ModelPricing struct {
	Input        float64
	Output       float64
	CacheWrite5m float64
	CacheWrite1h float64
	CacheRead    float64
}

// PricingForModel returns pricing for a model id, defaulting to
// Sonnet-class rates for unknown models. Cache tiers derive from the
// input rate: 5m write x1.25, 1h write x2, read x0.1.
func PricingForModel(modelID string) ModelPricing {
	var input, output float64
	switch {
	case strings.Contains(modelID, "opus-4-5") || strings.Contains(modelID, "opus-4.5"):
		input, output = 5.0, 25.0
	case strings.Contains(modelID, "opus"):
		input, output = 15.0, 75.0
	case strings.Contains(modelID, "sonnet"):
		input, output = 3.0, 15.0
	case strings.Contains(modelID, "haiku-4-5") || strings.Contains(modelID, "haiku-4.5"):
		input, output = 1.0, 5.0
	case strings.Contains(modelID, "haiku-3-5") || strings.Contains(modelID, "haiku-3.5"):
		input, output = 0.8, 4.0
	case strings.Contains(modelID, "haiku"):
		input, output = 0.25, 1.25
	default:
		input, output = 3.0, 15.0
	}
	return ModelPricing{
		Input:        input,
		Output:       output,
		CacheWrite5m: input * 1.25,
		CacheWrite1h: input * 2.0,
		CacheRead:    input * 0.1,
	}
}

// modelUsageLine is a Claude JSONL record with the model id and cache
// tier breakdown needed for model-aware pricing
type modelUsageLine struct {
	Message *struct {
		Model string `json:"model"`
		Usage *struct {
			InputTokens              uint64 `json:"input_tokens"`
			OutputTokens             uint64 `json:"output_tokens"`
			CacheReadInputTokens     uint64 `json:"cache_read_input_tokens"`
			CacheCreationInputTokens uint64 `json:"cache_creation_input_tokens"`
			CacheCreation            *struct {
				Ephemeral5mInputTokens uint64 `json:"ephemeral_5m_input_tokens"`
				Ephemeral1hInputTokens uint64 `json:"ephemeral_1h_input_tokens"`
			} `json:"cache_creation"`
		} `json:"usage"`
	} `json:"message"`
}

// ResolveModelPriced is the model-aware resolution strategy: each JSONL
// line is priced under its own model's table. Only Claude logs carry
// model ids; other providers yield a zero report. Failure handling
// matches Resolve: everything degrades to zero.
func (r *Resolver) ResolveModelPriced(workingDir, provider string) Report {
	if provider != "claude" {
		return Report{}
	}
	dir := filepath.Join(r.Home, ".claude", "projects", encodeProjectPath(workingDir))
	path := newestFile(dir, ".jsonl")
	if path == "" {
		return Report{}
	}

	f, err := os.Open(path)
	if err != nil {
		return Report{}
	}
	defer f.Close()

	var report Report
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry modelUsageLine
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if entry.Message == nil || entry.Message.Usage == nil {
			continue
		}

		u := entry.Message.Usage
		pricing := PricingForModel(entry.Message.Model)

		// Split cache writes by tier when the breakdown is present,
		// otherwise treat the whole creation count as 5m-tier.
		write5m := u.CacheCreationInputTokens
		var write1h uint64
		if cc := u.CacheCreation; cc != nil && (cc.Ephemeral5mInputTokens > 0 || cc.Ephemeral1hInputTokens > 0) {
			write5m = cc.Ephemeral5mInputTokens
			write1h = cc.Ephemeral1hInputTokens
		}

		report.Usage.InputTokens += u.InputTokens
		report.Usage.OutputTokens += u.OutputTokens
		report.Usage.CacheReadTokens += u.CacheReadInputTokens
		report.Usage.CacheWriteTokens += write5m + write1h

		const mtok = 1_000_000.0
		report.CostUSD += float64(u.InputTokens)/mtok*pricing.Input +
			float64(u.OutputTokens)/mtok*pricing.Output +
			float64(u.CacheReadInputTokens)/mtok*pricing.CacheRead +
			float64(write5m)/mtok*pricing.CacheWrite5m +
			float64(write1h)/mtok*pricing.CacheWrite1h
	}
	return report
}

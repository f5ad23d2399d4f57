package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/JiwanChung/coder-tools/internal/usage"
)

// UsageCmd resolves token usage and cost for one project directory
type UsageCmd struct {
	Path         string `arg:"" optional:"" help:"Project directory to resolve (defaults to the working directory)"`
	Provider     string `default:"claude" enum:"claude,gemini,codex" help:"Agent provider whose logs to read"`
	ModelPricing bool   `help:"Price Claude usage per model instead of the flat table"`
	JSON         bool   `help:"Emit the report as JSON"`
}

// Run executes the usage command
func (c *UsageCmd) Run(globals *Globals) error {
	dir := c.Path
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return outputError(globals, "CWD_FAILED", err.Error())
		}
		dir = wd
	}

	resolver := usage.NewResolver()
	var report usage.Report
	if c.ModelPricing {
		report = resolver.ResolveModelPriced(dir, c.Provider)
	} else {
		report = resolver.Resolve(dir, c.Provider)
	}
	globals.Debug("resolved %s usage for %s: %d tokens", c.Provider, dir, report.Usage.TotalTokens())

	if c.JSON {
		out := map[string]any{
			"path":               dir,
			"provider":           c.Provider,
			"input_tokens":       report.Usage.InputTokens,
			"output_tokens":      report.Usage.OutputTokens,
			"cache_read_tokens":  report.Usage.CacheReadTokens,
			"cache_write_tokens": report.Usage.CacheWriteTokens,
			"cost_usd":           report.CostUSD,
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return outputError(globals, "ENCODE_FAILED", err.Error())
		}
		fmt.Fprintln(globals.Stdout, string(data))
		return nil
	}

	fmt.Fprintf(globals.Stdout, "Provider:     %s\n", c.Provider)
	fmt.Fprintf(globals.Stdout, "Path:         %s\n", dir)
	fmt.Fprintf(globals.Stdout, "Input:        %s\n", usage.FormatTokens(report.Usage.InputTokens))
	fmt.Fprintf(globals.Stdout, "Output:       %s\n", usage.FormatTokens(report.Usage.OutputTokens))
	fmt.Fprintf(globals.Stdout, "Cache read:   %s\n", usage.FormatTokens(report.Usage.CacheReadTokens))
	fmt.Fprintf(globals.Stdout, "Cache write:  %s\n", usage.FormatTokens(report.Usage.CacheWriteTokens))
	fmt.Fprintf(globals.Stdout, "Cost:         %s\n", usage.FormatCost(report.CostUSD))
	return nil
}

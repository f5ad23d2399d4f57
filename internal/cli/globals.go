package cli

import (
	"io"
	"os"

	"github.com/JiwanChung/coder-tools/internal/config"
)

// CLI is the top-level kong command tree
type CLI struct {
	Verbose bool `short:"v" help:"Enable verbose debug logging"`

	Monitor MonitorCmd `cmd:"" default:"withargs" help:"Monitor AI coding sessions across tmux panes"`
	Stats   StatsCmd   `cmd:"" help:"Print a one-shot stats snapshot for the current panes"`
	Usage   UsageCmd   `cmd:"" help:"Resolve token usage and cost for a project directory"`
	Hooks   HooksCmd   `cmd:"" help:"Manage agent hook installation"`

	Completion CompletionCmd `cmd:"" help:"Generate shell completions"`
}

// Globals carries shared state into command Run methods
type Globals struct {
	Verbose bool
	Config  *config.Config
	Stdout  io.Writer
	Stderr  io.Writer

	logger *debugLogger
}

// NewGlobals builds Globals from parsed flags and loaded config.
// CLI flags win over config file values.
func NewGlobals(c *CLI, cfg *config.Config) *Globals {
	g := &Globals{
		Verbose: c.Verbose || cfg.Verbose,
		Config:  cfg,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
	g.logger = newDebugLogger(g.Verbose)
	return g
}

// Debug logs a verbose diagnostic line; silent unless --verbose
func (g *Globals) Debug(format string, args ...interface{}) {
	if g.logger == nil {
		return
	}
	g.logger.Debug(format, args...)
}

package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/JiwanChung/coder-tools/internal/hooks"
	"github.com/JiwanChung/coder-tools/internal/monitor"
	"github.com/JiwanChung/coder-tools/internal/notify"
	"github.com/JiwanChung/coder-tools/internal/tmux"
	"github.com/JiwanChung/coder-tools/internal/tui"
	"github.com/JiwanChung/coder-tools/internal/usage"
)

// MonitorCmd runs the live dashboard
type MonitorCmd struct {
	Interval int  `short:"i" help:"Refresh interval in seconds (default from config)"`
	All      bool `short:"a" help:"Show all panes, not just agent sessions"`
	Compact  bool `short:"c" help:"Compact mode (single line per pane)"`
	Notify   bool `short:"n" help:"Enable desktop notifications on state change"`
	Jump     bool `short:"j" help:"Auto-jump to a pane when it needs attention"`
}

// Run executes the monitor command
func (c *MonitorCmd) Run(globals *Globals) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return outputError(globals, "NOT_A_TTY", "monitor needs an interactive terminal", "use 'coder-tools stats' for scripted output")
	}

	cfg := globals.Config.Monitor
	interval := cfg.IntervalSecs
	if c.Interval > 0 {
		interval = c.Interval
	}
	if interval <= 0 {
		interval = 2
	}

	// Agents publish status through tmux pane options; make sure the
	// hooks that do so are in place before the first poll.
	if err := hooks.NewInstaller().EnsureInstalled(); err != nil {
		fmt.Fprintf(globals.Stderr, "Warning: failed to check/install hooks: %v\n", err)
	}

	mgr, err := tmux.NewManager()
	if err != nil {
		return outputError(globals, "TMUX_UNAVAILABLE", err.Error(), "is tmux installed?")
	}

	opts := tui.Options{
		Interval:   time.Duration(interval) * time.Second,
		ShowAll:    c.All || cfg.ShowAll,
		Compact:    c.Compact || cfg.Compact,
		Notify:     c.Notify || cfg.Notify,
		Jump:       c.Jump || cfg.Jump,
		SelfPaneID: tmux.SelfPaneID(),
	}
	globals.Debug("starting monitor: interval=%ds showAll=%v selfPane=%q", interval, opts.ShowAll, opts.SelfPaneID)

	model := tui.New(
		monitor.NewTracker(clock.New()),
		mgr,
		mgr,
		usage.NewResolver(),
		notify.New(opts.Notify),
		opts,
	)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return outputError(globals, "TUI_FAILED", err.Error())
	}
	return nil
}

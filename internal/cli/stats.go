package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/benbjohnson/clock"
	"github.com/olekukonko/tablewriter"

	"github.com/JiwanChung/coder-tools/internal/monitor"
	"github.com/JiwanChung/coder-tools/internal/tmux"
)

// StatsCmd takes one observation snapshot and prints the aggregated
// stats non-interactively. Durations are zero by construction: time
// accounting needs successive polls, which is the monitor's job.
type StatsCmd struct {
	All  bool `short:"a" help:"Include panes without a detected agent session"`
	JSON bool `help:"Emit the snapshot as JSON instead of a table"`
}

// Run executes the stats command
func (c *StatsCmd) Run(globals *Globals) error {
	mgr, err := tmux.NewManager()
	if err != nil {
		return outputError(globals, "TMUX_UNAVAILABLE", err.Error(), "is tmux installed?")
	}

	batch, err := mgr.ListPanes()
	if err != nil {
		return outputError(globals, "LIST_PANES_FAILED", err.Error())
	}
	globals.Debug("observed %d panes", len(batch))

	tracker := monitor.NewTracker(clock.New())
	tracker.Merge(batch, tmux.SelfPaneID())

	view := tracker.Visible(c.All, nil)
	stats := tracker.Aggregate(view)
	snap := tracker.Export(view, stats)

	if c.JSON {
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return outputError(globals, "ENCODE_FAILED", err.Error())
		}
		fmt.Fprintln(globals.Stdout, string(data))
		return nil
	}

	table := tablewriter.NewTable(globals.Stdout)
	table.Header("Session", "Window", "Pane", "Status", "Task", "Path")
	for _, row := range snap.Panes {
		table.Append(
			row.Session,
			strconv.Itoa(row.Window),
			strconv.Itoa(row.Pane),
			row.CurrentStatus,
			row.Task,
			row.Path,
		)
	}
	table.Render()

	summary := monitor.Summarize(view)
	fmt.Fprintf(globals.Stdout, "%d sessions: %d working, %d waiting, %d permission\n",
		summary.Total, summary.Working, summary.Waiting, summary.Permission)
	return nil
}

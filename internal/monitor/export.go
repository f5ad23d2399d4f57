package monitor

import (
	"strconv"
)

// Snapshot is a self-contained export of the aggregated state and the
// per-pane breakdown. Pure data; persisting it is the caller's job.
type Snapshot struct {
	Timestamp string          `json:"timestamp"`
	Summary   SnapshotSummary `json:"summary"`
	Panes     []SnapshotPane  `json:"panes"`
}

// SnapshotSummary mirrors AggregatedStats for serialization
type SnapshotSummary struct {
	TotalPanes          int     `json:"total_panes"`
	TotalWorkingSecs    uint64  `json:"total_working_secs"`
	TotalWaitingSecs    uint64  `json:"total_waiting_secs"`
	TotalPermissionSecs uint64  `json:"total_permission_secs"`
	TotalStateChanges   int     `json:"total_state_changes"`
	EfficiencyPercent   float64 `json:"efficiency_percent"`
}

// SnapshotPane is one visible pane's row in the export
type SnapshotPane struct {
	Session        string `json:"session"`
	Window         int    `json:"window"`
	Pane           int    `json:"pane"`
	Path           string `json:"path"`
	CurrentStatus  string `json:"current_status"`
	Task           string `json:"task,omitempty"`
	WorkingSecs    uint64 `json:"working_secs"`
	WaitingSecs    uint64 `json:"waiting_secs"`
	PermissionSecs uint64 `json:"permission_secs"`
	StateChanges   int    `json:"state_changes"`
}

// Export snapshots the given view and its aggregated stats. The
// timestamp is wall-clock epoch seconds, the only place wall-clock time
// appears; all durations come from the monotonic accounting.
func (t *Tracker) Export(view []*PaneRecord, stats AggregatedStats) Snapshot {
	now := t.clock.Now()

	panes := make([]SnapshotPane, 0, len(view))
	for _, r := range view {
		working, waiting, permission := r.EffectiveSecs(now)
		panes = append(panes, SnapshotPane{
			Session:        r.Pane.SessionName,
			Window:         r.Pane.WindowIndex,
			Pane:           r.Pane.PaneIndex,
			Path:           r.Pane.CurrentPath,
			CurrentStatus:  r.Status.Label(),
			Task:           r.Task,
			WorkingSecs:    working,
			WaitingSecs:    waiting,
			PermissionSecs: permission,
			StateChanges:   r.StateChanges,
		})
	}

	return Snapshot{
		Timestamp: strconv.FormatInt(now.Unix(), 10),
		Summary: SnapshotSummary{
			TotalPanes:          stats.PaneCount,
			TotalWorkingSecs:    stats.TotalWorkingSecs,
			TotalWaitingSecs:    stats.TotalWaitingSecs,
			TotalPermissionSecs: stats.TotalPermissionSecs,
			TotalStateChanges:   stats.TotalStateChanges,
			EfficiencyPercent:   stats.EfficiencyPercent(),
		},
		Panes: panes,
	}
}

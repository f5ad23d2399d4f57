// Package monitor is the state-tracking and time-accounting engine.
// It merges pane observation batches into long-lived records, accounts
// per-status durations, and emits transition events when an agent goes
// from busy to needing attention.
package monitor

import (
	"time"

	"github.com/benbjohnson/clock"

	"github.com/JiwanChung/coder-tools/internal/status"
	"github.com/JiwanChung/coder-tools/internal/tmux"
	"github.com/JiwanChung/coder-tools/internal/usage"
)

// PaneRecord is the long-lived tracked state for one pane. It exists
// exactly as long as its id keeps appearing in merge batches.
type PaneRecord struct {
	Pane   tmux.Pane
	Status status.Status
	// Task is the agent's current prompt, refreshed every merge
	Task string

	PreviousStatus status.Status
	HasPrevious    bool

	// StatusChangedAt is the instant of the last status change, from the
	// tracker's clock. Monotonically non-decreasing for a given record.
	StatusChangedAt time.Time

	// Banked whole seconds per status. NotDetected time is never banked.
	WorkingSecs    uint64
	WaitingSecs    uint64
	PermissionSecs uint64
	StateChanges   int

	// Usage is the cached on-demand usage/cost report, nil until resolved
	Usage *usage.Report
}

// StatusDuration returns how long the record has been in its current status
func (r *PaneRecord) StatusDuration(now time.Time) time.Duration {
	d := now.Sub(r.StatusChangedAt)
	if d < 0 {
		return 0
	}
	return d
}

// EffectiveSecs returns banked plus open-ended seconds per bucket. The
// open-ended part only applies to the record's current status, so it must
// be recomputed from the clock on every call.
func (r *PaneRecord) EffectiveSecs(now time.Time) (working, waiting, permission uint64) {
	working = r.WorkingSecs
	waiting = r.WaitingSecs
	permission = r.PermissionSecs
	current := uint64(r.StatusDuration(now).Seconds())
	switch r.Status {
	case status.Working:
		working += current
	case status.WaitingForInput:
		waiting += current
	case status.PermissionRequired:
		permission += current
	}
	return working, waiting, permission
}

// TransitionEvent signals that a pane went from actively working to
// needing user attention. Carries enough context to render an alert.
type TransitionEvent struct {
	PaneName    string
	FolderName  string
	SessionName string
	WindowIndex int
	PaneIndex   int
	// IsPermission distinguishes a permission prompt from plain
	// ready-for-input
	IsPermission bool
}

// Tracker owns the keyed pane record collection. Single writer: Merge is
// called once per poll tick from the monitoring loop and must complete
// before the next tick.
type Tracker struct {
	clock   clock.Clock
	records map[string]*PaneRecord
}

// NewTracker creates a tracker on the given clock. Pass clock.New() for
// production; tests inject a mock to drive simulated time.
func NewTracker(clk clock.Clock) *Tracker {
	return &Tracker{
		clock:   clk,
		records: make(map[string]*PaneRecord),
	}
}

// Now returns the tracker's current clock reading
func (t *Tracker) Now() time.Time {
	return t.clock.Now()
}

// Len returns the number of live records
func (t *Tracker) Len() int {
	return len(t.records)
}

// Record returns the record for a pane id, or nil
func (t *Tracker) Record(id string) *PaneRecord {
	return t.records[id]
}

// Merge consumes one complete observation batch. Panes matching excludeID
// (the monitor's own pane) are skipped. Records absent from the batch are
// evicted. Returns the transition events detected this tick, one per
// Working -> {WaitingForInput, PermissionRequired} change.
//
// Batch element order does not matter; each id appears at most once per
// batch per the pane source's contract.
func (t *Tracker) Merge(batch []tmux.Pane, excludeID string) []TransitionEvent {
	now := t.clock.Now()
	seen := make(map[string]bool, len(batch))
	var events []TransitionEvent

	for _, pane := range batch {
		if excludeID != "" && pane.ID == excludeID {
			continue
		}
		seen[pane.ID] = true

		detected := status.Detect(pane.Provider, pane.AgentStatus, pane.AgentTask, pane.CurrentCommand)

		existing, ok := t.records[pane.ID]
		if !ok {
			t.records[pane.ID] = &PaneRecord{
				Pane:            pane,
				Status:          detected.Status,
				Task:            detected.Task,
				StatusChangedAt: now,
			}
			continue
		}

		if existing.Status != detected.Status {
			t.bank(existing, now)
			existing.StateChanges++

			if existing.Status == status.Working &&
				(detected.Status == status.WaitingForInput || detected.Status == status.PermissionRequired) {
				events = append(events, TransitionEvent{
					PaneName:     pane.DisplayName(),
					FolderName:   pane.FolderName(),
					SessionName:  pane.SessionName,
					WindowIndex:  pane.WindowIndex,
					PaneIndex:    pane.PaneIndex,
					IsPermission: detected.Status == status.PermissionRequired,
				})
			}

			existing.PreviousStatus = existing.Status
			existing.HasPrevious = true
			existing.Status = detected.Status
			existing.StatusChangedAt = now
		}

		// Display fields refresh every merge, timers untouched
		existing.Pane = pane
		existing.Task = detected.Task
	}

	for id := range t.records {
		if !seen[id] {
			delete(t.records, id)
		}
	}

	return events
}

// bank adds the elapsed time attributable to the record's current status
// into its bucket. NotDetected is never accounted. Elapsed saturates at
// zero; it is never negative with a monotonic clock, but a would-be
// negative delta must not underflow the unsigned counters.
func (t *Tracker) bank(r *PaneRecord, now time.Time) {
	elapsed := uint64(r.StatusDuration(now).Seconds())
	switch r.Status {
	case status.Working:
		r.WorkingSecs += elapsed
	case status.WaitingForInput:
		r.WaitingSecs += elapsed
	case status.PermissionRequired:
		r.PermissionSecs += elapsed
	}
}

// AttachUsage caches a resolved usage/cost report on a record. Safe to
// call off the poll loop: it touches only the cached field, never the
// timers or counters.
func (t *Tracker) AttachUsage(id string, report usage.Report) {
	if r, ok := t.records[id]; ok {
		r.Usage = &report
	}
}

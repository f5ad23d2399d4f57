package monitor

import (
	"github.com/samber/lo"

	"github.com/JiwanChung/coder-tools/internal/status"
)

// AggregatedStats is a point-in-time rollup over a record view. Never
// cached: the open-ended durations are a function of the clock.
type AggregatedStats struct {
	PaneCount           int
	TotalWorkingSecs    uint64
	TotalWaitingSecs    uint64
	TotalPermissionSecs uint64
	TotalStateChanges   int
}

// EfficiencyPercent is the share of accounted time spent working,
// 0..100. Exactly 0 when no time has been accounted at all.
func (s AggregatedStats) EfficiencyPercent() float64 {
	total := s.TotalWorkingSecs + s.TotalWaitingSecs + s.TotalPermissionSecs
	if total == 0 {
		return 0
	}
	return float64(s.TotalWorkingSecs) / float64(total) * 100
}

// Aggregate sums effective durations and state changes across the given
// view at the tracker's current clock reading.
func (t *Tracker) Aggregate(view []*PaneRecord) AggregatedStats {
	now := t.clock.Now()
	stats := AggregatedStats{PaneCount: len(view)}
	for _, r := range view {
		working, waiting, permission := r.EffectiveSecs(now)
		stats.TotalWorkingSecs += working
		stats.TotalWaitingSecs += waiting
		stats.TotalPermissionSecs += permission
		stats.TotalStateChanges += r.StateChanges
	}
	return stats
}

// StatusSummary counts panes per status in a view
type StatusSummary struct {
	Total      int
	Working    int
	Waiting    int
	Permission int
}

// Summarize counts the view's panes by status for the header line
func Summarize(view []*PaneRecord) StatusSummary {
	counts := lo.CountValuesBy(view, func(r *PaneRecord) status.Status {
		return r.Status
	})
	return StatusSummary{
		Total:      len(view),
		Working:    counts[status.Working],
		Waiting:    counts[status.WaitingForInput],
		Permission: counts[status.PermissionRequired],
	}
}

package monitor

import (
	"sort"

	"github.com/samber/lo"

	"github.com/JiwanChung/coder-tools/internal/status"
)

// Visible derives the ordered, filtered view used for display and
// selection. NotDetected records are dropped unless showAll is set; a
// non-nil statusFilter keeps only matching records. Actionable panes
// sort first, then session/window/pane groups panes by locality.
func (t *Tracker) Visible(showAll bool, statusFilter *status.Status) []*PaneRecord {
	records := lo.Filter(lo.Values(t.records), func(r *PaneRecord, _ int) bool {
		if !showAll && r.Status == status.NotDetected {
			return false
		}
		if statusFilter != nil && r.Status != *statusFilter {
			return false
		}
		return true
	})

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Status.Rank() != b.Status.Rank() {
			return a.Status.Rank() < b.Status.Rank()
		}
		if a.Pane.SessionName != b.Pane.SessionName {
			return a.Pane.SessionName < b.Pane.SessionName
		}
		if a.Pane.WindowIndex != b.Pane.WindowIndex {
			return a.Pane.WindowIndex < b.Pane.WindowIndex
		}
		return a.Pane.PaneIndex < b.Pane.PaneIndex
	})

	return records
}

// ClampSelection keeps a selection index valid after the visible set
// shrinks. Call it after every operation that can shrink the view:
// filter toggles, pane removal.
func ClampSelection(selected, visibleCount int) int {
	if visibleCount == 0 {
		return 0
	}
	if selected >= visibleCount {
		return visibleCount - 1
	}
	return selected
}

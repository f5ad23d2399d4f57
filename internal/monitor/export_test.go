package monitor

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JiwanChung/coder-tools/internal/tmux"
)

func TestExportSnapshot(t *testing.T) {
	mock := clock.NewMock()
	tr := NewTracker(mock)

	p := claudePane("%1", "dev", 1, 0, "working")
	p.AgentTask = "write docs"
	tr.Merge([]tmux.Pane{p}, "")
	mock.Add(10 * time.Second)
	p.AgentStatus = "waiting"
	tr.Merge([]tmux.Pane{p}, "")
	mock.Add(3 * time.Second)

	view := tr.Visible(false, nil)
	snap := tr.Export(view, tr.Aggregate(view))

	assert.Equal(t, strconv.FormatInt(mock.Now().Unix(), 10), snap.Timestamp)
	assert.Equal(t, 1, snap.Summary.TotalPanes)
	assert.Equal(t, uint64(10), snap.Summary.TotalWorkingSecs)
	assert.Equal(t, uint64(3), snap.Summary.TotalWaitingSecs)
	assert.Equal(t, 1, snap.Summary.TotalStateChanges)
	assert.InDelta(t, 10.0/13.0*100, snap.Summary.EfficiencyPercent, 0.001)

	require.Len(t, snap.Panes, 1)
	row := snap.Panes[0]
	assert.Equal(t, "dev", row.Session)
	assert.Equal(t, 1, row.Window)
	assert.Equal(t, 0, row.Pane)
	assert.Equal(t, "/home/user/project", row.Path)
	assert.Equal(t, "Waiting for input", row.CurrentStatus)
	assert.Equal(t, "write docs", row.Task)
	assert.Equal(t, uint64(10), row.WorkingSecs)
	assert.Equal(t, uint64(3), row.WaitingSecs)
	assert.Equal(t, 1, row.StateChanges)
}

func TestExportJSONShape(t *testing.T) {
	tr := NewTracker(clock.NewMock())
	tr.Merge([]tmux.Pane{claudePane("%1", "dev", 0, 0, "working")}, "")

	view := tr.Visible(false, nil)
	data, err := json.Marshal(tr.Export(view, tr.Aggregate(view)))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "timestamp")
	assert.Contains(t, decoded, "summary")
	assert.Contains(t, decoded, "panes")

	summary := decoded["summary"].(map[string]any)
	for _, key := range []string{
		"total_panes", "total_working_secs", "total_waiting_secs",
		"total_permission_secs", "total_state_changes", "efficiency_percent",
	} {
		assert.Contains(t, summary, key)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "42s", FormatDuration(42*time.Second))
	assert.Equal(t, "3m12s", FormatDuration(192*time.Second))
	assert.Equal(t, "2h5m", FormatDuration(2*time.Hour+5*time.Minute+30*time.Second))
	assert.Equal(t, "0s", FormatDuration(-time.Second))
	assert.Equal(t, "1m0s", FormatSecs(60))
}

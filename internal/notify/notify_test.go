package notify

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/JiwanChung/coder-tools/internal/monitor"
)

func TestRender(t *testing.T) {
	title, message := Render(monitor.TransitionEvent{
		PaneName:     "dev:1.0",
		FolderName:   "project",
		IsPermission: true,
	})
	assert.Equal(t, "Permission required", title)
	assert.Contains(t, message, "project")
	assert.Contains(t, message, "dev:1.0")

	title, message = Render(monitor.TransitionEvent{
		PaneName:   "dev:1.0",
		FolderName: "project",
	})
	assert.Equal(t, "Ready for input", title)
	assert.Contains(t, message, "waiting for input")
}

func TestRenderFallsBackToPaneName(t *testing.T) {
	_, message := Render(monitor.TransitionEvent{PaneName: "dev:0.0"})
	assert.Contains(t, message, "dev:0.0")
}

func TestPublishDisabled(t *testing.T) {
	n := New(false)
	calls := 0
	n.run = func(string, ...string) error { calls++; return nil }

	n.Publish([]monitor.TransitionEvent{{PaneName: "dev:0.0"}})
	assert.Zero(t, calls)
}

func TestPublishOnePerEvent(t *testing.T) {
	if runtime.GOOS != "darwin" && runtime.GOOS != "linux" {
		t.Skip("no notifier on this platform")
	}
	n := New(true)
	calls := 0
	n.run = func(string, ...string) error { calls++; return nil }

	n.Publish([]monitor.TransitionEvent{
		{PaneName: "dev:0.0"},
		{PaneName: "dev:0.1", IsPermission: true},
	})
	assert.Equal(t, 2, calls)
}

func TestEscapeAppleScript(t *testing.T) {
	assert.Equal(t, `say \"hi\"`, escapeAppleScript(`say "hi"`))
	assert.Equal(t, `a\\b`, escapeAppleScript(`a\b`))
}

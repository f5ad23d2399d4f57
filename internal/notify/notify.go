// Package notify delivers one-shot desktop notifications for pane
// transition events. Delivery is fire-and-forget: a missing notifier
// binary or a failed command is silently ignored so the monitoring loop
// never blocks on it.
package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/JiwanChung/coder-tools/internal/monitor"
)

// Notifier sends desktop notifications for transition events
type Notifier struct {
	// Enabled gates delivery; events are dropped when false
	Enabled bool

	// run overrides command execution, for tests
	run func(name string, args ...string) error
}

// New creates a Notifier
func New(enabled bool) *Notifier {
	return &Notifier{
		Enabled: enabled,
		run: func(name string, args ...string) error {
			return exec.Command(name, args...).Run()
		},
	}
}

// Publish delivers one notification per transition event
func (n *Notifier) Publish(events []monitor.TransitionEvent) {
	if !n.Enabled {
		return
	}
	for _, ev := range events {
		title, message := Render(ev)
		n.send(title, message)
	}
}

// Render builds the notification title and body for an event
func Render(ev monitor.TransitionEvent) (title, message string) {
	name := ev.FolderName
	if name == "" {
		name = ev.PaneName
	}
	if ev.IsPermission {
		return "Permission required", fmt.Sprintf("%s (%s) needs permission approval", name, ev.PaneName)
	}
	return "Ready for input", fmt.Sprintf("%s (%s) is waiting for input", name, ev.PaneName)
}

func (n *Notifier) send(title, message string) {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification "%s" with title "%s"`,
			escapeAppleScript(message), escapeAppleScript(title))
		_ = n.run("osascript", "-e", script)
	case "linux":
		_ = n.run("notify-send", title, message)
	}
}

func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

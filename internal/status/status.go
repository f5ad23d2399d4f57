// Package status defines the agent session status vocabulary and the
// detection rules that map hook-published tmux pane options onto it.
package status

import "strings"

// Status of an AI coding agent session in a pane
type Status int

const (
	// Working means the agent is actively thinking or executing tools
	Working Status = iota
	// WaitingForInput means the agent is idle, waiting for the user
	WaitingForInput
	// PermissionRequired means the agent is blocked on a permission prompt
	PermissionRequired
	// NotDetected means the pane is not running a recognized agent session
	NotDetected
)

// Parse maps a hook-published @agent_status option value to a Status.
// Anything outside the closed vocabulary is NotDetected.
func Parse(s string) Status {
	switch strings.TrimSpace(s) {
	case "working":
		return Working
	case "waiting":
		return WaitingForInput
	case "permission":
		return PermissionRequired
	default:
		return NotDetected
	}
}

// Rank orders statuses for display: actionable panes first.
func (s Status) Rank() int {
	switch s {
	case PermissionRequired:
		return 0
	case Working:
		return 1
	case WaitingForInput:
		return 2
	default:
		return 3
	}
}

// Icon returns the short display glyph for the status
func (s Status) Icon() string {
	switch s {
	case Working:
		return "◐"
	case WaitingForInput:
		return ">_"
	case PermissionRequired:
		return "⚠"
	default:
		return "--"
	}
}

// Label returns the human-readable status label
func (s Status) Label() string {
	switch s {
	case Working:
		return "Working"
	case WaitingForInput:
		return "Waiting for input"
	case PermissionRequired:
		return "Permission required"
	default:
		return "Not detected"
	}
}

func (s Status) String() string {
	return s.Icon() + " " + s.Label()
}

// Detection is the derived session state for one pane observation
type Detection struct {
	Status Status
	// Task is the prompt the agent is working on, from @agent_task
	Task string
}

// Detect derives a Detection from hook-published pane options.
//
// A pane only counts as an agent session when @agent_provider is set AND
// the pane's current command looks like that agent actually running.
// Pane options survive the agent process, so without the command check a
// finished session would keep reporting its last status forever.
func Detect(provider, agentStatus, agentTask, currentCommand string) Detection {
	provider = strings.TrimSpace(provider)
	if provider == "" || !agentRunning(provider, currentCommand) {
		return Detection{Status: NotDetected}
	}
	return Detection{
		Status: Parse(agentStatus),
		Task:   agentTask,
	}
}

// agentRunning reports whether pane_current_command plausibly belongs to
// the given provider's CLI.
func agentRunning(provider, command string) bool {
	switch provider {
	case "claude":
		// Claude Code's process shows up as its version number, or as
		// "claude" or "node" depending on how it was launched.
		return isVersionString(command) || command == "claude" || command == "node"
	case "gemini":
		return command == "gemini" || command == "node"
	case "codex":
		return strings.HasPrefix(command, "codex") || command == "node"
	default:
		return false
	}
}

func isVersionString(s string) bool {
	if s == "" || s[0] < '0' || s[0] > '9' {
		return false
	}
	for _, c := range s {
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

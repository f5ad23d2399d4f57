// Package tmux provides the pane source for the monitor: one call per
// poll tick returning the complete set of panes with their hook-published
// agent options, plus pane navigation helpers.
package tmux

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/GianlucaP106/gotmux/gotmux"
)

// Pane is one observed tmux pane with its agent options
type Pane struct {
	ID          string
	SessionName string
	WindowIndex int
	PaneIndex   int
	CurrentPath string
	// CurrentCommand is pane_current_command, used to validate that a
	// provider's CLI is actually running
	CurrentCommand string
	// Provider is the hook-published @agent_provider option (claude, gemini, codex)
	Provider string
	// AgentStatus is the hook-published @agent_status option
	AgentStatus string
	// AgentTask is the hook-published @agent_task option
	AgentTask string
}

// DisplayName returns the pane's tmux target address, e.g. "dev:1.0"
func (p Pane) DisplayName() string {
	return fmt.Sprintf("%s:%d.%d", p.SessionName, p.WindowIndex, p.PaneIndex)
}

// FolderName returns the last component of the pane's working directory
func (p Pane) FolderName() string {
	path := strings.TrimSuffix(p.CurrentPath, "/")
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

// paneFormat reads the hook-published agent options alongside pane
// coordinates in a single list-panes call. No screen scraping.
const paneFormat = "#{pane_id}\t#{session_name}\t#{window_index}\t#{pane_index}\t#{pane_current_path}\t#{pane_current_command}\t#{@agent_provider}\t#{@agent_status}\t#{@agent_task}"

// Manager wraps a tmux server connection
type Manager struct {
	tmux *gotmux.Tmux
}

// NewManager connects to the default tmux server
func NewManager() (*Manager, error) {
	t, err := gotmux.DefaultTmux()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to tmux: %w", err)
	}
	return &Manager{tmux: t}, nil
}

// SelfPaneID returns the pane id of the process's own pane, if it is
// running inside tmux. Used to exclude the monitor itself.
func SelfPaneID() string {
	return os.Getenv("TMUX_PANE")
}

// ListPanes returns every pane across all sessions. A missing tmux
// server is not an error: it yields an empty batch so the caller treats
// the tick as "no update".
func (m *Manager) ListPanes() ([]Pane, error) {
	out, err := m.tmux.Command("list-panes", "-a", "-F", paneFormat)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "no server running") || strings.Contains(msg, "no current client") {
			return nil, nil
		}
		return nil, fmt.Errorf("tmux list-panes failed: %w", err)
	}
	return parsePanes(out), nil
}

func parsePanes(out string) []Pane {
	var panes []Pane
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		if len(parts) < 6 {
			continue
		}
		windowIdx, _ := strconv.Atoi(parts[2])
		paneIdx, _ := strconv.Atoi(parts[3])
		pane := Pane{
			ID:             parts[0],
			SessionName:    parts[1],
			WindowIndex:    windowIdx,
			PaneIndex:      paneIdx,
			CurrentPath:    parts[4],
			CurrentCommand: parts[5],
		}
		if len(parts) > 6 {
			pane.Provider = strings.TrimSpace(parts[6])
		}
		if len(parts) > 7 {
			pane.AgentStatus = strings.TrimSpace(parts[7])
		}
		if len(parts) > 8 {
			pane.AgentTask = strings.TrimSpace(parts[8])
		}
		panes = append(panes, pane)
	}
	return panes
}

// SwitchTo focuses a pane, switching session and window as needed so
// navigation works across sessions.
func (m *Manager) SwitchTo(session string, window, pane int) error {
	if _, err := m.tmux.Command("switch-client", "-t", session); err != nil {
		return fmt.Errorf("failed to switch session: %w", err)
	}
	if _, err := m.tmux.Command("select-window", "-t", fmt.Sprintf("%s:%d", session, window)); err != nil {
		return fmt.Errorf("failed to select window: %w", err)
	}
	target := fmt.Sprintf("%s:%d.%d", session, window, pane)
	if _, err := m.tmux.Command("select-pane", "-t", target); err != nil {
		return fmt.Errorf("failed to select pane: %w", err)
	}
	return nil
}

// SendKeys sends keystrokes to a pane
func (m *Manager) SendKeys(paneID, keys string) error {
	if _, err := m.tmux.Command("send-keys", "-t", paneID, keys); err != nil {
		return fmt.Errorf("failed to send keys to pane: %w", err)
	}
	return nil
}

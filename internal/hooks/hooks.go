// Package hooks installs the agent-side tmux hooks that publish
// @agent_provider, @agent_status and @agent_task pane options, which the
// monitor reads. Installation is idempotent and preserves unrelated
// settings keys.
package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Installer writes hook configuration into agent settings files
type Installer struct {
	// Home overrides the user home directory, for tests
	Home string
}

// NewInstaller returns an installer rooted at the user's home directory
func NewInstaller() *Installer {
	home, _ := os.UserHomeDir()
	return &Installer{Home: home}
}

// EnsureInstalled checks and injects hooks for every supported provider.
// Per-provider failures do not stop the others.
func (i *Installer) EnsureInstalled() error {
	var firstErr error
	if _, err := i.InstallClaude(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("claude hooks: %w", err)
	}
	if _, err := i.InstallGemini(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("gemini hooks: %w", err)
	}
	return firstErr
}

func claudeHooks() map[string]any {
	command := func(cmd string) []any {
		return []any{map[string]any{
			"hooks": []any{map[string]any{"type": "command", "command": cmd}},
		}}
	}
	return map[string]any{
		"UserPromptSubmit":  command(`bash -c 'TASK=$(jq -r ".prompt // empty" | tr "\n" " " | head -c 100); tmux set -p @agent_provider claude \; set -p @agent_task "$TASK" \; set -p @agent_status working 2>/dev/null'`),
		"Stop":              command(`tmux set -p @agent_status waiting 2>/dev/null || true`),
		"PermissionRequest": command(`tmux set -p @agent_status permission 2>/dev/null || true`),
	}
}

func geminiHooks() map[string]any {
	command := func(cmd string) []any {
		return []any{map[string]any{
			"hooks": []any{map[string]any{"type": "command", "command": cmd}},
		}}
	}
	return map[string]any{
		"BeforeAgent": command(`tmux set -p @agent_provider gemini \; set -p @agent_status working 2>/dev/null`),
		"AfterAgent":  command(`tmux set -p @agent_status waiting 2>/dev/null`),
	}
}

// InstallClaude injects the Claude Code hooks into
// ~/.claude/settings.json. Returns true if the file was modified.
func (i *Installer) InstallClaude() (bool, error) {
	path := filepath.Join(i.Home, ".claude", "settings.json")
	return i.inject(path, claudeHooks(), nil)
}

// InstallGemini injects the Gemini CLI hooks into
// ~/.gemini/settings.json, enabling the hooks experiment. Returns true
// if the file was modified.
func (i *Installer) InstallGemini() (bool, error) {
	path := filepath.Join(i.Home, ".gemini", "settings.json")
	return i.inject(path, geminiHooks(), func(settings map[string]any) {
		experiments, ok := settings["experiments"].(map[string]any)
		if !ok {
			experiments = map[string]any{}
			settings["experiments"] = experiments
		}
		experiments["enableHooks"] = true
	})
}

// inject merges the given hooks into a settings file, creating it if
// missing. Existing hook entries with the same key are left untouched;
// a backup is written before the first modification of an existing file.
func (i *Installer) inject(path string, hooks map[string]any, extra func(map[string]any)) (bool, error) {
	settings := map[string]any{}

	data, err := os.ReadFile(path)
	exists := err == nil
	if exists {
		if err := json.Unmarshal(data, &settings); err != nil {
			return false, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return false, err
	}

	current, ok := settings["hooks"].(map[string]any)
	if !ok {
		current = map[string]any{}
	}

	modified := false
	for key, value := range hooks {
		if _, present := current[key]; !present {
			current[key] = value
			modified = true
		}
	}
	if !modified && exists {
		return false, nil
	}
	settings["hooks"] = current
	if extra != nil {
		extra(settings)
	}

	if exists {
		backup := path + ".bak"
		if err := os.WriteFile(backup, data, 0o644); err != nil {
			return false, fmt.Errorf("failed to create backup: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}

	out, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return false, err
	}
	return true, nil
}

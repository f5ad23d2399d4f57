package hooks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readSettings(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var settings map[string]any
	require.NoError(t, json.Unmarshal(data, &settings))
	return settings
}

func TestInstallClaudeCreatesSettings(t *testing.T) {
	home := t.TempDir()
	inst := &Installer{Home: home}

	modified, err := inst.InstallClaude()
	require.NoError(t, err)
	assert.True(t, modified)

	settings := readSettings(t, filepath.Join(home, ".claude", "settings.json"))
	hooks := settings["hooks"].(map[string]any)
	assert.Contains(t, hooks, "UserPromptSubmit")
	assert.Contains(t, hooks, "Stop")
	assert.Contains(t, hooks, "PermissionRequest")
}

func TestInstallClaudeIdempotent(t *testing.T) {
	home := t.TempDir()
	inst := &Installer{Home: home}

	_, err := inst.InstallClaude()
	require.NoError(t, err)

	modified, err := inst.InstallClaude()
	require.NoError(t, err)
	assert.False(t, modified)
}

func TestInstallClaudePreservesExistingSettings(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".claude")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "settings.json")
	existing := `{"model":"opus","hooks":{"Stop":[{"hooks":[{"type":"command","command":"custom"}]}]}}`
	require.NoError(t, os.WriteFile(path, []byte(existing), 0o644))

	inst := &Installer{Home: home}
	modified, err := inst.InstallClaude()
	require.NoError(t, err)
	assert.True(t, modified)

	settings := readSettings(t, path)
	assert.Equal(t, "opus", settings["model"])

	// Pre-existing Stop hook untouched, missing hooks added
	hooks := settings["hooks"].(map[string]any)
	stop := hooks["Stop"].([]any)[0].(map[string]any)["hooks"].([]any)[0].(map[string]any)
	assert.Equal(t, "custom", stop["command"])
	assert.Contains(t, hooks, "UserPromptSubmit")

	// Backup written before modification
	_, err = os.Stat(path + ".bak")
	assert.NoError(t, err)
}

func TestInstallGeminiEnablesHooksExperiment(t *testing.T) {
	home := t.TempDir()
	inst := &Installer{Home: home}

	modified, err := inst.InstallGemini()
	require.NoError(t, err)
	assert.True(t, modified)

	settings := readSettings(t, filepath.Join(home, ".gemini", "settings.json"))
	experiments := settings["experiments"].(map[string]any)
	assert.Equal(t, true, experiments["enableHooks"])

	hooks := settings["hooks"].(map[string]any)
	assert.Contains(t, hooks, "BeforeAgent")
	assert.Contains(t, hooks, "AfterAgent")
}

func TestInjectMalformedSettingsFails(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".claude")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{broken"), 0o644))

	inst := &Installer{Home: home}
	_, err := inst.InstallClaude()
	assert.Error(t, err)
}

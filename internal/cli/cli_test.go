package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JiwanChung/coder-tools/internal/config"
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals() (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Verbose: false,
		Config:  config.Default(),
		Stdout:  stdout,
		Stderr:  stderr,
	}, stdout, stderr
}

// --- Usage Command Tests ---

func TestUsageCmd_Run(t *testing.T) {
	t.Run("reports zero usage when no logs exist", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		globals, stdout, _ := testGlobals()
		cmd := &UsageCmd{Path: "/sessions/project", Provider: "claude"}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Provider:     claude")
		assert.Contains(t, output, "Cost:         $0")
	})

	t.Run("sums recorded usage and prices it", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		projectDir := filepath.Join(home, ".claude", "projects", "-work-demo")
		require.NoError(t, os.MkdirAll(projectDir, 0o755))
		lines := `{"usage":{"input_tokens":1000000,"output_tokens":2000000}}` + "\n"
		require.NoError(t, os.WriteFile(filepath.Join(projectDir, "session.jsonl"), []byte(lines), 0o644))

		globals, stdout, _ := testGlobals()
		cmd := &UsageCmd{Path: "/work/demo", Provider: "claude"}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Input:        1.0M")
		assert.Contains(t, output, "Output:       2.0M")
		assert.Contains(t, output, "Cost:         $33.00")
	})

	t.Run("emits JSON when requested", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		globals, stdout, _ := testGlobals()
		cmd := &UsageCmd{Path: "/sessions/project", Provider: "gemini", JSON: true}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "gemini", result["provider"])
		assert.Equal(t, "/sessions/project", result["path"])
		assert.Equal(t, float64(0), result["cost_usd"])
	})
}

// --- Hooks Command Tests ---

func TestHooksInstallCmd_Run(t *testing.T) {
	t.Run("installs hooks into fresh settings files", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		globals, stdout, _ := testGlobals()
		cmd := &HooksInstallCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "claude: hooks installed")
		assert.Contains(t, output, "gemini: hooks installed")

		data, err := os.ReadFile(filepath.Join(home, ".claude", "settings.json"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "UserPromptSubmit")
	})

	t.Run("reports already present on second run", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		globals, _, _ := testGlobals()
		cmd := &HooksInstallCmd{}
		require.NoError(t, cmd.Run(globals))

		globals2, stdout, _ := testGlobals()
		require.NoError(t, cmd.Run(globals2))
		assert.Contains(t, stdout.String(), "claude: hooks already present")
	})
}

// --- Error Output Tests ---

func TestOutputError(t *testing.T) {
	t.Run("writes code and hint to stderr", func(t *testing.T) {
		globals, _, stderr := testGlobals()

		err := outputError(globals, "TMUX_UNAVAILABLE", "tmux not found", "is tmux installed?")
		require.Error(t, err)
		assert.Equal(t, "tmux not found", err.Error())

		output := stderr.String()
		assert.Contains(t, output, "Error [TMUX_UNAVAILABLE]")
		assert.Contains(t, output, "hint: is tmux installed?")
	})

	t.Run("omits hint when none given", func(t *testing.T) {
		globals, _, stderr := testGlobals()

		err := outputError(globals, "ENCODE_FAILED", "bad payload")
		require.Error(t, err)
		assert.NotContains(t, stderr.String(), "hint")
	})
}

// --- Globals Tests ---

func TestNewGlobals(t *testing.T) {
	t.Run("flag verbosity wins over config", func(t *testing.T) {
		cfg := config.Default()
		c := &CLI{Verbose: true}

		globals := NewGlobals(c, cfg)
		assert.True(t, globals.Verbose)
	})

	t.Run("config verbosity applies without flag", func(t *testing.T) {
		cfg := config.Default()
		cfg.Verbose = true
		c := &CLI{}

		globals := NewGlobals(c, cfg)
		assert.True(t, globals.Verbose)
	})

	t.Run("debug logging is silent when not verbose", func(t *testing.T) {
		globals, stdout, stderr := testGlobals()
		globals.Debug("should not appear %d", 42)
		assert.Empty(t, stdout.String())
		assert.Empty(t, stderr.String())
	})
}

package cli

import (
	"fmt"

	"github.com/JiwanChung/coder-tools/internal/hooks"
)

// HooksCmd manages the agent settings hooks that publish pane state
type HooksCmd struct {
	Install HooksInstallCmd `cmd:"" help:"Install status hooks into the agent settings files"`
}

// HooksInstallCmd injects the hooks, backing up each settings file first
type HooksInstallCmd struct{}

// Run executes the hooks install command
func (c *HooksInstallCmd) Run(globals *Globals) error {
	installer := hooks.NewInstaller()

	claudeChanged, claudeErr := installer.InstallClaude()
	geminiChanged, geminiErr := installer.InstallGemini()

	report := func(name string, changed bool, err error) {
		switch {
		case err != nil:
			fmt.Fprintf(globals.Stderr, "%s: %v\n", name, err)
		case changed:
			fmt.Fprintf(globals.Stdout, "%s: hooks installed\n", name)
		default:
			fmt.Fprintf(globals.Stdout, "%s: hooks already present\n", name)
		}
	}
	report("claude", claudeChanged, claudeErr)
	report("gemini", geminiChanged, geminiErr)

	if claudeErr != nil || geminiErr != nil {
		return outputError(globals, "HOOKS_INSTALL_FAILED", "one or more providers failed", "check settings file permissions")
	}
	return nil
}

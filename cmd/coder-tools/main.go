package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/JiwanChung/coder-tools/internal/cli"
	"github.com/JiwanChung/coder-tools/internal/config"
)

func main() {
	// Load configuration from files/environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
		cfg = config.Default()
	}

	var c cli.CLI

	ctx := kong.Parse(&c,
		kong.Name("coder-tools"),
		kong.Description("Monitor AI coding agent sessions across tmux panes\n\nTracks per-pane agent status, time spent per state, and session token cost"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
	)

	globals := cli.NewGlobals(&c, cfg)
	err = ctx.Run(globals)
	if err != nil {
		os.Exit(1)
	}
}

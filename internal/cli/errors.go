package cli

import (
	"errors"
	"fmt"
)

// outputError normalizes error reporting across commands: a stable code
// for scripting plus an optional hint for humans.
func outputError(globals *Globals, code, message string, hint ...string) error {
	if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s", code, message)
		if len(hint) > 0 && hint[0] != "" {
			fmt.Fprintf(globals.Stderr, " (hint: %s)", hint[0])
		}
		fmt.Fprintln(globals.Stderr)
	}
	return errors.New(message)
}

// File: lixenwraith/tagcli/command.go
package tagcli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// Command pairs a sub-command name with the prototype that handles it.
type Command struct {
	Name      string
	Prototype Runner
	Options   []Option
}

// RunCommands dispatches on the first positional token: the matching
// command's App parses the remaining arguments and runs its node. Command
// order is preserved in usage output.
func RunCommands(commands []Command, args []string) (Runner, error) {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.Name
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("expected a command (one of: %s)", strings.Join(names, ", "))
	}
	if args[0] == "-h" || args[0] == "--help" {
		return nil, fmt.Errorf("%w: commands: %s", pflag.ErrHelp, strings.Join(names, ", "))
	}
	for _, c := range commands {
		if c.Name != args[0] {
			continue
		}
		app, err := New(c.Prototype, append([]Option{WithName(c.Name)}, c.Options...)...)
		if err != nil {
			return nil, err
		}
		return app.Run(args[1:])
	}
	return nil, fmt.Errorf("unknown command %q (expected one of: %s)", args[0], strings.Join(names, ", "))
}

// Main builds an App for the prototype, runs it against os.Args, and exits
// the process on failure. Help requests exit zero; every other error is
// reported on stderr with a non-zero status.
func Main(prototype Runner) {
	app, err := New(prototype)
	if err != nil {
		fatal(err)
	}
	if _, err := app.Run(os.Args[1:]); err != nil {
		exitOn(err)
	}
}

// MainCommands is Main for a multi-command program.
func MainCommands(commands []Command) {
	if _, err := RunCommands(commands, os.Args[1:]); err != nil {
		exitOn(err)
	}
}

func exitOn(err error) {
	if errors.Is(err, pflag.ErrHelp) {
		os.Exit(0)
	}
	fatal(err)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(2)
}

package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/craftlaunch/craftlaunch/internals/merrors"
	"github.com/spf13/cobra"
)

type Command struct {
	*cobra.Command
	runner Runner
}

type Runner interface {
	RunE(cmd *cobra.Command, args []string) error
}

// New wraps a cobra command with the given runner. Errors returned by
// the runner are rendered (CliErrors get the fancy box) and the
// process exits 1.
func New(cmd *cobra.Command, run Runner) *Command {
	build := &Command{
		cmd,
		run,
	}
	build.Command.Run = func(cmd *cobra.Command, args []string) {
		err := run.RunE(cmd, args)
		if err != nil {
			var asCliErr *merrors.CliError
			if errors.As(err, &asCliErr) {
				fmt.Println(RichError(asCliErr) + "\n")
			} else {
				fmt.Println(
					ErrorBox(err.Error(), ""),
				)
			}
			os.Exit(1)
		}
	}

	return build
}

// RunnerFunc adapts a function to the Runner interface
type RunnerFunc func(cmd *cobra.Command, args []string) error

func (f RunnerFunc) RunE(cmd *cobra.Command, args []string) error {
	return f(cmd, args)
}

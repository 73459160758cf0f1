package instances

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/craftlaunch/craftlaunch/internals/logparser"
	"github.com/craftlaunch/craftlaunch/internals/merrors"
	"github.com/shirou/gopsutil/v3/process"
)

// crashTailLines is how much of the error log ends up in the crash message
const crashTailLines = 10

// Launch starts the game and blocks until it exits or ctx is
// canceled. The game's output is redirected to per-instance log
// files, on an abnormal exit the error log tail becomes part of the
// returned error.
func (i *Instance) Launch(ctx context.Context, opts *LaunchOptions) error {
	cmd, err := i.BuildLaunchCmd(ctx, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(i.LogsDir(), 0755); err != nil {
		return err
	}
	stdout, err := os.Create(filepath.Join(i.LogsDir(), "latest.log"))
	if err != nil {
		return err
	}
	defer stdout.Close()
	stderr, err := os.Create(filepath.Join(i.LogsDir(), "latest_err.log"))
	if err != nil {
		return err
	}
	defer stderr.Close()

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Start(); err != nil {
		return err
	}

	// we catch ctrl-c and stop the game instead of dying immediately
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	// the wait happens on its own goroutine, so a canceled context
	// or an interrupt can always preempt it
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		cmd.Process.Signal(syscall.SIGTERM)
		<-done
		return ctx.Err()
	case <-interrupt:
		fmt.Println("Caught interrupt, stopping minecraft")
		cmd.Process.Signal(syscall.SIGTERM)
		<-done

		// send SIGTERM to own process so shell prompts come back clean
		p := &process.Process{Pid: int32(os.Getpid())}
		p.Terminate()
		return nil
	case err = <-done:
	}

	code := cmd.ProcessState.ExitCode()
	// 130 is a server stopped via ctrl-c, that is a normal exit
	if code == 0 || code == 130 {
		return nil
	}

	return i.crashError(code, err)
}

// crashError builds the error for an abnormal game exit, tailing the
// error log (or the normal log when nothing landed there)
func (i *Instance) crashError(code int, waitErr error) error {
	tail := logparser.Tail(filepath.Join(i.LogsDir(), "latest_err.log"), crashTailLines)
	if len(tail) == 0 {
		tail = logparser.Tail(filepath.Join(i.LogsDir(), "latest.log"), crashTailLines)
	}

	cliErr := &merrors.CliError{
		Text: fmt.Sprintf("Minecraft crashed (exit code %d)", code),
		Help: "The full logs are in " + i.LogsDir(),
	}
	if len(tail) != 0 {
		cliErr.Help = "Last log lines:\n" + logparser.Render(tail) + "\n\nFull logs: " + i.LogsDir()
	}
	if waitErr != nil && code == -1 {
		cliErr.Text = "Minecraft did not start: " + waitErr.Error()
	}
	return cliErr
}

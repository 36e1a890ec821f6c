package runner

import (
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"

	"github.com/bashhack/runlock/internal/errors"
)

// DefaultGracePeriod is how long a cancelled command gets between the
// interrupt signal and being killed.
const DefaultGracePeriod = 5 * time.Second

// CommandExecutor defines an interface for executing the guarded command
type CommandExecutor interface {
	// ExecuteWithContext runs name with args until it exits or ctx is done
	ExecuteWithContext(ctx context.Context, name string, args ...string) error
}

// ExecExecutor is the default implementation of CommandExecutor
// that delegates to the os/exec package
type ExecExecutor struct {
	Stdin       io.Reader
	Stdout      io.Writer
	Stderr      io.Writer
	GracePeriod time.Duration
}

// NewExecExecutor creates an ExecExecutor wired to the process's standard streams
func NewExecExecutor() *ExecExecutor {
	return &ExecExecutor{
		Stdin:       os.Stdin,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		GracePeriod: DefaultGracePeriod,
	}
}

// ExecuteWithContext implements CommandExecutor.ExecuteWithContext.
//
// A non-zero exit is returned as a *errors.CommandError carrying the exit
// code, or 128 plus the signal number when the command was killed by a
// signal. When ctx is done the command is interrupted, then killed after
// GracePeriod.
func (e *ExecExecutor) ExecuteWithContext(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = e.GracePeriod

	err := cmd.Run()
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
		// Shells report death by signal N as 128+N
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
			exitCode = 128 + int(status.Signal())
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return errors.NewCommandError(name, args, exitCode, errors.Wrap(ctxErr, "command interrupted"))
	}

	return errors.NewCommandError(name, args, exitCode, errors.Wrap(errors.ErrCommandFailed, err.Error()))
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/bashhack/runlock/internal/config"
	"github.com/bashhack/runlock/internal/errors"
	"github.com/bashhack/runlock/internal/lock"
	"github.com/bashhack/runlock/internal/logger"
	"github.com/bashhack/runlock/internal/runner"
)

// Locker manages file locking
type Locker interface {
	Acquire() error
	Release() error
}

// AppOptions contains app configuration and dependencies
type AppOptions struct {
	// Required
	Config *config.Config

	// Optional components
	Logger   logger.Logger
	Locker   Locker
	Executor runner.CommandExecutor

	// I/O dependencies
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	Exit         func(code int)
	ExecLookPath func(file string) (string, error)
}

// App is the main runlock application
type App struct {
	Config   *config.Config
	Logger   logger.Logger
	Locker   Locker
	Executor runner.CommandExecutor

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer

	// System dependencies
	exit         func(code int)
	execLookPath func(file string) (string, error)
}

// NewDefaultApp creates an App with standard dependencies
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	opts := AppOptions{
		Config:       cfg,
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		Exit:         os.Exit,
		ExecLookPath: exec.LookPath,
	}

	return NewApp(opts)
}

// NewApp creates an App with custom dependencies
func NewApp(opts AppOptions) *App {
	if opts.Config == nil {
		panic("Config is required in AppOptions")
	}

	app := &App{
		Config:       opts.Config,
		Logger:       opts.Logger,
		Locker:       opts.Locker,
		Executor:     opts.Executor,
		Stdout:       opts.Stdout,
		Stderr:       opts.Stderr,
		exit:         opts.Exit,
		execLookPath: opts.ExecLookPath,
	}

	// Set defaults for nil dependencies
	if app.Stdout == nil {
		app.Stdout = os.Stdout
	}
	if app.Stderr == nil {
		app.Stderr = os.Stderr
	}
	if app.exit == nil {
		app.exit = os.Exit
	}
	if app.execLookPath == nil {
		app.execLookPath = exec.LookPath
	}

	return app
}

// Initialize sets up components not provided during construction
func (a *App) Initialize() error {
	if err := a.Config.Finalize(); err != nil {
		if errors.Is(err, errors.ErrInvalidConfiguration) {
			return err
		}
		return errors.Wrap(errors.ErrInvalidConfiguration, err.Error())
	}

	a.initLogger()

	if a.Locker == nil {
		var opts []lock.Option
		if l, ok := a.Logger.(*logger.DefaultLogger); ok {
			opts = append(opts, lock.WithLogger(l.Zerolog()))
		}
		a.Locker = lock.New(a.Config.LockFile, opts...)
	}

	if a.Executor == nil {
		executor := runner.NewExecExecutor()
		executor.Stdout = a.Stdout
		executor.Stderr = a.Stderr
		a.Executor = executor
	}

	return nil
}

// initLogger creates the default logger if none was injected. Debug
// logging needs a log file, so it stays off until Finalize has set one.
func (a *App) initLogger() {
	if a.Logger != nil {
		return
	}
	debug := a.Config.Debug && a.Config.LogFile != ""
	a.Logger = logger.NewWithOutput(debug, a.Config.LogFile, a.Config.Verbose(), a.Stdout, a.Stderr)
}

// Run acquires the lock, runs the configured command and releases the lock.
// The lock is released even when the command fails or ctx is cancelled.
func (a *App) Run(ctx context.Context) (err error) {
	if len(a.Config.Command) == 0 {
		return errors.NewConfigError("command", nil, errors.Wrap(errors.ErrInvalidConfiguration, "no command given"))
	}

	if err := a.Initialize(); err != nil {
		return err
	}

	name, args := a.Config.Command[0], a.Config.Command[1:]

	// Verify the command exists before taking the lock
	if _, err := a.execLookPath(name); err != nil {
		return errors.NewCommandError(name, args, -1, errors.Wrapf(errors.ErrCommandFailed, "cannot run %s: %v", name, err))
	}

	if err := a.Locker.Acquire(); err != nil {
		if errors.Is(err, errors.ErrAlreadyRunning) {
			a.Logger.Info("Lock %s is held by another process", a.Config.LockFile)
			return err
		}
		return errors.Errorf("%w: %w", errors.ErrLockAcquisitionFailure, err)
	}
	a.Logger.Info("Acquired lock %s", a.Config.LockFile)

	defer func() {
		if releaseErr := a.Locker.Release(); releaseErr != nil {
			a.Logger.Error("Failed to release lock %s: %v", a.Config.LockFile, releaseErr)
			err = errors.Join(err, releaseErr)
			return
		}
		a.Logger.Info("Released lock %s", a.Config.LockFile)
	}()

	a.Logger.Info("Running %q with %d argument(s)", name, len(args))
	return a.Executor.ExecuteWithContext(ctx, name, args...)
}

// ShowVersion displays version information
func (a *App) ShowVersion() {
	a.initLogger()
	a.Logger.StatusMessage("runlock %s (%s) built on %s",
		a.Config.VersionInfo.Version,
		a.Config.VersionInfo.Commit,
		a.Config.VersionInfo.Date)
}

// ExitCode maps the result of a run to the process exit status
func (a *App) ExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, errors.ErrAlreadyRunning) {
		return a.Config.ConflictExitCode
	}

	if errors.Is(err, context.Canceled) {
		return 130
	}

	var cmdErr *errors.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return cmdErr.ExitCode
	}

	return 1
}

// Close releases resources held by the App
func (a *App) Close() error {
	var errs []error

	// Release lock if it exists
	if a.Locker != nil {
		if err := a.Locker.Release(); err != nil {
			if a.Logger != nil {
				a.Logger.Error("Failed to release lock during cleanup: %v", err)
			} else {
				_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to release lock during cleanup: %v\n", err)
			}
			errs = append(errs, err)
		}
	}

	if a.Logger != nil {
		if err := a.Logger.Close(); err != nil {
			_, _ = fmt.Fprintf(a.Stderr, "❌ Failed to close logger: %v\n", err)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

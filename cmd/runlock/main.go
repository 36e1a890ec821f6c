package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/bashhack/runlock/internal/config"
	"github.com/bashhack/runlock/internal/errors"
)

// Version information - injected at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	versionInfo := config.VersionInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}

	app := NewDefaultApp(versionInfo)

	// Cancelling the context interrupts the command; Run still releases the lock
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	err := newRootCmd(app).ExecuteContext(ctx)
	stop()

	app.reportError(err)
	_ = app.Close()

	if code := app.ExitCode(err); code != 0 {
		app.exit(code)
	}
}

// reportError prints err for the user unless the command already reported
// its own failure.
func (a *App) reportError(err error) {
	if err == nil {
		return
	}
	a.initLogger()

	switch {
	case errors.Is(err, context.Canceled):
		a.Logger.WarningToUser("Interrupted, lock released")
		return
	case errors.Is(err, errors.ErrAlreadyRunning):
		a.Logger.Warning("%s is locked by another runlock process", a.Config.LockFile)
		return
	}

	var cmdErr *errors.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode > 0 {
		return
	}

	a.Logger.Error("Error: %v", err)
}

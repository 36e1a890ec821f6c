package main

import (
	"github.com/spf13/cobra"

	"github.com/bashhack/runlock/internal/errors"
	"github.com/bashhack/runlock/internal/lock"
)

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runlock [flags] [--] command [args...]",
		Short: "Run a command while holding an exclusive lock file",
		Long: `Run a command while holding an exclusive advisory lock.

Only one runlock process can hold a given lock file at a time. A second
invocation exits immediately with the conflict exit code instead of
waiting. The lock file is removed when the command finishes.

Use -- to separate runlock flags from the command when the command
name collides with a runlock subcommand.`,
		Example: `  runlock -l /tmp/backup.lock -- rsync -a src/ dst/
  runlock --conflict-exit-code 75 make deploy`,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			app.Config.Command = args
			if err := app.Config.Load(cmd.Flags()); err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	// Everything after the command name belongs to the command
	cmd.Flags().SetInterspersed(false)

	app.Config.SetupFlags(cmd.PersistentFlags())
	app.Config.SetupRunFlags(cmd.Flags())

	cmd.SetOut(app.Stdout)
	cmd.SetErr(app.Stderr)

	cmd.AddCommand(newStatusCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status [--lock-file PATH | -- command [args...]]",
		Short: "Report whether a lock file is absent, free or held",
		Long: `Report the state of a lock file without taking it.

  absent  the lock file does not exist
  free    the lock file exists and no process holds it
  held    another process holds the lock

The lock file is either given with --lock-file or derived from the
command, exactly as a run of the same command would derive it.

Checking briefly takes a shared lock on an existing lock file. A run that
starts at that instant sees the lock as held and exits with the conflict
exit code, so avoid polling status in a tight loop next to scheduled runs.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Config.Command = args
			if err := app.Config.Load(cmd.Flags()); err != nil {
				return err
			}
			if err := app.Config.Finalize(); err != nil {
				return err
			}

			status, err := lock.Probe(app.Config.LockFile)
			if err != nil {
				return errors.NewLockError(app.Config.LockFile, err)
			}

			app.initLogger()
			app.Logger.StatusMessage("%s: %s", app.Config.LockFile, status)
			return nil
		},
	}
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			app.ShowVersion()
		},
	}
}

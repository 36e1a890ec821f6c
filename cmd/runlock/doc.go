// Runlock runs a command while holding an exclusive advisory lock file,
// so that at most one copy of the command runs at a time on a host.
//
// # Usage
//
//	runlock [flags] [--] command [args...]
//	runlock status [--lock-file PATH | -- command [args...]]
//	runlock version
//
// # Flags
//
//	-l, --lock-file PATH          Lock file (default: $TMPDIR/runlock-{command-hash}.lock)
//	-E, --conflict-exit-code N    Exit code when the lock is already held (default: 1)
//	-q, --quiet                   Hide informational messages
//	    --debug                   Write a debug log
//	    --log-file PATH           Debug log location
//	    --config PATH             YAML, TOML or JSON config file
//
// Flags must come before the command. Everything from the command name on
// is passed to the command untouched.
//
// # Exit Status
//
// runlock exits with the command's own exit status. When another process
// holds the lock it exits with the conflict exit code without running the
// command. An interrupted run exits with 130. Any other failure exits 1.
//
// # Lock Semantics
//
// The lock is a flock(2) lock on the lock file, so it is released by the
// kernel if runlock dies. On a normal exit, including SIGINT, SIGTERM and
// SIGHUP, the lock file is removed after the command stops. A process
// that loses the race never removes the winner's file.
//
// # Examples
//
// Run a nightly backup from cron without overlapping runs:
//
//	*/15 * * * * runlock -q -l /var/run/backup.lock -- /usr/local/bin/backup.sh
//
// Treat "already running" as a temporary failure:
//
//	runlock --conflict-exit-code 75 make deploy
//
// Check whether a deploy is in progress:
//
//	runlock status --lock-file /var/run/deploy.lock
package main

// Package runlock runs commands under a cross-process advisory lock.
//
// runlock guarantees that at most one copy of a command runs at a time on a
// host. The first invocation takes an exclusive flock(2) lock on a lock file
// and runs the command; later invocations fail fast with a configurable exit
// code until the holder finishes. The lock file is removed on release, and
// the kernel drops the lock if the holder dies.
//
// # Quick Start
//
//	# Serialize a cron job
//	runlock -l /var/run/backup.lock -- /usr/local/bin/backup.sh
//
//	# Is it running right now?
//	runlock status -l /var/run/backup.lock
//
// # Packages
//
//   - internal/lock: the FileLock primitive, usable on its own
//   - internal/runner: runs the guarded command
//   - internal/config: flags, environment and config file layering
//   - internal/logger: debug log file and user-facing messages
//   - internal/errors: sentinel and typed errors shared by the packages above
//
// See cmd/runlock for the full command-line reference.
package runlock

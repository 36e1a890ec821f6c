// Package runner executes the command guarded by the lock.
//
// CommandExecutor is the seam the application depends on; ExecExecutor
// is the os/exec implementation. Standard streams are passed through to
// the child, and its exit status is surfaced through errors.CommandError
// so the CLI can exit with the same code.
package runner

// Package lock provides a cross-process advisory file lock.
//
// A FileLock guards a single path. Holding the lock means holding an
// exclusive flock(2) on the file currently at that path; the contents of
// the file are never read or written. The lock is used to make sure only
// one instance of a tool runs against a shared resource at a time.
//
// # Core Components
//
//   - FileLock: acquires, releases and scopes the lock
//   - FileID and SameFile: (device, inode) identity used to re-validate the path
//   - Probe: reports absent/free/held without taking ownership
//
// # Usage
//
//	fl := lock.New("/var/run/tool.lock")
//	if err := fl.Acquire(); err != nil {
//	    // errors.ErrAlreadyRunning: another instance holds it
//	    return err
//	}
//	defer fl.Release()
//
// Or scoped:
//
//	err := lock.WithLock("/var/run/tool.lock", func() error {
//	    return doWork()
//	})
//
// # Acquisition
//
// Acquire never blocks. It opens (creating if needed) the path, takes a
// non-blocking exclusive lock, then compares the identity of the path with
// the identity of the locked handle. If a concurrent Release removed the
// file, or a new file was created in its place, the handle is closed and
// the whole sequence starts again. These retries are invisible to the
// caller. Contention is reported immediately as a *errors.LockError.
//
// # Release
//
// Release removes the file first and closes the handle second, so later
// acquirers create a fresh file. Both steps always run.
//
// # Stale Locks
//
// A lock file left behind by a crashed process is not held by anyone: the
// kernel drops the flock when the owning descriptor is closed. No PID
// bookkeeping or stale-lock cleanup is needed.
//
// # Thread Safety
//
// A FileLock must not be shared between goroutines. Separate FileLock
// values for the same path do exclude each other, even within one process.
//
// # System Requirements
//
// Unix-like systems only. Network filesystems with unreliable advisory
// locking are not supported.
package lock

// Package errors provides error handling utilities for the runlock application.
//
// This package implements the error types and sentinels shared by the lock,
// runner and CLI layers. It focuses on carrying enough context for a useful
// message while staying compatible with errors.Is and errors.As.
//
// # Sentinels
//
//   - ErrAlreadyRunning: another process holds the lock
//   - ErrLockAcquisitionFailure: the lock could not be taken for another reason
//   - ErrCommandFailed: the guarded command exited non-zero
//   - ErrInvalidConfiguration: flags, environment or config file are inconsistent
//   - ErrUnsupportedPlatform: no advisory lock primitive on this OS
//
// # Typed errors
//
//   - LockError: lock contention, wraps ErrAlreadyRunning
//   - CommandError: guarded command failure with its exit code
//   - ConfigError: invalid configuration parameter
//
// # Usage
//
//	if err := fl.Acquire(); err != nil {
//	    if errors.Is(err, errors.ErrAlreadyRunning) {
//	        // report and abort, never retry
//	    }
//	    return err
//	}
//
// # Thread Safety
//
// All types and functions in this package are safe for concurrent use
// by multiple goroutines.
package errors

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors that can be used with errors.Is() for error type checking
var (
	// ErrLockAcquisitionFailure indicates a lock file could not be acquired
	ErrLockAcquisitionFailure = New("failed to acquire lock")

	// ErrAlreadyRunning indicates another instance holds the lock
	ErrAlreadyRunning = New("another instance is already running")

	// ErrCommandFailed indicates the guarded command exited unsuccessfully
	ErrCommandFailed = New("command failed")

	// ErrInvalidConfiguration indicates an invalid or conflicting user configuration
	ErrInvalidConfiguration = New("invalid configuration")

	// ErrUnsupportedPlatform indicates the advisory lock primitive is unavailable on this OS
	ErrUnsupportedPlatform = New("file locking is only supported on Unix-like operating systems")
)

// New creates a new error with the given message.
// This is a convenience function that wraps errors.New.
func New(message string) error {
	return errors.New(message)
}

// Errorf creates a new formatted error.
// This is a convenience function that wraps fmt.Errorf.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Wrap wraps an error with a message for better context.
func Wrap(err error, message string) error {
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message for better context.
func Wrapf(err error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether target is in err's chain.
// This is a convenience function that wraps errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience function that wraps errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Join returns an error that wraps the given errors, discarding nils.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// CommandError represents a guarded command that could not be started or exited non-zero.
// ExitCode is -1 when the process never produced an exit status.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Err      error
}

// Error implements the error interface with the command line and exit status.
func (e *CommandError) Error() string {
	cmdline := strings.TrimSpace(e.Name + " " + strings.Join(e.Args, " "))
	msg := fmt.Sprintf("command %q failed", cmdline)
	if e.ExitCode >= 0 {
		msg = fmt.Sprintf("%s with exit code %d", msg, e.ExitCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new CommandError with the given parameters.
func NewCommandError(name string, args []string, exitCode int, err error) *CommandError {
	return &CommandError{
		Name:     name,
		Args:     args,
		ExitCode: exitCode,
		Err:      err,
	}
}

// LockError is returned when the lock file is held by someone else.
// It is terminal: callers report it and abort instead of retrying.
type LockError struct {
	LockFile string
	Err      error
}

// Error implements the error interface with details about the lock file.
func (e *LockError) Error() string {
	return fmt.Sprintf("lock error with file %s: %v", e.LockFile, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *LockError) Unwrap() error {
	return e.Err
}

// NewLockError creates a new LockError with the given parameters.
func NewLockError(lockFile string, err error) *LockError {
	return &LockError{
		LockFile: lockFile,
		Err:      err,
	}
}

// ConfigError represents an error in the application configuration.
// It includes the parameter name, its value if available, and the underlying error.
type ConfigError struct {
	Parameter string
	Value     interface{}
	Err       error
}

// Error implements the error interface with details about the invalid configuration.
func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("configuration error for %s = %v: %v", e.Parameter, e.Value, e.Err)
	}
	return fmt.Sprintf("configuration error for %s: %v", e.Parameter, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is and errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError with the given parameters.
func NewConfigError(parameter string, value interface{}, err error) *ConfigError {
	return &ConfigError{
		Parameter: parameter,
		Value:     value,
		Err:       err,
	}
}

package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// Logger defines the common logging interface used throughout the application.
// It separates internal (debug) logs, which go to the log file, from
// user-facing messages, which are printed.
type Logger interface {
	// Private logging methods (typically written only to log file)

	// Info logs an informational message for debugging purposes.
	// The format string follows fmt.Printf style formatting.
	Info(format string, args ...interface{})

	// Warning logs a warning message for debugging purposes.
	// It is also shown to the user on stderr when verbose mode is enabled.
	Warning(format string, args ...interface{})

	// Error logs an error message. Errors are always shown to the user on stderr.
	Error(format string, args ...interface{})

	// User-facing logging methods

	// WarningToUser logs a warning and always shows it on stderr.
	WarningToUser(format string, args ...interface{})

	// StatusMessage prints a line of command output on stdout without logging it.
	StatusMessage(format string, args ...interface{})

	// Close flushes and closes the log file, if any.
	Close() error
}

var (
	warningColor = color.New(color.FgYellow)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// DefaultLogger writes structured debug logs with zerolog and coloured
// messages for the user. It implements the Logger interface.
//
// stdout carries command output only; every notice goes to stderr so it
// never mixes with the output of the guarded command.
type DefaultLogger struct {
	mu      sync.Mutex
	logger  zerolog.Logger
	enabled bool
	logFile string
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File // Store file handle for closing
}

// New creates a new Logger instance
func New(enabled bool, logFile string, verbose bool) *DefaultLogger {
	return NewWithOutput(enabled, logFile, verbose, os.Stdout, os.Stderr)
}

// NewWithOutput creates a DefaultLogger with custom output writers
func NewWithOutput(enabled bool, logFile string, verbose bool, stdout, stderr io.Writer) *DefaultLogger {
	logger := zerolog.Nop()
	var file *os.File

	if enabled {
		logDir := filepath.Dir(logFile)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				_, _ = fmt.Fprintf(stderr, "⚠️ Failed to create log directory: %v\n", err)
			}
		}

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			file = f
			logger = zerolog.New(f).With().Timestamp().Int("pid", os.Getpid()).Logger().Level(zerolog.DebugLevel)
			_, _ = fmt.Fprintf(stderr, "🔍 Debug logging enabled. Logs will be written to: %s\n", logFile)

			logger.Info().Msg("runlock debug logging started")
		} else {
			// Fall back to stderr so debug output is not silently lost
			logger = zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).With().Timestamp().Logger()
			_, _ = fmt.Fprintf(stderr, "⚠️ Failed to open log file: %v, using stderr instead\n", err)
		}
	}

	return &DefaultLogger{
		logger:  logger,
		enabled: enabled,
		logFile: logFile,
		verbose: verbose,
		stdout:  stdout,
		stderr:  stderr,
		file:    file,
	}
}

// Zerolog returns the underlying structured logger, for components that
// log with fields rather than format strings.
func (l *DefaultLogger) Zerolog() zerolog.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logger
}

// Info logs an informational message (file only)
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}

	l.logger.Info().Msgf(format, args...)
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.enabled {
		l.logger.Warn().Msgf(format, args...)
	}

	if l.verbose {
		_, _ = warningColor.Fprintf(l.stderr, "⚠️  %s\n", fmt.Sprintf(format, args...))
	}
}

// WarningToUser logs a warning message to both file and stderr
func (l *DefaultLogger) WarningToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.enabled {
		l.logger.Warn().Msgf(format, args...)
	}

	_, _ = warningColor.Fprintf(l.stderr, "⚠️  %s\n", fmt.Sprintf(format, args...))
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.enabled {
		l.logger.Error().Msgf(format, args...)
	}

	// Always show errors to the user regardless of debug status
	_, _ = errorColor.Fprintf(l.stderr, "❌ %s\n", fmt.Sprintf(format, args...))
}

// StatusMessage prints a status message to stdout only (no logging)
func (l *DefaultLogger) StatusMessage(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = fmt.Fprintf(l.stdout, format+"\n", args...)
}

// Close flushes and closes the log file. The file is closed and the
// logger disabled even when the flush fails.
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	syncErr := l.file.Sync()
	closeErr := l.file.Close()
	l.file = nil
	l.logger = zerolog.Nop()
	l.enabled = false
	return errors.Join(syncErr, closeErr)
}

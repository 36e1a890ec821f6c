// Package logger provides logging facilities for the runlock application.
//
// It separates two audiences. Debug logs are structured zerolog records
// written to a log file only when debug logging is enabled. User-facing
// notices are printed to stderr with a prefix and colour, and are also
// recorded in the log file when it is open. stdout carries command output
// only, so notices never mix with the output of the guarded command.
//
// # Core Components
//
//   - Logger: the interface injected into the application
//   - DefaultLogger: zerolog file logging plus coloured console output
//
// # Message Types
//
//   - Info: debug-only information
//   - Warning: debug information, echoed to stderr in verbose mode
//   - WarningToUser, Error: always printed to stderr
//   - StatusMessage: command output on stdout, never logged
//
// # Usage
//
//	log := logger.New(cfg.Debug, cfg.LogFile, cfg.Verbose())
//	defer log.Close()
//
//	log.Info("lock file: %s", path)
//	log.StatusMessage("%s: %s", path, status)
//
// Components that prefer structured fields can take the underlying
// zerolog.Logger from DefaultLogger.Zerolog.
//
// # Thread Safety
//
// DefaultLogger is safe for concurrent use by multiple goroutines.
package logger

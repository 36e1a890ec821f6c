// Package config provides configuration handling for the runlock application.
//
// This package manages all configuration parameters for runlock: the lock
// file, the command to guard, output and logging options. It layers values
// from several sources with viper and validates them before use.
//
// # Core Components
//
// - Config: Main configuration type that holds all runlock settings
// - VersionInfo: Type for version, commit, and build date information
//
// # Configuration Sources
//
// Configuration values are loaded with the following precedence:
//
// 1. Command-line flags (highest priority)
// 2. Environment variables
// 3. Config file
// 4. Default values (lowest priority)
//
// # Environment Variables
//
//	RUNLOCK_LOCK_FILE           Path to the lock file
//	RUNLOCK_QUIET               Hide informational messages (default: false)
//	RUNLOCK_DEBUG               Enable debug logging (default: false)
//	RUNLOCK_LOG_FILE            Path to log file
//	RUNLOCK_CONFLICT_EXIT_CODE  Exit code when the lock is held (default: 1)
//	RUNLOCK_CONFIG              Path to a config file
//
// # Config File
//
// Any format viper understands, selected by extension:
//
//	lock_file: /var/run/backup.lock
//	conflict_exit_code: 75
//	debug: true
//
// # Usage
//
//	cfg := config.New()
//	cfg.SetupFlags(cmd.PersistentFlags())
//	// after flag parsing
//	if err := cfg.Load(cmd.Flags()); err != nil {
//	    return err
//	}
//	if err := cfg.Finalize(); err != nil {
//	    return err
//	}
package config

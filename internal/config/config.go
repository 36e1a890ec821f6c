package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bashhack/runlock/internal/errors"
)

const (
	// DefaultConflictExitCode is the exit status when the lock is already held
	DefaultConflictExitCode = 1

	// EnvPrefix prefixes every environment variable read by runlock
	EnvPrefix = "RUNLOCK"
)

// Keys shared by flags, environment variables and config files.
const (
	keyLockFile         = "lock_file"
	keyQuiet            = "quiet"
	keyDebug            = "debug"
	keyLogFile          = "log_file"
	keyConflictExitCode = "conflict_exit_code"
)

// flagNames maps config keys to command-line flag names.
var flagNames = map[string]string{
	keyLockFile:         "lock-file",
	keyQuiet:            "quiet",
	keyDebug:            "debug",
	keyLogFile:          "log-file",
	keyConflictExitCode: "conflict-exit-code",
}

// Config holds all runlock application settings
type Config struct {
	// Lock configuration
	LockFile string
	Command  []string

	// User experience
	Quiet            bool // Hides informational messages
	ConflictExitCode int

	// Debugging
	Debug   bool
	LogFile string

	// Optional YAML/TOML/JSON file with the keys above
	ConfigFile string

	// Build metadata
	VersionInfo VersionInfo
}

// VersionInfo contains build-time version metadata
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values
func New() *Config {
	return &Config{
		ConflictExitCode: DefaultConflictExitCode,

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// Verbose reports whether informational messages should be shown
func (c *Config) Verbose() bool {
	return !c.Quiet
}

// SetupFlags registers the global flags on fs, bound to this Config
func (c *Config) SetupFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.LockFile, flagNames[keyLockFile], "l", c.LockFile, "Path to the lock file (default: $TMPDIR/runlock-{command-hash}.lock)")
	fs.BoolVarP(&c.Quiet, flagNames[keyQuiet], "q", c.Quiet, "Hide informational messages")
	fs.BoolVar(&c.Debug, flagNames[keyDebug], c.Debug, "Enable debug logging")
	fs.StringVar(&c.LogFile, flagNames[keyLogFile], c.LogFile, "Path to log file (default: ~/.local/share/runlock/logs/runlock-{lock-hash}.log)")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "Path to a config file (YAML, TOML or JSON)")
}

// SetupRunFlags registers the flags that only apply when running a command
func (c *Config) SetupRunFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&c.ConflictExitCode, flagNames[keyConflictExitCode], "E", c.ConflictExitCode, "Exit code when the lock is already held")
}

// Load layers defaults, the optional config file, RUNLOCK_* environment
// variables and flags explicitly set on fs, highest last. fs may be nil.
func (c *Config) Load(fs *pflag.FlagSet) error {
	v := viper.New()

	v.SetDefault(keyLockFile, c.LockFile)
	v.SetDefault(keyQuiet, c.Quiet)
	v.SetDefault(keyDebug, c.Debug)
	v.SetDefault(keyLogFile, c.LogFile)
	v.SetDefault(keyConflictExitCode, c.ConflictExitCode)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	configFile := c.ConfigFile
	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.NewConfigError("config", configFile, errors.Wrapf(errors.ErrInvalidConfiguration, "failed to read config file: %v", err))
		}
		c.ConfigFile = configFile
	}

	if fs != nil {
		for key, name := range flagNames {
			flag := fs.Lookup(name)
			if flag == nil || !flag.Changed {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return errors.NewConfigError(name, nil, errors.Wrap(errors.ErrInvalidConfiguration, err.Error()))
			}
		}
	}

	c.LockFile = v.GetString(keyLockFile)
	c.Quiet = v.GetBool(keyQuiet)
	c.Debug = v.GetBool(keyDebug)
	c.LogFile = v.GetString(keyLogFile)
	c.ConflictExitCode = v.GetInt(keyConflictExitCode)

	return nil
}

// Finalize validates and finalizes the configuration
func (c *Config) Finalize() error {
	if c.ConflictExitCode < 1 || c.ConflictExitCode > 255 {
		return errors.NewConfigError("conflictExitCode", c.ConflictExitCode,
			errors.Wrapf(errors.ErrInvalidConfiguration, "invalid conflict exit code: %d (must be between 1 and 255)", c.ConflictExitCode))
	}

	if c.LockFile == "" {
		if len(c.Command) == 0 {
			return errors.NewConfigError("lockFile", nil, errors.Wrap(errors.ErrInvalidConfiguration, "a lock file or a command is required"))
		}
		// Identical command lines share a lock by default
		commandHash := fmt.Sprintf("%x", sha256OfString(strings.Join(c.Command, "\x00"))[:8])
		c.LockFile = filepath.Join(os.TempDir(), fmt.Sprintf("runlock-%s.lock", commandHash))
	}

	absLockFile, err := filepath.Abs(c.LockFile)
	if err != nil {
		return errors.NewConfigError("lockFile", c.LockFile, errors.Wrapf(errors.ErrInvalidConfiguration, "failed to resolve absolute path: %v", err))
	}
	c.LockFile = absLockFile

	if c.LogFile == "" {
		// Follow XDG Base Directory Specification
		logDir := os.Getenv("XDG_DATA_HOME")
		if logDir == "" {
			homeDir, err := os.UserHomeDir()
			if err == nil {
				logDir = filepath.Join(homeDir, ".local", "share")
			} else {
				// Fallback to the temp directory if home dir can't be determined
				logDir = os.TempDir()
			}
		}

		lockHash := fmt.Sprintf("%x", sha256OfString(c.LockFile)[:8])
		c.LogFile = filepath.Join(logDir, "runlock", "logs", fmt.Sprintf("runlock-%s.log", lockHash))
	}

	return nil
}

// sha256OfString returns the SHA256 hash of a string
func sha256OfString(input string) []byte {
	hash := sha256.Sum256([]byte(input))
	return hash[:]
}

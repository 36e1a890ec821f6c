//go:build unix

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bashhack/runlock/internal/config"
	"github.com/bashhack/runlock/internal/errors"
	"github.com/bashhack/runlock/internal/lock"
)

type cmdTestEnv struct {
	app      *App
	executor *MockExecutor
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	lockFile string
}

// newCmdTestEnv builds an App with a real lock, a real logger writing to
// buffers and a mock executor.
func newCmdTestEnv(t *testing.T) *cmdTestEnv {
	t.Helper()
	clearRunlockEnv(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	env := &cmdTestEnv{
		executor: &MockExecutor{},
		stdout:   &bytes.Buffer{},
		stderr:   &bytes.Buffer{},
		lockFile: filepath.Join(t.TempDir(), "cmd.lock"),
	}
	env.app = NewApp(AppOptions{
		Config:       config.New(),
		Executor:     env.executor,
		Stdout:       env.stdout,
		Stderr:       env.stderr,
		Exit:         func(int) {},
		ExecLookPath: func(file string) (string, error) { return "/usr/bin/" + file, nil },
	})
	t.Cleanup(func() { _ = env.app.Close() })

	return env
}

func (e *cmdTestEnv) execute(args ...string) error {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	root := newRootCmd(e.app)
	root.SetArgs(args)
	return root.ExecuteContext(context.Background())
}

func clearRunlockEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"RUNLOCK_LOCK_FILE", "RUNLOCK_QUIET", "RUNLOCK_DEBUG",
		"RUNLOCK_LOG_FILE", "RUNLOCK_CONFLICT_EXIT_CODE", "RUNLOCK_CONFIG",
	} {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestRootCmd_RunsCommandUnderLock(t *testing.T) {
	env := newCmdTestEnv(t)
	var during lock.Status
	env.executor.OnRun = func(context.Context) error {
		var err error
		during, err = lock.Probe(env.lockFile)
		return err
	}

	err := env.execute("--lock-file", env.lockFile, "rsync", "-a", "src/", "dst/")

	require.NoError(t, err)
	assert.Equal(t, lock.StatusHeld, during)
	assert.Equal(t, "rsync", env.executor.Name)
	assert.Equal(t, []string{"-a", "src/", "dst/"}, env.executor.Args)
	assert.NoFileExists(t, env.lockFile)
}

func TestRootCmd_FlagsAfterCommandBelongToCommand(t *testing.T) {
	env := newCmdTestEnv(t)

	err := env.execute("-l", env.lockFile, "grep", "-q", "--debug", "pattern")

	require.NoError(t, err)
	assert.Equal(t, "grep", env.executor.Name)
	assert.Equal(t, []string{"-q", "--debug", "pattern"}, env.executor.Args)
	assert.False(t, env.app.Config.Quiet)
	assert.False(t, env.app.Config.Debug)
}

func TestRootCmd_DoubleDashAllowsSubcommandNames(t *testing.T) {
	env := newCmdTestEnv(t)

	err := env.execute("-l", env.lockFile, "--", "status", "--short")

	require.NoError(t, err)
	assert.True(t, env.executor.Called)
	assert.Equal(t, "status", env.executor.Name)
	assert.Equal(t, []string{"--short"}, env.executor.Args)
}

func TestRootCmd_Conflict(t *testing.T) {
	env := newCmdTestEnv(t)
	holder := flock.New(env.lockFile)
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	t.Cleanup(func() { _ = holder.Unlock() })

	err = env.execute("-l", env.lockFile, "-E", "75", "make", "deploy")

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrAlreadyRunning))
	assert.False(t, env.executor.Called)
	assert.Equal(t, 75, env.app.ExitCode(err))
	assert.FileExists(t, env.lockFile, "a losing contender must not remove the holder's file")

	env.app.reportError(err)
	assert.Contains(t, env.stderr.String(), "is locked by another runlock process")
	assert.Empty(t, env.stdout.String())
}

func TestRootCmd_QuietConflictIsSilent(t *testing.T) {
	env := newCmdTestEnv(t)
	holder := flock.New(env.lockFile)
	locked, err := holder.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	t.Cleanup(func() { _ = holder.Unlock() })

	err = env.execute("-q", "-l", env.lockFile, "true")
	env.app.reportError(err)

	assert.True(t, errors.Is(err, errors.ErrAlreadyRunning))
	assert.Empty(t, env.stderr.String())
	assert.Empty(t, env.stdout.String())
}

func TestRootCmd_CommandExitCodePropagates(t *testing.T) {
	env := newCmdTestEnv(t)
	env.executor.Err = errors.NewCommandError("false", nil, 7, errors.ErrCommandFailed)

	err := env.execute("-l", env.lockFile, "false")

	require.Error(t, err)
	assert.Equal(t, 7, env.app.ExitCode(err))
	assert.NoFileExists(t, env.lockFile)
}

func TestRootCmd_DerivedLockFile(t *testing.T) {
	env := newCmdTestEnv(t)

	require.NoError(t, env.execute("backup.sh", "--full"))

	assert.Equal(t, os.TempDir(), filepath.Dir(env.app.Config.LockFile))
	assert.NoFileExists(t, env.app.Config.LockFile)
}

func TestRootCmd_EnvironmentLockFile(t *testing.T) {
	env := newCmdTestEnv(t)
	t.Setenv("RUNLOCK_LOCK_FILE", env.lockFile)

	require.NoError(t, env.execute("true"))

	assert.Equal(t, env.lockFile, env.app.Config.LockFile)
}

func TestRootCmd_NoArgsShowsHelp(t *testing.T) {
	env := newCmdTestEnv(t)

	require.NoError(t, env.execute())

	assert.False(t, env.executor.Called)
	assert.Contains(t, env.stdout.String(), "runlock [flags] [--] command [args...]")
}

func TestRootCmd_InvalidConflictExitCode(t *testing.T) {
	env := newCmdTestEnv(t)

	err := env.execute("-l", env.lockFile, "-E", "300", "true")

	assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration))
	assert.False(t, env.executor.Called)
}

func TestStatusCmd(t *testing.T) {
	t.Run("Absent", func(t *testing.T) {
		env := newCmdTestEnv(t)

		require.NoError(t, env.execute("status", "--lock-file", env.lockFile))

		assert.Equal(t, env.lockFile+": absent\n", env.stdout.String())
	})

	t.Run("Free", func(t *testing.T) {
		env := newCmdTestEnv(t)
		require.NoError(t, os.WriteFile(env.lockFile, nil, 0o644))

		require.NoError(t, env.execute("status", "--lock-file", env.lockFile))

		assert.Equal(t, env.lockFile+": free\n", env.stdout.String())
	})

	t.Run("Held", func(t *testing.T) {
		env := newCmdTestEnv(t)
		held := lock.New(env.lockFile)
		require.NoError(t, held.Acquire())
		t.Cleanup(func() { _ = held.Release() })

		require.NoError(t, env.execute("status", "-l", env.lockFile))

		assert.Equal(t, env.lockFile+": held\n", env.stdout.String())
	})

	t.Run("DerivedFromCommand", func(t *testing.T) {
		env := newCmdTestEnv(t)

		require.NoError(t, env.execute("status", "--", "backup.sh", "--full"))

		cfg := config.New()
		cfg.Command = []string{"backup.sh", "--full"}
		require.NoError(t, cfg.Finalize())
		assert.Equal(t, cfg.LockFile+": absent\n", env.stdout.String())
	})

	t.Run("HelpWarnsThatCheckingCanBlockRuns", func(t *testing.T) {
		env := newCmdTestEnv(t)

		require.NoError(t, env.execute("status", "--help"))

		assert.Contains(t, env.stdout.String(), "exits with the conflict")
	})

	t.Run("NeedsLockFileOrCommand", func(t *testing.T) {
		env := newCmdTestEnv(t)

		err := env.execute("status")

		assert.True(t, errors.Is(err, errors.ErrInvalidConfiguration))
	})
}

func TestVersionCmd(t *testing.T) {
	env := newCmdTestEnv(t)
	env.app.Config.VersionInfo = config.VersionInfo{Version: "v0.3.0", Commit: "deadbee", Date: "2025-06-01"}

	require.NoError(t, env.execute("version"))

	assert.Equal(t, "runlock v0.3.0 (deadbee) built on 2025-06-01\n", env.stdout.String())
}

//go:build unix

package lock

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	runlockErrors "github.com/bashhack/runlock/internal/errors"
)

const (
	helperEnv     = "RUNLOCK_LOCK_HELPER_PATH"
	helperHoldEnv = "RUNLOCK_LOCK_HELPER_HOLD"

	helperExitBusy  = 3
	helperExitError = 4
)

// TestHelperProcess is not a real test. It is re-executed as a separate
// process by the cross-process tests below.
func TestHelperProcess(t *testing.T) {
	path := os.Getenv(helperEnv)
	if path == "" {
		t.Skip("helper process only")
	}

	fl := New(path)
	if err := fl.Acquire(); err != nil {
		fmt.Println(err)
		if runlockErrors.Is(err, runlockErrors.ErrAlreadyRunning) {
			os.Exit(helperExitBusy)
		}
		os.Exit(helperExitError)
	}
	fmt.Println("acquired")

	if os.Getenv(helperHoldEnv) == "1" {
		// Hold until the parent closes stdin.
		_, _ = io.Copy(io.Discard, os.Stdin)
	}

	if err := fl.Release(); err != nil {
		fmt.Println(err)
		os.Exit(helperExitError)
	}
	os.Exit(0)
}

func helperCommand(t *testing.T, path string, hold bool) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^TestHelperProcess$")
	cmd.Env = append(os.Environ(), helperEnv+"="+path)
	if hold {
		cmd.Env = append(cmd.Env, helperHoldEnv+"=1")
	}
	return cmd
}

// startHolder starts a helper that acquires path and holds it until the
// returned stdin is closed.
func startHolder(t *testing.T, path string) (*exec.Cmd, io.WriteCloser) {
	t.Helper()
	cmd := helperCommand(t, path, true)

	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = stdin.Close()
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	line, err := bufio.NewReader(stdout).ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, "acquired", strings.TrimSpace(line))
	return cmd, stdin
}

func exitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	if err != nil {
		return -1
	}
	return 0
}

func TestCrossProcess_MutualExclusion(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping cross-process test in short mode")
	}
	t.Parallel()
	path := filepath.Join(t.TempDir(), "test.lock")

	holder, stdin := startHolder(t, path)

	out, err := helperCommand(t, path, false).CombinedOutput()
	assert.Equal(t, helperExitBusy, exitCode(err), "output: %s", out)
	assert.Contains(t, string(out), "another instance is already running")

	// This process is a third contender.
	fl := New(path)
	assert.True(t, runlockErrors.Is(fl.Acquire(), runlockErrors.ErrAlreadyRunning))

	require.NoError(t, stdin.Close())
	require.NoError(t, holder.Wait())
	assert.NoFileExists(t, path)

	out, err = helperCommand(t, path, false).CombinedOutput()
	assert.Equal(t, 0, exitCode(err), "output: %s", out)
}

func TestCrossProcess_DeadHolderReleasesLock(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping cross-process test in short mode")
	}
	t.Parallel()
	path := filepath.Join(t.TempDir(), "test.lock")

	holder, _ := startHolder(t, path)
	require.NoError(t, holder.Process.Kill())
	_ = holder.Wait()

	// The killed holder never ran Release, so its file is still there.
	assert.FileExists(t, path)

	fl := New(path)
	require.NoError(t, fl.Acquire())
	requireHeldFileMatchesPath(t, fl)
	require.NoError(t, fl.Release())
}

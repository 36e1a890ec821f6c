package lock

import (
	"io/fs"
	"os"

	"github.com/gofrs/flock"

	runlockErrors "github.com/bashhack/runlock/internal/errors"
)

// Status describes the observed state of a lock file.
type Status int

const (
	// StatusAbsent means no lock file exists at the path.
	StatusAbsent Status = iota
	// StatusFree means the file exists but no process holds a lock on it.
	StatusFree
	// StatusHeld means another process holds the lock.
	StatusHeld
)

func (s Status) String() string {
	switch s {
	case StatusAbsent:
		return "absent"
	case StatusFree:
		return "free"
	case StatusHeld:
		return "held"
	default:
		return "unknown"
	}
}

// Probe reports whether the lock at path is currently held without
// taking ownership of it. The file is opened read-only and never created.
//
// Probe briefly holds a shared lock; an Acquire racing with it may fail
// with errors.ErrAlreadyRunning.
func Probe(path string) (Status, error) {
	fl := flock.New(path, flock.SetFlag(os.O_RDONLY))

	locked, err := fl.TryRLock()
	if err != nil {
		if runlockErrors.Is(err, fs.ErrNotExist) {
			return StatusAbsent, nil
		}
		return StatusAbsent, err
	}
	if !locked {
		return StatusHeld, nil
	}

	if err := fl.Unlock(); err != nil {
		return StatusFree, runlockErrors.Wrap(err, "failed to release probe lock")
	}
	return StatusFree, nil
}

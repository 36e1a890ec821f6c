package lock

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"

	runlockErrors "github.com/bashhack/runlock/internal/errors"
)

// lockFilePerm is the mode for newly created lock files, before umask.
const lockFilePerm = 0o666

// testHookLocked, when set, runs after the advisory lock is taken and
// before the path is re-validated.
var testHookLocked func(path string)

// FileLock is a cross-process lock backed by a file at a fixed path.
// It is not safe for use by multiple goroutines.
type FileLock struct {
	path string
	file *os.File
	log  zerolog.Logger
}

// Option configures a FileLock.
type Option func(*FileLock)

// WithLogger sets the logger used to trace acquisition retries.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *FileLock) {
		l.log = logger
	}
}

// New creates a FileLock for path. It performs no I/O.
func New(path string, opts ...Option) *FileLock {
	l := &FileLock{
		path: path,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Locked reports whether this instance currently holds the lock.
func (l *FileLock) Locked() bool {
	return l.file != nil
}

func (l *FileLock) String() string {
	return fmt.Sprintf("FileLock(%s)", l.path)
}

// Acquire takes the lock without blocking.
//
// If another holder has it, Acquire returns a *errors.LockError wrapping
// errors.ErrAlreadyRunning. Any other failure is returned as the
// underlying OS error. Calling Acquire on a held lock is a no-op.
func (l *FileLock) Acquire() error {
	if !lockSupported {
		return runlockErrors.ErrUnsupportedPlatform
	}

	// The path can be removed and recreated between open and flock, in
	// which case the locked file is no longer the one at the path.
	for l.file == nil {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY, lockFilePerm)
		if err != nil {
			return err
		}

		ok, err := l.lockAndVerify(f)
		if !ok {
			_ = f.Close()
		}
		if err != nil {
			return err
		}
		if ok {
			l.file = f
		}
	}

	l.log.Debug().Str("path", l.path).Msg("lock acquired")
	return nil
}

// lockAndVerify locks f and checks that it is still the file at l.path.
// It returns false with a nil error when the caller should retry.
func (l *FileLock) lockAndVerify(f *os.File) (bool, error) {
	if err := tryLock(f); err != nil {
		if isContention(err) {
			return false, runlockErrors.NewLockError(l.path, runlockErrors.ErrAlreadyRunning)
		}
		return false, &fs.PathError{Op: "flock", Path: l.path, Err: err}
	}

	if testHookLocked != nil {
		testHookLocked(l.path)
	}

	pathID, err := statPath(l.path)
	if err != nil {
		if runlockErrors.Is(err, fs.ErrNotExist) {
			l.log.Debug().Str("path", l.path).Msg("lock file removed before verification, retrying")
			return false, nil
		}
		return false, err
	}

	fileID, err := statFile(f)
	if err != nil {
		return false, err
	}

	if !SameFile(pathID, fileID) {
		l.log.Debug().
			Str("path", l.path).
			Uint64("locked_inode", fileID.Ino).
			Uint64("path_inode", pathID.Ino).
			Msg("lock file replaced before verification, retrying")
		return false, nil
	}

	return true, nil
}

// Release removes the lock file and closes the handle.
//
// Both steps always run and the lock is unlocked on return, even if one
// of them fails. The last error encountered is returned. Calling Release
// on an unlocked FileLock is a no-op.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	var err error
	if removeErr := os.Remove(l.path); removeErr != nil {
		err = removeErr
	}
	if closeErr := l.file.Close(); closeErr != nil {
		err = closeErr
	}
	l.file = nil

	l.log.Debug().Str("path", l.path).Err(err).Msg("lock released")
	return err
}

// Do runs fn while holding the lock. The lock is released on every exit
// path, including a panic in fn. Errors from fn and Release are joined.
//
// Do on an instance that is already locked runs fn and then releases it.
func (l *FileLock) Do(fn func() error) (err error) {
	if err := l.Acquire(); err != nil {
		return err
	}
	defer func() {
		if releaseErr := l.Release(); releaseErr != nil {
			err = runlockErrors.Join(err, releaseErr)
		}
	}()

	return fn()
}

// WithLock runs fn while holding a lock on path.
func WithLock(path string, fn func() error, opts ...Option) error {
	return New(path, opts...).Do(fn)
}

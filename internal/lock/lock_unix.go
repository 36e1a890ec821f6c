//go:build unix

package lock

import (
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

const lockSupported = true

// tryLock takes an exclusive, non-blocking flock(2) on f. The lock
// belongs to the open file description, so it is released when f is
// closed or the process exits.
func tryLock(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
}

// isContention reports whether err means someone else holds the lock.
// EWOULDBLOCK and EAGAIN are distinct on some systems.
func isContention(err error) bool {
	return err == unix.EWOULDBLOCK || err == unix.EAGAIN || err == unix.EACCES
}

func statPath(path string) (FileID, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return FileID{}, &fs.PathError{Op: "stat", Path: path, Err: err}
	}
	return fileIDFromStat(&st), nil
}

func statFile(f *os.File) (FileID, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		return FileID{}, &fs.PathError{Op: "fstat", Path: f.Name(), Err: err}
	}
	return fileIDFromStat(&st), nil
}

func fileIDFromStat(st *unix.Stat_t) FileID {
	return FileID{
		Dev: uint64(st.Dev),
		Ino: uint64(st.Ino),
	}
}

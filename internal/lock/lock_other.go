//go:build !unix

package lock

import (
	"os"

	runlockErrors "github.com/bashhack/runlock/internal/errors"
)

const lockSupported = false

func tryLock(*os.File) error {
	return runlockErrors.ErrUnsupportedPlatform
}

func isContention(error) bool {
	return false
}

func statPath(string) (FileID, error) {
	return FileID{}, runlockErrors.ErrUnsupportedPlatform
}

func statFile(*os.File) (FileID, error) {
	return FileID{}, runlockErrors.ErrUnsupportedPlatform
}

// Package filelock provides advisory locks for shared files and detects read
// errors caused by another process holding a file open exclusively.
package filelock

import (
	"errors"
	"fmt"
	"os"
)

const lockFileMode = 0o600

// Lock acquires an exclusive advisory lock on the file at path, creating it
// if it does not exist. Other callers block until the returned unlock
// function runs.
func Lock(path string) (unlock func() error, err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock file path from trusted source
	if err != nil {
		return nil, err
	}

	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, err
	}

	return func() error {
		unlockErr := unlockFile(f)
		closeErr := f.Close()
		if unlockErr != nil {
			return unlockErr
		}
		return closeErr
	}, nil
}

// With runs fn while holding the lock at path.
func With(path string, fn func() error) (err error) {
	unlock, err := Lock(path)
	if err != nil {
		return fmt.Errorf("acquiring lock %s: %w", path, err)
	}
	defer func() {
		if uerr := unlock(); uerr != nil && err == nil {
			err = fmt.Errorf("releasing lock %s: %w", path, uerr)
		}
	}()
	return fn()
}

// IsContended reports whether err means the file is temporarily held by
// someone else and the operation is worth retrying later.
func IsContended(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range busyErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

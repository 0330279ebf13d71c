//go:build windows

package filelock

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/windows"
)

// busyErrors are returned when another process has the file open without
// sharing or holds a byte-range lock on it.
var busyErrors = []error{windows.ERROR_SHARING_VIOLATION, windows.ERROR_LOCK_VIOLATION}

const (
	minLockBackoff = time.Millisecond
	maxLockBackoff = 50 * time.Millisecond
)

// lockFile takes a one-byte exclusive range lock, polling with backoff so
// LockFileEx never parks the OS thread.
func lockFile(f *os.File) error {
	h := windows.Handle(f.Fd())
	backoff := minLockBackoff
	for {
		err := windows.LockFileEx(h,
			windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY,
			0, 1, 0, new(windows.Overlapped))
		if !errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
			return err
		}
		time.Sleep(backoff)
		backoff = min(backoff*2, maxLockBackoff) //nolint:mnd // doubling
	}
}

func unlockFile(f *os.File) error {
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, 1, 0, new(windows.Overlapped))
}

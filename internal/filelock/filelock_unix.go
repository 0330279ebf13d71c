//go:build !windows

package filelock

import (
	"os"
	"syscall"
)

// busyErrors are the errnos a read returns while another process holds the
// file.
var busyErrors = []error{syscall.EBUSY, syscall.ETXTBSY, syscall.EWOULDBLOCK}

func lockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_EX)
}

func unlockFile(f *os.File) error {
	return syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
}

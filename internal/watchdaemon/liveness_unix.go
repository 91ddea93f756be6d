//go:build !windows

package watchdaemon

import (
	"golang.org/x/sys/unix"
)

// processAlive sends the null signal to pid, the standard POSIX
// liveness probe: success means the process exists and is ours or a
// sibling we have permission to signal.
func processAlive(pid int) (bool, error) {
	err := unix.Kill(pid, 0)
	if err == nil {
		return true, nil
	}
	if err == unix.ESRCH {
		return false, nil
	}
	if err == unix.EPERM {
		// Process exists but is owned by someone else.
		return true, nil
	}
	return false, err
}

// signalStop sends SIGTERM, letting the daemon finish its current file
// before exiting (spec §5's "current file in progress is allowed to
// finish").
func signalStop(pid int) error {
	return unix.Kill(pid, unix.SIGTERM)
}

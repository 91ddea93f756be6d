//go:build windows

package watchdaemon

import (
	"golang.org/x/sys/windows"
)

// processAlive mirrors the teacher's IsProcessRunning: opening the
// process with query-limited rights succeeds only if it still exists.
func processAlive(pid int) (bool, error) {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		return false, nil
	}
	defer windows.CloseHandle(handle)
	return true, nil
}

// signalStop has no POSIX-signal equivalent on Windows: it terminates the
// process outright, so the daemon's deferred PID-file removal does not run.
func signalStop(pid int) error {
	handle, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		return err
	}
	defer windows.CloseHandle(handle)
	return windows.TerminateProcess(handle, 0)
}

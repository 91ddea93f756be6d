// Package watchdaemon manages the file-watcher's PID-file + signal
// lifecycle (spec §9 Open Question: watcher daemon lifecycle is a
// PID-file + SIGTERM contract observable via --status/--stop, process
// supervision left to the OS). Grounded on the teacher's
// internal/instance package: CheckExistingInstance's stale-PID-file
// detection and WritePIDFile/ReadPIDFile's JSON-on-disk shape are kept
// directly; the Windows-only OpenProcess liveness check is generalized
// to a cross-platform one (golang.org/x/sys/unix.Kill(pid, 0) on
// POSIX, windows.OpenProcess on Windows) since this tool, unlike the
// teacher, ships on both.
package watchdaemon

import "time"

// PIDFileData is the JSON structure persisted at the PID file path.
type PIDFileData struct {
	PID       int       `json:"pid"`
	StartedAt time.Time `json:"started_at"`
	Hostname  string    `json:"hostname"`
	DocsRoot  string    `json:"docs_root"`
}

// Status summarizes whether a watcher daemon is running, for the
// `watch-files --status` command.
type Status struct {
	Running bool
	PID     int
	Started time.Time
	Stale   bool // a PID file existed but the process is gone
}

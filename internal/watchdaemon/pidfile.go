package watchdaemon

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Lifecycle owns one watcher daemon's PID file at path.
type Lifecycle struct {
	path string
}

// New builds a Lifecycle for the PID file at path.
func New(path string) *Lifecycle {
	return &Lifecycle{path: path}
}

// Write records the current process as the running watcher daemon.
func (l *Lifecycle) Write(docsRoot string) error {
	hostname, _ := os.Hostname()
	data := PIDFileData{
		PID:       os.Getpid(),
		StartedAt: time.Now().UTC(),
		Hostname:  hostname,
		DocsRoot:  docsRoot,
	}
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pid file: %w", err)
	}
	if err := os.WriteFile(l.path, jsonData, 0644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

// Read parses the PID file. Returns os.ErrNotExist (wrapped) if absent.
func (l *Lifecycle) Read() (PIDFileData, error) {
	raw, err := os.ReadFile(l.path)
	if err != nil {
		return PIDFileData{}, err
	}
	var data PIDFileData
	if err := json.Unmarshal(raw, &data); err != nil {
		return PIDFileData{}, fmt.Errorf("parse pid file: %w", err)
	}
	return data, nil
}

// Remove deletes the PID file; absence is not an error.
func (l *Lifecycle) Remove() error {
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove pid file: %w", err)
	}
	return nil
}

// Status reports whether the daemon recorded in the PID file is still
// alive, cleaning up a stale file left behind by a killed process.
func (l *Lifecycle) Status() (Status, error) {
	data, err := l.Read()
	if err != nil {
		if os.IsNotExist(err) {
			return Status{}, nil
		}
		return Status{}, err
	}

	running, err := processAlive(data.PID)
	if err != nil {
		return Status{}, err
	}
	if !running {
		_ = l.Remove()
		return Status{Stale: true}, nil
	}

	return Status{Running: true, PID: data.PID, Started: data.StartedAt}, nil
}

// Stop signals the running daemon to shut down gracefully and waits up
// to the given timeout for its PID file to disappear.
func (l *Lifecycle) Stop(timeout time.Duration) error {
	data, err := l.Read()
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := signalStop(data.PID); err != nil {
		return fmt.Errorf("signal watcher daemon: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := l.Read(); os.IsNotExist(err) {
			return nil
		}
		time.Sleep(50 * time.Millisecond)
	}
	return fmt.Errorf("watcher daemon did not stop within %s", timeout)
}

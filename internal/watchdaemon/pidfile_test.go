package watchdaemon

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_WriteReadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.pid")
	l := New(path)
	require.NoError(t, l.Write("/docs"))

	data, err := l.Read()
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), data.PID)
	assert.Equal(t, "/docs", data.DocsRoot)
}

func TestLifecycle_StatusReportsRunningForOwnPID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.pid")
	l := New(path)
	require.NoError(t, l.Write("/docs"))

	status, err := l.Status()
	require.NoError(t, err)
	assert.True(t, status.Running)
	assert.Equal(t, os.Getpid(), status.PID)
}

func TestLifecycle_StatusCleansUpStalePIDFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watch.pid")
	l := New(path)

	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())
	deadPID := cmd.Process.Pid

	raw, err := json.Marshal(PIDFileData{PID: deadPID})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0644))

	status, err := l.Status()
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.True(t, status.Stale)

	_, err = l.Read()
	assert.True(t, os.IsNotExist(err), "stale pid file should have been removed")
}

func TestLifecycle_StatusWithNoPIDFileIsNotRunning(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "missing.pid"))
	status, err := l.Status()
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.False(t, status.Stale)
}

func TestLifecycle_StopIsNoopWithoutPIDFile(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "missing.pid"))
	assert.NoError(t, l.Stop(time.Second))
}

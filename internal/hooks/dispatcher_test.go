package hooks

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/config"
)

func TestDispatcher_FireRunsConfiguredCommandAsynchronously(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "fired")
	cfg := config.HooksConfig{
		OnTaskComplete: "echo {task_id} > " + marker,
		TimeoutSeconds: 2,
	}
	d := NewDispatcher(cfg, zerolog.Nop())

	d.Fire(OnTaskComplete, Vars{"task_id": "7"})

	require.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, time.Second, 10*time.Millisecond)

	content, err := os.ReadFile(marker)
	require.NoError(t, err)
	assert.Equal(t, "7\n", string(content))
}

func TestDispatcher_FireIsNoopWhenEventHasNoTemplate(t *testing.T) {
	d := NewDispatcher(config.HooksConfig{TimeoutSeconds: 2}, zerolog.Nop())
	d.Fire(OnAgentError, Vars{})
	// no command configured: nothing to assert beyond "does not panic or block"
}

func TestDispatcher_FireKillsCommandPastTimeout(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "never")
	cfg := config.HooksConfig{
		OnSync:         "sleep 5 && touch " + marker,
		TimeoutSeconds: 1,
	}
	d := NewDispatcher(cfg, zerolog.Nop())

	d.Fire(OnSync, Vars{})

	time.Sleep(1500 * time.Millisecond)
	_, err := os.Stat(marker)
	assert.True(t, os.IsNotExist(err), "command should have been killed before it could create the marker file")
}

func TestDispatcher_DefaultsTimeoutWhenConfigLeavesItZero(t *testing.T) {
	d := NewDispatcher(config.HooksConfig{}, zerolog.Nop())
	assert.Equal(t, defaultTimeout, d.timeout)
}

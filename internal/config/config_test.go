package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_CreatesDefaultOnFirstUse(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "orchestrator.db"), cfg.Database.Path)
	assert.True(t, cfg.Notifications.Enabled)
	assert.Equal(t, []int{25, 50, 75, 100}, cfg.Notifications.Milestones)
	assert.FileExists(t, path)
}

func TestLoad_RoundTripsWrittenValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default(dir)
	cfg.Notifications.RateLimitSeconds = 120
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, 120, loaded.Notifications.RateLimitSeconds)
}

func TestLoad_FillsMissingKeysWithDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, Save(path, Config{}))

	cfg, err := Load(path, dir)
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Sync.WatchDebounceMS)
	assert.Equal(t, 7, cfg.Sync.ProgressHorizonDays)
	assert.Equal(t, 30, cfg.Hooks.TimeoutSeconds)
}

func TestRefreshInterval_ClampsToMinimum(t *testing.T) {
	cfg := Config{UI: UIConfig{RefreshIntervalMS: 100}}
	assert.Equal(t, int64(500), cfg.RefreshInterval().Milliseconds())
}

func TestLoad_RejectsNegativeWatchDebounce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg := Default(dir)
	cfg.Sync.WatchDebounceMS = -1
	require.NoError(t, Save(path, cfg))

	_, err := Load(path, dir)
	assert.Error(t, err)
}

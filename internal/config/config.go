// Package config loads and saves the tool's config.toml. All keys have
// defaults; the file is created on first use, following the teacher's
// internal/types config idiom but realized as the literal TOML file the
// specification calls for (BurntSushi/toml instead of yaml.v3).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/taskweave/orchestrator/internal/orcherr"
)

var validate = validator.New()

// Config is the decoded shape of <user-config>/orchestrator/config.toml.
type Config struct {
	Database      DatabaseConfig      `toml:"database"`
	Sync          SyncConfig          `toml:"sync"`
	Notifications NotificationsConfig `toml:"notifications"`
	Hooks         HooksConfig         `toml:"hooks"`
	UI            UIConfig            `toml:"ui"`
}

// DatabaseConfig controls where the embedded store file lives.
type DatabaseConfig struct {
	Path string `toml:"path" validate:"required"`
}

// SyncConfig controls reconciliation defaults.
type SyncConfig struct {
	DocsRoot           string `toml:"docs_root" validate:"required"`
	WatchDebounceMS    int    `toml:"watch_debounce_ms" validate:"gte=0"`
	ProgressHorizonDays int   `toml:"progress_horizon_days" validate:"gte=0"`
}

// NotificationsConfig controls the notifier.
type NotificationsConfig struct {
	Enabled          bool  `toml:"enabled"`
	RateLimitSeconds int   `toml:"rate_limit_seconds" validate:"gte=0"`
	Milestones       []int `toml:"milestones"`
}

// HooksConfig maps named lifecycle events to shell command templates.
type HooksConfig struct {
	OnTaskComplete string `toml:"on_task_complete"`
	OnTaskStart    string `toml:"on_task_start"`
	OnSync         string `toml:"on_sync"`
	OnAgentError   string `toml:"on_agent_error"`
	OnMilestone    string `toml:"on_milestone"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// UIConfig controls the dashboard and optional metrics exposition.
type UIConfig struct {
	RefreshIntervalMS int    `toml:"refresh_interval_ms"`
	LiveViewAddr      string `toml:"liveview_addr"` // empty disables the web mirror
	MetricsAddr       string `toml:"metrics_addr"`  // empty disables prometheus exposition
	BusPort           int    `toml:"bus_port"`      // 0 disables the embedded NATS event mirror
}

// Default returns the configuration used when no file exists yet.
func Default(basePath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: filepath.Join(basePath, "orchestrator.db"),
		},
		Sync: SyncConfig{
			DocsRoot:            filepath.Join(basePath, "docs"),
			WatchDebounceMS:     500,
			ProgressHorizonDays: 7,
		},
		Notifications: NotificationsConfig{
			Enabled:          true,
			RateLimitSeconds: 60,
			Milestones:       []int{25, 50, 75, 100},
		},
		Hooks: HooksConfig{
			TimeoutSeconds: 30,
		},
		UI: UIConfig{
			RefreshIntervalMS: 2000,
		},
	}
}

// DefaultPath returns <user-config>/orchestrator/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "orchestrator", "config.toml"), nil
}

// Load reads path, creating it with defaults under basePath if absent.
func Load(path, basePath string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default(basePath)
		if err := Save(path, cfg); err != nil {
			return Config{}, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	cfg = applyDefaults(cfg, basePath)
	if err := validate.Struct(cfg); err != nil {
		return Config{}, orcherr.New(orcherr.InvalidArgument, path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// applyDefaults fills in zero-valued fields a partially-written config.toml
// might be missing, so hand-edited files stay forward compatible.
func applyDefaults(cfg Config, basePath string) Config {
	defaults := Default(basePath)

	if cfg.Database.Path == "" {
		cfg.Database.Path = defaults.Database.Path
	}
	if cfg.Sync.DocsRoot == "" {
		cfg.Sync.DocsRoot = defaults.Sync.DocsRoot
	}
	if cfg.Sync.WatchDebounceMS == 0 {
		cfg.Sync.WatchDebounceMS = defaults.Sync.WatchDebounceMS
	}
	if cfg.Sync.ProgressHorizonDays == 0 {
		cfg.Sync.ProgressHorizonDays = defaults.Sync.ProgressHorizonDays
	}
	if cfg.Notifications.RateLimitSeconds == 0 {
		cfg.Notifications.RateLimitSeconds = defaults.Notifications.RateLimitSeconds
	}
	if len(cfg.Notifications.Milestones) == 0 {
		cfg.Notifications.Milestones = defaults.Notifications.Milestones
	}
	if cfg.Hooks.TimeoutSeconds == 0 {
		cfg.Hooks.TimeoutSeconds = defaults.Hooks.TimeoutSeconds
	}
	if cfg.UI.RefreshIntervalMS == 0 {
		cfg.UI.RefreshIntervalMS = defaults.UI.RefreshIntervalMS
	}
	return cfg
}

// WatchDebounce returns Sync.WatchDebounceMS as a time.Duration.
func (c Config) WatchDebounce() time.Duration {
	return time.Duration(c.Sync.WatchDebounceMS) * time.Millisecond
}

// RefreshInterval returns UI.RefreshIntervalMS as a time.Duration, clamped
// to the 500ms minimum spec.md §5 requires.
func (c Config) RefreshInterval() time.Duration {
	ms := c.UI.RefreshIntervalMS
	if ms < 500 {
		ms = 500
	}
	return time.Duration(ms) * time.Millisecond
}

// HookTimeout returns Hooks.TimeoutSeconds as a time.Duration.
func (c Config) HookTimeout() time.Duration {
	return time.Duration(c.Hooks.TimeoutSeconds) * time.Second
}

// RateLimitWindow returns Notifications.RateLimitSeconds as a time.Duration.
func (c Config) RateLimitWindow() time.Duration {
	return time.Duration(c.Notifications.RateLimitSeconds) * time.Second
}

// ProgressHorizon returns Sync.ProgressHorizonDays as a time.Duration.
func (c Config) ProgressHorizon() time.Duration {
	return time.Duration(c.Sync.ProgressHorizonDays) * 24 * time.Hour
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/taskweave/orchestrator/internal/config"
	"github.com/taskweave/orchestrator/internal/events"
	"github.com/taskweave/orchestrator/internal/logging"
	"github.com/taskweave/orchestrator/internal/store"
)

// app bundles everything a command needs: the loaded config, an open
// store, an in-process event bus, and a component-scoped logger. Built
// fresh per invocation; db.Close is returned for the caller to defer.
type app struct {
	cfg config.Config
	db  *store.DB
	bus *events.Bus
	log zerolog.Logger
}

// newApp resolves config.toml (honoring --config/--db/--docs-root
// overrides), opens the store, and wires a logger scoped to component.
func newApp(cmd *cobra.Command, component string) (*app, func() error, error) {
	path := cfgPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, nil, fmt.Errorf("resolve config path: %w", err)
		}
	}

	basePath, err := defaultBasePath()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(path, basePath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if docsRoot != "" {
		cfg.Sync.DocsRoot = docsRoot
	}

	log := logging.New(component, logging.Options{
		Pretty: !logJSON,
		Level:  parseLevel(logLevel),
	})

	db, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	bus := events.NewBus(log)
	a := &app{cfg: cfg, db: db, bus: bus, log: log}
	return a, db.Close, nil
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// defaultBasePath is the directory config.Default seeds database/docs
// paths under when no config.toml exists yet: the user's home
// directory, under an .orchestrator subdirectory.
func defaultBasePath() (string, error) {
	dir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(dir, ".orchestrator"), nil
}

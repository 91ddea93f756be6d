package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskweave/orchestrator/internal/hooks"
	"github.com/taskweave/orchestrator/internal/reconcile"
	"github.com/taskweave/orchestrator/internal/watch"
	"github.com/taskweave/orchestrator/internal/watchdaemon"
)

var (
	watchFilesDaemon bool
	watchFilesStop   bool
	watchFilesStatus bool
)

var watchFilesCmd = &cobra.Command{
	Use:   "watch-files",
	Short: "Watch the documentation root and reconcile on every completion artifact write",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.watchfiles")
		if err != nil {
			return err
		}
		defer closeApp()

		pidPath, err := pidFilePath(a.cfg.Sync.DocsRoot)
		if err != nil {
			return err
		}
		lifecycle := watchdaemon.New(pidPath)

		switch {
		case watchFilesStatus:
			return printWatchStatus(lifecycle)
		case watchFilesStop:
			return lifecycle.Stop(10 * time.Second)
		}

		r := reconcile.New(a.db, a.bus, a.cfg.Sync.DocsRoot, a.log)
		h := hooks.NewDispatcher(a.cfg.Hooks, a.log)

		runWatcher := func(ctx context.Context) error {
			w, err := watch.New(a.cfg.Sync.DocsRoot, a.cfg.WatchDebounce(), func(basename string) {
				result, err := r.SyncFile(basename)
				if err != nil {
					a.log.Warn().Err(err).Str("file", basename).Msg("sync failed for watched file")
					return
				}
				for _, p := range result.Applied {
					h.Fire(hooks.OnTaskComplete, hooks.Vars{"task_id": fmt.Sprint(p.TaskID), "file": basename})
				}
			}, a.log)
			if err != nil {
				return err
			}
			defer w.Close()

			w.Run(ctx)
			return nil
		}

		return watchdaemon.Run(context.Background(), lifecycle, a.cfg.Sync.DocsRoot, a.log, runWatcher)
	},
}

func printWatchStatus(l *watchdaemon.Lifecycle) error {
	status, err := l.Status()
	if err != nil {
		return err
	}
	if !status.Running {
		fmt.Println("watch-files is not running")
		return nil
	}
	fmt.Printf("watch-files is running (pid %d, started %s)\n", status.PID, status.Started.Format(time.RFC3339))
	return nil
}

// pidFilePath places the daemon's PID file in the system temp directory,
// named after the documentation root's base name; two projects whose
// documentation roots share a base name share one PID file.
func pidFilePath(docsRoot string) (string, error) {
	abs, err := filepath.Abs(docsRoot)
	if err != nil {
		return "", fmt.Errorf("resolve docs root: %w", err)
	}
	return filepath.Join(os.TempDir(), "orchestrator-watch-"+filepath.Base(abs)+".pid"), nil
}

func init() {
	watchFilesCmd.Flags().BoolVar(&watchFilesDaemon, "daemon", false, "accepted but has no effect; watch-files always runs in the foreground")
	watchFilesCmd.Flags().BoolVar(&watchFilesStop, "stop", false, "stop a running watcher process")
	watchFilesCmd.Flags().BoolVar(&watchFilesStatus, "status", false, "report whether a watcher process is running")
}

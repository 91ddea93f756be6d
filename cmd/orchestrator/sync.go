package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskweave/orchestrator/internal/gitingest"
	"github.com/taskweave/orchestrator/internal/hooks"
	"github.com/taskweave/orchestrator/internal/reconcile"
)

var (
	syncDryRun   bool
	syncFromGit  bool
	syncSinceStr string
	syncUntilStr string
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Scan the documentation root (or commit history) and apply completions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.sync")
		if err != nil {
			return err
		}
		defer closeApp()

		mode := reconcile.Apply
		if syncDryRun {
			mode = reconcile.DryRun
		}

		r := reconcile.New(a.db, a.bus, a.cfg.Sync.DocsRoot, a.log)

		var result reconcile.Result
		if syncFromGit {
			since, until, err := parseDateRange(syncSinceStr, syncUntilStr)
			if err != nil {
				return err
			}
			src := gitingest.New(a.cfg.Sync.DocsRoot)
			docs, err := src.Scan("", since, until)
			if err != nil {
				return fmt.Errorf("scan git history: %w", err)
			}
			result, err = r.SyncFromGit(docs, mode)
			if err != nil {
				return err
			}
		} else {
			result, err = r.Sync(mode)
			if err != nil {
				return err
			}
		}

		printResult(result)

		if len(result.Applied) > 0 {
			hooks.NewDispatcher(a.cfg.Hooks, a.log).Fire(hooks.OnSync, hooks.Vars{"applied": fmt.Sprint(len(result.Applied))})
		}
		return nil
	},
}

var reconcileAutoFix bool

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Print reconciliation proposals, optionally applying them",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.reconcile")
		if err != nil {
			return err
		}
		defer closeApp()

		mode := reconcile.DryRun
		if reconcileAutoFix {
			mode = reconcile.Apply
		}

		r := reconcile.New(a.db, a.bus, a.cfg.Sync.DocsRoot, a.log)
		result, err := r.Sync(mode)
		if err != nil {
			return err
		}
		printResult(result)
		return nil
	},
}

func printResult(result reconcile.Result) {
	if len(result.Proposals) == 0 {
		fmt.Println("no inconsistencies found")
		return
	}
	for _, p := range result.Proposals {
		applied := " (dry run)"
		if result.Mode == reconcile.Apply {
			applied = " (not applied)"
			for _, a := range result.Applied {
				if a.TaskID == p.TaskID && a.Kind == p.Kind {
					applied = " (applied)"
					break
				}
			}
		}
		fmt.Printf("%s task %d%s\n", p.Kind, p.TaskID, applied)
	}
	if result.Mode == reconcile.Apply {
		fmt.Printf("run %s\n", result.RunID)
	}
}

func parseDateRange(sinceStr, untilStr string) (since, until time.Time, err error) {
	if sinceStr != "" {
		since, err = time.Parse("2006-01-02", sinceStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --since date %q: %w", sinceStr, err)
		}
	}
	if untilStr != "" {
		until, err = time.Parse("2006-01-02", untilStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --until date %q: %w", untilStr, err)
		}
	}
	return since, until, nil
}

func init() {
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "report proposals without applying them")
	syncCmd.Flags().BoolVar(&syncFromGit, "from-git", false, "derive completion evidence from commit history instead of the documentation root")
	syncCmd.Flags().StringVar(&syncSinceStr, "since", "", "restrict --from-git to commits on or after this date (YYYY-MM-DD)")
	syncCmd.Flags().StringVar(&syncUntilStr, "until", "", "restrict --from-git to commits on or before this date (YYYY-MM-DD)")

	reconcileCmd.Flags().BoolVar(&reconcileAutoFix, "auto-fix", false, "apply proposals instead of only reporting them")
}

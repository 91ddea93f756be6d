// Command orchestrator is the CLI surface over every internal component:
// reconciliation, the dashboard, the recommender, the timeline, hooks,
// and the file/process watchers. Grounded on the teacher's single
// cmd/cliaimonitor/main.go entry point, generalized to a cobra command
// tree because every other example repo in the pack standardizes on
// cobra for multi-command CLIs (SPEC_FULL.md §2).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set via -ldflags at build time.
	Version = "dev"

	cfgPath  string
	dbPath   string
	docsRoot string
	logLevel string
	logJSON  bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "orchestrator",
	Short:   "Reconciles, watches, and recommends work across a multi-agent project",
	Version: Version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config.toml (defaults to <user-config>/orchestrator/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "override the store file path from config")
	rootCmd.PersistentFlags().StringVar(&docsRoot, "docs-root", "", "override the documentation root from config")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit structured JSON logs instead of a pretty console writer")

	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(reconcileCmd)
	rootCmd.AddCommand(completeBatchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(reportProgressCmd)
	rootCmd.AddCommand(watchFilesCmd)
	rootCmd.AddCommand(installGitHookCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(agentCmd)
}

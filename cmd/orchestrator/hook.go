package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/taskweave/orchestrator/internal/config"
)

// postCommitHookTemplate shells out to this same binary so the hook
// stays in sync with whatever sync/reconcile logic is installed,
// rather than duplicating it as a standalone script.
const postCommitHookTemplate = `#!/bin/sh
# Installed by orchestrator install-git-hook.
exec %s sync --from-git --config %q
`

var installGitHookCmd = &cobra.Command{
	Use:   "install-git-hook",
	Short: "Write a post-commit hook that runs sync --from-git",
	RunE: func(cmd *cobra.Command, args []string) error {
		repoRoot, err := gitRepoRoot()
		if err != nil {
			return err
		}

		binPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolve executable path: %w", err)
		}

		resolvedCfgPath := cfgPath
		if resolvedCfgPath == "" {
			resolvedCfgPath, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}

		hookPath := filepath.Join(repoRoot, ".git", "hooks", "post-commit")
		content := fmt.Sprintf(postCommitHookTemplate, binPath, resolvedCfgPath)
		if err := os.WriteFile(hookPath, []byte(content), 0o755); err != nil {
			return fmt.Errorf("write post-commit hook: %w", err)
		}
		fmt.Printf("installed post-commit hook at %s\n", hookPath)
		return nil
	},
}

func gitRepoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve working directory: %w", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no .git directory found above %s", dir)
		}
		dir = parent
	}
}

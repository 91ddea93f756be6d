// Package gitingest walks commit history reachable from HEAD and feeds
// task references found in commit messages to the reconciler, following
// the same CompletionDoc shape the filesystem scanner produces (spec
// §4.3.3). Grounded on the teacher's internal/git/git.go shell-out-to-git
// idiom; no example repo imports a git library, so this stays on
// os/exec.
package gitingest

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/taskweave/orchestrator/internal/reconcile"
)

// commitFieldSep is a separator unlikely to appear in author names or
// commit subjects, used to split the one-line-per-commit log format.
const commitFieldSep = "\x1f"

// Commit is one entry from `git log`, exposed in case callers want raw
// access beyond the task-reference extraction Scan performs.
type Commit struct {
	Hash      string
	Timestamp time.Time
	Author    string
	Message   string
}

// Source runs git commands against a working tree.
type Source struct {
	repoPath string
}

// New builds a Source rooted at repoPath (the documentation root's
// repository, typically the project root).
func New(repoPath string) *Source {
	return &Source{repoPath: repoPath}
}

// Log returns commits reachable from HEAD, newest first, optionally
// restricted to branch (empty = current branch) and a since/until window
// (zero time = unbounded).
func (s *Source) Log(branch string, since, until time.Time) ([]Commit, error) {
	args := []string{"log", "--date=iso-strict", "--format=%H" + commitFieldSep + "%ad" + commitFieldSep + "%an" + commitFieldSep + "%s"}
	if !since.IsZero() {
		args = append(args, "--since="+since.Format(time.RFC3339))
	}
	if !until.IsZero() {
		args = append(args, "--until="+until.Format(time.RFC3339))
	}
	if branch != "" {
		args = append(args, branch)
	}

	out, err := s.run(args...)
	if err != nil {
		return nil, fmt.Errorf("git log: %w", err)
	}
	if out == "" {
		return nil, nil
	}

	var commits []Commit
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Split(line, commitFieldSep)
		if len(fields) != 4 {
			continue
		}
		ts, err := time.Parse(time.RFC3339, fields[1])
		if err != nil {
			continue
		}
		commits = append(commits, Commit{Hash: fields[0], Timestamp: ts, Author: fields[2], Message: fields[3]})
	}
	return commits, nil
}

// Scan turns a commit log into CompletionDoc records, one per referenced
// task ID, matching the filesystem scanner's output shape so the
// reconciler's planner treats both sources uniformly.
func (s *Source) Scan(branch string, since, until time.Time) ([]reconcile.CompletionDoc, error) {
	commits, err := s.Log(branch, since, until)
	if err != nil {
		return nil, err
	}

	var docs []reconcile.CompletionDoc
	for _, c := range commits {
		for _, id := range reconcile.TaskIDsFromCommitMessage(c.Message) {
			docs = append(docs, reconcile.CompletionDoc{
				TaskID:      id,
				CompletedAt: c.Timestamp,
				Source:      reconcile.SourceCommit,
				Path:        c.Hash,
			})
		}
	}
	return docs, nil
}

func (s *Source) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = s.repoPath
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, output)
	}
	return strings.TrimSpace(string(output)), nil
}

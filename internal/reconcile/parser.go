package reconcile

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// filenamePattern matches the documentation-root convention from spec §6:
// `^TASK-(\d+)[-_].*\.(md|markdown|txt)`, case-insensitive.
var filenamePattern = regexp.MustCompile(`(?i)^TASK-(\d+)[-_].*\.(md|markdown|txt)$`)

// commitPatterns are the recognized task-reference shapes inside a commit
// message, per spec §6. A single commit may reference multiple tasks, so
// every pattern is matched with FindAllStringSubmatch rather than Find.
var commitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)TASK-(\d+)`),
	regexp.MustCompile(`(?i)task\s*#(\d+)`),
	regexp.MustCompile(`(?i)\[TASK-(\d+)\]`),
}

// taskIDFromFilename extracts the task ID from a completion-artifact
// basename, or ok=false if name does not match the convention.
func taskIDFromFilename(name string) (id int64, ok bool) {
	m := filenamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// TaskIDsFromCommitMessage returns every distinct task ID referenced in
// message, across all three recognized patterns, ordered by pattern
// (TASK-n matches first, then task #n, then [TASK-n]) and by position
// within each pattern.
// Exported for gitingest, which needs the identical extraction rule when
// walking commit history instead of filenames.
func TaskIDsFromCommitMessage(message string) []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, pattern := range commitPatterns {
		for _, m := range pattern.FindAllStringSubmatch(message, -1) {
			id, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				continue
			}
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// frontMatter is the optional `---`-fenced key/value header a completion
// artifact may carry, overriding the inferred agent_id and completed_at.
// Hand-rolled rather than decoded with a YAML library: the header is a
// flat key:value list with no nesting, and keeping the parser local to
// this file avoids pulling a full YAML document model in just to read
// three scalar fields.
type frontMatter struct {
	TaskID      *int64
	AgentID     string
	CompletedAt *time.Time
}

// parseFrontMatter reads a leading `---`/`---` fenced block from content,
// if present, and returns the remaining body alongside the decoded
// fields. Unrecognized keys are ignored; malformed values are skipped
// rather than failing the whole parse.
func parseFrontMatter(content string) (frontMatter, string) {
	var fm frontMatter
	scanner := bufio.NewScanner(strings.NewReader(content))
	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "---" {
		return fm, content
	}

	var lines []string
	closed := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "---" {
			closed = true
			break
		}
		lines = append(lines, line)
	}
	if !closed {
		return frontMatter{}, content
	}

	for _, line := range lines {
		key, value, found := strings.Cut(line, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		switch key {
		case "task_id":
			if id, err := strconv.ParseInt(value, 10, 64); err == nil {
				fm.TaskID = &id
			}
		case "agent_id":
			fm.AgentID = value
		case "completed_at":
			if ts, err := parseTimestamp(value); err == nil {
				fm.CompletedAt = &ts
			}
		}
	}

	rest := strings.Join(lines, "\n")
	if idx := strings.Index(content, "---\n"); idx >= 0 {
		if end := strings.Index(content[idx+4:], "---"); end >= 0 {
			rest = content[idx+4+end+3:]
		}
	}
	return fm, strings.TrimLeft(rest, "\n")
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format %q", value)
}

// Package errfmt builds the helpful NotFound/InvalidArgument messages
// spec §4.7 calls for: fuzzy identifier suggestions, a short list of
// recent pending tasks or available agents, and a closing recovery
// hint. Grounded on the teacher's fatih/color colorize idiom
// (internal/diff/generator.go) for the color collaborator; the
// similarity routine itself is hand-rolled (see similarity.go).
package errfmt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/taskweave/orchestrator/internal/store"
)

const maxRecentItems = 5

// Formatter builds user-facing error messages. ColorEnabled mirrors
// the teacher's colorEnabled toggle; the CLI sets it false when
// --log-json is passed.
type Formatter struct {
	ColorEnabled bool
}

// New builds a Formatter.
func New(colorEnabled bool) *Formatter {
	return &Formatter{ColorEnabled: colorEnabled}
}

// NotFoundTask formats a task-not-found message: up to three fuzzy ID
// suggestions, then up to five recent pending tasks, then a recovery
// hint.
func (f *Formatter) NotFoundTask(requested string, knownIDs []string, pending []store.Task) string {
	var b strings.Builder
	b.WriteString(f.bold(fmt.Sprintf("task %q not found", requested), color.FgRed))
	b.WriteString("\n")

	if matches := suggestions(requested, knownIDs); len(matches) > 0 {
		b.WriteString("did you mean: " + f.list(matches) + "\n")
	}

	if len(pending) > 0 {
		b.WriteString("recent pending tasks:\n")
		for i, t := range pending {
			if i >= maxRecentItems {
				break
			}
			b.WriteString(fmt.Sprintf("  %s  %s\n", f.dim(strconv.FormatInt(t.ID, 10)), t.Title))
		}
	}

	b.WriteString(f.hint("run `orchestrator sync` or check the task ID with `orchestrator reconcile`"))
	return b.String()
}

// NotFoundAgent formats an agent-not-found message, mirroring
// NotFoundTask with an available-agents list in place of pending
// tasks.
func (f *Formatter) NotFoundAgent(requested string, knownIDs []string, available []store.Agent) string {
	var b strings.Builder
	b.WriteString(f.bold(fmt.Sprintf("agent %q not found", requested), color.FgRed))
	b.WriteString("\n")

	if matches := suggestions(requested, knownIDs); len(matches) > 0 {
		b.WriteString("did you mean: " + f.list(matches) + "\n")
	}

	if len(available) > 0 {
		b.WriteString("available agents:\n")
		for i, a := range available {
			if i >= maxRecentItems {
				break
			}
			b.WriteString(fmt.Sprintf("  %s  %s (%s)\n", f.dim(a.ID), a.Name, a.Status))
		}
	}

	b.WriteString(f.hint("run `orchestrator suggest <task>` to see currently idle agents"))
	return b.String()
}

// InvalidEnum formats a message for an out-of-range status/priority
// value: the valid set plus at most one fuzzy suggestion.
func (f *Formatter) InvalidEnum(field, value string, valid []string) string {
	var b strings.Builder
	b.WriteString(f.bold(fmt.Sprintf("invalid %s %q", field, value), color.FgRed))
	b.WriteString("\n")
	b.WriteString("valid values: " + strings.Join(valid, ", ") + "\n")
	if best := bestSuggestion(value, valid); best != "" {
		b.WriteString("did you mean: " + f.dim(best) + "\n")
	}
	return b.String()
}

func (f *Formatter) bold(text string, attr color.Attribute) string {
	return colorize(f.ColorEnabled, text, attr)
}

func (f *Formatter) dim(text string) string {
	return colorize(f.ColorEnabled, text, color.FgCyan)
}

func (f *Formatter) hint(text string) string {
	return colorize(f.ColorEnabled, text, color.FgYellow)
}

func (f *Formatter) list(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = f.dim(v)
	}
	return strings.Join(quoted, ", ")
}

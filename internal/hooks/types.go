// Package hooks dispatches named lifecycle events to user-configured
// shell command templates (spec §4.6): substitute variables, launch
// the command as a child process, hard-kill it past a fixed timeout,
// and log (never surface) a non-zero exit. Grounded on the teacher's
// internal/wezterm/ops.go "spawn external program, bounded wait" idiom,
// generalized from a fixed WezTerm binary to an arbitrary shell
// command template per event.
package hooks

// Event names a lifecycle point a hook may be configured for. The
// string values match the config.toml key names verbatim so
// NewDispatcher can read them straight off config.HooksConfig.
type Event string

const (
	OnTaskComplete Event = "on_task_complete"
	OnTaskStart    Event = "on_task_start"
	OnSync         Event = "on_sync"
	OnAgentError   Event = "on_agent_error"
	OnMilestone    Event = "on_milestone"
)

// Vars is the substitution map applied to a command template's
// {name} placeholders before the command is launched.
type Vars map[string]string

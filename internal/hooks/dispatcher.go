package hooks

import (
	"context"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskweave/orchestrator/internal/config"
)

const defaultTimeout = 30 * time.Second

// Dispatcher maps lifecycle events to shell command templates and
// fires them asynchronously relative to the caller: Fire returns
// immediately, the triggering operation never waits on hook outcome
// (spec §4.6).
type Dispatcher struct {
	commands map[Event]string
	timeout  time.Duration
	log      zerolog.Logger
}

// NewDispatcher builds a Dispatcher from the configured hook commands.
// An event with an empty template is simply never fired.
func NewDispatcher(cfg config.HooksConfig, log zerolog.Logger) *Dispatcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{
		commands: map[Event]string{
			OnTaskComplete: cfg.OnTaskComplete,
			OnTaskStart:    cfg.OnTaskStart,
			OnSync:         cfg.OnSync,
			OnAgentError:   cfg.OnAgentError,
			OnMilestone:    cfg.OnMilestone,
		},
		timeout: timeout,
		log:     log,
	}
}

// Fire substitutes vars into event's configured template and runs it
// in its own goroutine. A no-op if the event has no configured
// command. Never returns an error: hook failures are logged, not
// surfaced, per spec §4.6 and §7.
func (d *Dispatcher) Fire(event Event, vars Vars) {
	template, ok := d.commands[event]
	if !ok || template == "" {
		return
	}
	command := substitute(template, vars)
	go d.run(event, command)
}

func (d *Dispatcher) run(event Event, command string) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	output, err := cmd.CombinedOutput()

	log := d.log.With().Str("event", string(event)).Logger()
	switch {
	case ctx.Err() == context.DeadlineExceeded:
		log.Warn().Str("command", command).Msg("hook killed after exceeding timeout")
	case err != nil:
		log.Warn().Err(err).Str("command", command).Bytes("output", output).Msg("hook exited non-zero")
	default:
		log.Debug().Str("command", command).Msg("hook completed")
	}
}

// Package logging sets up the single zerolog.Logger threaded through every
// component constructor. There is no global logger: callers receive one
// from New and pass it down, matching the rest of the module's "no global
// state" discipline.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Options controls the logger's output format and level.
type Options struct {
	// Pretty enables a human-readable console writer (for `watch`/TTY use);
	// false emits structured JSON lines (for daemon/file-watcher use).
	Pretty bool
	Level  zerolog.Level
	Output io.Writer // defaults to os.Stderr
}

// New builds a component-scoped logger. component becomes the "component"
// field on every emitted record, mirroring the teacher's "[COMPONENT]
// action: detail" message texture but as a structured field instead of a
// string prefix.
func New(component string, opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(opts.Level).
		With().
		Timestamp().
		Str("component", component).
		Logger()
}

// Default returns a JSON logger at info level, the baseline used by
// background loops (watcher, dashboard tick, hook dispatcher) that must
// never block on pretty-printing.
func Default(component string) zerolog.Logger {
	return New(component, Options{Level: zerolog.InfoLevel})
}

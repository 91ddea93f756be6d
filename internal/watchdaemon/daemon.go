package watchdaemon

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
)

// Run writes the PID file, installs a SIGTERM/SIGINT handler that
// cancels ctx, invokes runWatcher (expected to block until ctx is
// done), and removes the PID file on the way out regardless of how
// runWatcher returns.
func Run(ctx context.Context, l *Lifecycle, docsRoot string, log zerolog.Logger, runWatcher func(context.Context) error) error {
	if err := l.Write(docsRoot); err != nil {
		return err
	}
	defer func() {
		if err := l.Remove(); err != nil {
			log.Warn().Err(err).Msg("failed to remove pid file on exit")
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGTERM, os.Interrupt)
	defer stop()

	log.Info().Int("pid", os.Getpid()).Str("docs_root", docsRoot).Msg("watcher daemon started")
	err := runWatcher(ctx)
	log.Info().Msg("watcher daemon stopped")
	return err
}

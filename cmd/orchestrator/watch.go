package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskweave/orchestrator/internal/dashboard"
	"github.com/taskweave/orchestrator/internal/ingest/busbridge"
	"github.com/taskweave/orchestrator/internal/liveview"
	"github.com/taskweave/orchestrator/internal/metrics"
	"github.com/taskweave/orchestrator/internal/notify"
	"github.com/taskweave/orchestrator/internal/reconcile"
)

var watchRefreshMS int

const recentActivityLimit = 50

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Start the terminal dashboard render loop",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.watch")
		if err != nil {
			return err
		}
		defer closeApp()

		interval := a.cfg.RefreshInterval()
		if watchRefreshMS > 0 {
			interval = time.Duration(watchRefreshMS) * time.Millisecond
			if interval < 500*time.Millisecond {
				interval = 500 * time.Millisecond
			}
		}

		r := reconcile.New(a.db, a.bus, a.cfg.Sync.DocsRoot, a.log)
		var notifier *notify.Manager
		if a.cfg.Notifications.Enabled {
			channels := []notify.Channel{
				notify.NewTerminalChannel(),
				notify.NewToastChannel("orchestrator", a.cfg.UI.LiveViewAddr),
			}
			notifier = notify.NewManager(a.cfg.Notifications.Milestones, a.cfg.RateLimitWindow(), channels, a.log)
		} else {
			a.log.Debug().Msg("notifications disabled, dashboard will not dispatch")
		}

		stopAncillary := startAncillaryServices(a)
		defer stopAncillary()

		m := dashboard.New(a.db, r, notifier, interval, recentActivityLimit, a.log)
		return dashboard.Run(m)
	},
}

// startAncillaryServices wires the optional liveview/metrics/busbridge
// mirrors the dashboard itself does not need, each gated on its own
// config address/port (empty or zero disables it, spec.md §6 "not
// required for correctness").
func startAncillaryServices(a *app) func() {
	var stoppers []func()

	if a.cfg.UI.LiveViewAddr != "" {
		srv := liveview.NewServer(a.cfg.UI.LiveViewAddr, a.db, a.bus, recentActivityLimit, a.log)
		go func() {
			if err := srv.Start(); err != nil {
				a.log.Warn().Err(err).Msg("liveview server stopped")
			}
		}()
		stoppers = append(stoppers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}

	if a.cfg.UI.MetricsAddr != "" {
		reg := metrics.NewRegistry()
		srv := metrics.NewServer(a.cfg.UI.MetricsAddr, reg)
		go func() {
			if err := srv.Start(); err != nil {
				a.log.Warn().Err(err).Msg("metrics server stopped")
			}
		}()
		stoppers = append(stoppers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		})
	}

	if a.cfg.UI.BusPort != 0 {
		bridge, err := busbridge.Start(a.cfg.UI.BusPort, a.bus, a.log)
		if err != nil {
			a.log.Warn().Err(err).Msg("event bus bridge failed to start")
		} else {
			stoppers = append(stoppers, bridge.Close)
		}
	}

	return func() {
		for _, stop := range stoppers {
			stop()
		}
	}
}

func init() {
	watchCmd.Flags().IntVar(&watchRefreshMS, "refresh-interval", 0, "render tick interval in milliseconds (overrides config, 500ms minimum)")
}

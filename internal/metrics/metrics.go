// Package metrics exposes a small Prometheus registry over the store's
// rollup data, scraped only when [ui].metrics_addr is configured (spec
// §6's optional collaborators): never required for correctness.
// Grounded on cuemby-warren's pkg/metrics package-level gauge/counter
// vars and promhttp.Handler wiring, adapted to an instance-owned
// *prometheus.Registry (instead of the teacher's prometheus.MustRegister
// against the global default registry) so tests can build a fresh
// Registry per case without colliding on duplicate registration.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/taskweave/orchestrator/internal/store"
)

// Registry owns the collectors this tool exports.
type Registry struct {
	reg *prometheus.Registry

	tasksCompletedTotal prometheus.Counter
	tasksFailedTotal    prometheus.Counter
	agentsIdle          prometheus.Gauge
	agentsWorking       prometheus.Gauge
	agentsBlocked       prometheus.Gauge
	agentsOffline       prometheus.Gauge
	hookInvocationsTotal *prometheus.CounterVec
}

// NewRegistry builds a Registry with every collector registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		tasksCompletedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orchestrator_tasks_completed_total",
			Help: "Total number of tasks marked completed.",
		}),
		tasksFailedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "orchestrator_tasks_failed_total",
			Help: "Total number of tasks that ended in a failure state.",
		}),
		agentsIdle: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orchestrator_agents_idle",
			Help: "Current number of idle agents.",
		}),
		agentsWorking: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orchestrator_agents_working",
			Help: "Current number of agents actively working a task.",
		}),
		agentsBlocked: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orchestrator_agents_blocked",
			Help: "Current number of blocked agents.",
		}),
		agentsOffline: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "orchestrator_agents_offline",
			Help: "Current number of offline agents.",
		}),
		hookInvocationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orchestrator_hook_invocations_total",
			Help: "Total hook dispatches by event name and outcome.",
		}, []string{"event", "outcome"}),
	}

	r.reg.MustRegister(
		r.tasksCompletedTotal,
		r.tasksFailedTotal,
		r.agentsIdle,
		r.agentsWorking,
		r.agentsBlocked,
		r.agentsOffline,
		r.hookInvocationsTotal,
	)
	return r
}

// Gatherer exposes the underlying registry for promhttp.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// ObserveSnapshot updates the gauges from a whole-snapshot read. It
// does not touch the monotonic counters, which are driven by discrete
// events instead (see IncTaskCompleted/IncTaskFailed/ObserveHook).
func (r *Registry) ObserveSnapshot(snap store.Snapshot) {
	var idle, working, blocked, offline float64
	for _, a := range snap.Agents {
		switch a.Status {
		case store.AgentIdle:
			idle++
		case store.AgentWorking:
			working++
		case store.AgentBlocked:
			blocked++
		case store.AgentOffline:
			offline++
		}
	}
	r.agentsIdle.Set(idle)
	r.agentsWorking.Set(working)
	r.agentsBlocked.Set(blocked)
	r.agentsOffline.Set(offline)
}

// IncTaskCompleted increments the completed-task counter.
func (r *Registry) IncTaskCompleted() {
	r.tasksCompletedTotal.Inc()
}

// IncTaskFailed increments the failed-task counter.
func (r *Registry) IncTaskFailed() {
	r.tasksFailedTotal.Inc()
}

// ObserveHook records one hook dispatch outcome ("ok", "error", "timeout").
func (r *Registry) ObserveHook(event, outcome string) {
	r.hookInvocationsTotal.WithLabelValues(event, outcome).Inc()
}

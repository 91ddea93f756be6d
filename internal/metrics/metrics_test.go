package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/store"
)

func TestObserveSnapshot_SetsGaugesFromAgentStatuses(t *testing.T) {
	r := NewRegistry()
	snap := store.Snapshot{Agents: []store.Agent{
		{ID: "A1", Status: store.AgentIdle},
		{ID: "A2", Status: store.AgentIdle},
		{ID: "A3", Status: store.AgentWorking},
		{ID: "A4", Status: store.AgentBlocked},
	}}
	r.ObserveSnapshot(snap)

	metricFamilies, err := r.Gatherer().Gather()
	require.NoError(t, err)

	values := gaugeValues(metricFamilies)
	assert.Equal(t, 2.0, values["orchestrator_agents_idle"])
	assert.Equal(t, 1.0, values["orchestrator_agents_working"])
	assert.Equal(t, 1.0, values["orchestrator_agents_blocked"])
	assert.Equal(t, 0.0, values["orchestrator_agents_offline"])
}

func TestIncTaskCompleted_IncrementsCounter(t *testing.T) {
	r := NewRegistry()
	r.IncTaskCompleted()
	r.IncTaskCompleted()

	metricFamilies, err := r.Gatherer().Gather()
	require.NoError(t, err)

	for _, mf := range metricFamilies {
		if mf.GetName() == "orchestrator_tasks_completed_total" {
			assert.Equal(t, 2.0, mf.GetMetric()[0].GetCounter().GetValue())
			return
		}
	}
	t.Fatal("counter not found in gathered metrics")
}

func gaugeValues(families []*dto.MetricFamily) map[string]float64 {
	out := make(map[string]float64)
	for _, mf := range families {
		if len(mf.GetMetric()) == 0 {
			continue
		}
		out[mf.GetName()] = mf.GetMetric()[0].GetGauge().GetValue()
	}
	return out
}

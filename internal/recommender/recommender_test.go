package recommender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/store"
)

func TestExtractKeywords_IsSubstringAware(t *testing.T) {
	got := ExtractKeywords("Polish the frontend-ui for login", "touches the auth flow")
	assert.Contains(t, got, "frontend")
	assert.Contains(t, got, "frontend-ui")
	assert.Contains(t, got, "ui")
	assert.Contains(t, got, "auth")
}

func TestRecommend_PrefersSpecializedIdleAgent(t *testing.T) {
	task := store.Task{Title: "Fix backend API bug", Description: "affects the data layer"}

	agents := []AgentInput{
		{
			Agent:           store.Agent{ID: "A2", Status: store.AgentIdle},
			Specializations: []string{"backend", "api"},
			Metrics:         store.AgentMetrics{Total: 10, Completed: 8},
		},
		{
			Agent:           store.Agent{ID: "A1", Status: store.AgentWorking},
			Specializations: []string{"frontend", "ui"},
			Metrics:         store.AgentMetrics{Total: 10, Completed: 9},
		},
	}

	got := Recommend(task, agents, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "A2", got[0].AgentID, "specialization + availability should outweigh a slightly higher raw performance ratio")
}

func TestRecommend_TieBreaksByLexicographicAgentID(t *testing.T) {
	task := store.Task{Title: "Write docs", Description: "for the new API"}
	agents := []AgentInput{
		{Agent: store.Agent{ID: "A9", Status: store.AgentIdle}},
		{Agent: store.Agent{ID: "A1", Status: store.AgentIdle}},
		{Agent: store.Agent{ID: "A5", Status: store.AgentIdle}},
	}

	got := Recommend(task, agents, 3)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"A1", "A5", "A9"}, []string{got[0].AgentID, got[1].AgentID, got[2].AgentID})
}

func TestRecommend_RespectsLimitN(t *testing.T) {
	task := store.Task{Title: "Anything", Description: ""}
	agents := []AgentInput{
		{Agent: store.Agent{ID: "A1", Status: store.AgentIdle}},
		{Agent: store.Agent{ID: "A2", Status: store.AgentIdle}},
		{Agent: store.Agent{ID: "A3", Status: store.AgentIdle}},
	}
	got := Recommend(task, agents, 2)
	assert.Len(t, got, 2)
}

func TestRecommend_NeutralScoresWhenNoHistory(t *testing.T) {
	task := store.Task{Title: "Anything", Description: ""}
	agents := []AgentInput{{Agent: store.Agent{ID: "A1", Status: store.AgentOffline}}}

	got := Recommend(task, agents, 1)
	require.Len(t, got, 1)
	assert.InDelta(t, 30.0, got[0].Breakdown.SpecializationPct, 0.01)
	assert.InDelta(t, 50.0, got[0].Breakdown.PerformancePct, 0.01)
	assert.InDelta(t, 0.0, got[0].Breakdown.AvailabilityPct, 0.01)
}

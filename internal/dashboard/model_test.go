package dashboard

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/store"
)

func intPtr(v int64) *int64 { return &v }

func TestBuildAgentDisplay_JoinsLatestProgress(t *testing.T) {
	now := time.Now()
	snap := store.Snapshot{
		Agents: []store.Agent{{ID: "A1", Name: "alpha", Status: store.AgentWorking, CurrentTask: intPtr(7)}},
		LatestProgress: map[string]store.AgentProgress{
			"A1": {Percent: 42, Message: "in progress", Timestamp: now.Add(-5 * time.Minute)},
		},
		TakenAt: now,
	}

	got := buildAgentDisplay(snap)
	require.Len(t, got, 1)
	assert.Equal(t, 42, got[0].Percent)
	assert.Equal(t, "in progress", got[0].Message)
	assert.InDelta(t, 5*time.Minute, got[0].Elapsed, float64(time.Second))
}

func TestBuildAgentDisplay_NoProgressRowLeavesZeroValue(t *testing.T) {
	snap := store.Snapshot{Agents: []store.Agent{{ID: "A1", Name: "alpha", Status: store.AgentIdle}}}
	got := buildAgentDisplay(snap)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Percent)
	assert.Equal(t, time.Duration(0), got[0].Elapsed)
}

func TestCountCompleted(t *testing.T) {
	tasks := []store.Task{
		{Status: store.TaskCompleted},
		{Status: store.TaskPending},
		{Status: store.TaskCompleted},
	}
	completed, total := countCompleted(tasks)
	assert.Equal(t, 2, completed)
	assert.Equal(t, 3, total)
}

func TestHandleKey_QRequestsQuit(t *testing.T) {
	m := Model{}
	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	um := updated.(Model)
	assert.True(t, um.quitting)
	require.NotNil(t, cmd)
}

func TestFilterFlow_NarrowsAgentTableByName(t *testing.T) {
	m := New(nil, nil, nil, time.Second, 10, zerolog.Nop())
	m.agents = []AgentDisplay{
		{ID: "A1", Name: "alpha"},
		{ID: "A2", Name: "bravo"},
	}

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	um := updated.(Model)
	assert.True(t, um.filtering)
	require.NotNil(t, cmd)

	updated, _ = um.handleFilterKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	um = updated.(Model)

	updated, _ = um.handleFilterKey(tea.KeyMsg{Type: tea.KeyEnter})
	um = updated.(Model)
	assert.False(t, um.filtering)
	assert.Equal(t, "b", um.filter)
	assert.ElementsMatch(t, []AgentDisplay{{ID: "A2", Name: "bravo"}}, um.filteredAgents())
}

func TestHandleKey_HTogglesHelp(t *testing.T) {
	m := Model{}
	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	um := updated.(Model)
	assert.True(t, um.showHelp)

	updated, _ = um.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	um = updated.(Model)
	assert.False(t, um.showHelp)
}

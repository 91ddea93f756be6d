package errfmt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskweave/orchestrator/internal/store"
)

func TestNotFoundTask_IncludesSuggestionAndRecentPending(t *testing.T) {
	f := New(false)
	pending := []store.Task{
		{ID: 1, Title: "Fix login bug"},
		{ID: 2, Title: "Write docs"},
	}
	msg := f.NotFoundTask("TASK-9", []string{"TASK-9x", "TASK-1", "TASK-2"}, pending)
	assert.Contains(t, msg, `task "TASK-9" not found`)
	assert.Contains(t, msg, "TASK-9x")
	assert.Contains(t, msg, "Fix login bug")
	assert.Contains(t, msg, "orchestrator sync")
}

func TestNotFoundAgent_ListsAvailableAgents(t *testing.T) {
	f := New(false)
	available := []store.Agent{
		{ID: "A1", Name: "alpha", Status: store.AgentIdle},
		{ID: "A2", Name: "beta", Status: store.AgentWorking},
	}
	msg := f.NotFoundAgent("A9", []string{"A1", "A2"}, available)
	assert.Contains(t, msg, `agent "A9" not found`)
	assert.Contains(t, msg, "alpha")
	assert.Contains(t, msg, "idle")
}

func TestInvalidEnum_ListsValidValuesAndFuzzySuggestion(t *testing.T) {
	f := New(false)
	msg := f.InvalidEnum("status", "idel", []string{"idle", "working", "blocked", "offline"})
	assert.Contains(t, msg, "idle, working, blocked, offline")
	assert.Contains(t, msg, "idle")
}

func TestColorize_NoOpWhenDisabled(t *testing.T) {
	f := New(false)
	assert.Equal(t, "plain", f.bold("plain", 0))
}

package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/store"
)

func agentPtr(id string) *string { return &id }

func snapshotWithTasks(statuses ...store.TaskStatus) store.Snapshot {
	var tasks []store.Task
	for i, s := range statuses {
		tasks = append(tasks, store.Task{ID: int64(i + 1), Title: "t", Status: s})
	}
	return store.Snapshot{Tasks: tasks}
}

func TestDiff_SeedingDoesNotNotify(t *testing.T) {
	d := NewDetector(nil, 0)
	snap := snapshotWithTasks(store.TaskCompleted, store.TaskCompleted, store.TaskCompleted, store.TaskCompleted)
	got := d.Diff(snap)
	assert.Empty(t, got, "first observation should seed state, not notify")
}

func TestDiff_NewlyCompletedTaskFiresOnce(t *testing.T) {
	d := NewDetector(nil, 0)
	d.Diff(store.Snapshot{Tasks: []store.Task{{ID: 1, Status: store.TaskPending}}})

	// The only task completing also takes overall progress to 100%, so
	// the four default milestones fire after the completion itself.
	got := d.Diff(store.Snapshot{Tasks: []store.Task{{ID: 1, Status: store.TaskCompleted, Agent: agentPtr("A1")}}})
	require.Len(t, got, 5)
	assert.Equal(t, KindTaskComplete, got[0].Kind)

	got = d.Diff(store.Snapshot{Tasks: []store.Task{{ID: 1, Status: store.TaskCompleted, Agent: agentPtr("A1")}}})
	assert.Empty(t, got, "a task already observed completed must not notify again")
}

func TestDiff_MilestoneFiresExactlyOncePerThreshold(t *testing.T) {
	d := NewDetector([]int{50}, 0)
	d.Diff(snapshotWithTasks(store.TaskPending, store.TaskPending))

	got := d.Diff(snapshotWithTasks(store.TaskCompleted, store.TaskPending))
	require.Len(t, got, 1)
	assert.Equal(t, KindMilestone, got[0].Kind)

	got = d.Diff(snapshotWithTasks(store.TaskPending, store.TaskPending))
	assert.Empty(t, got)

	got = d.Diff(snapshotWithTasks(store.TaskCompleted, store.TaskPending))
	assert.Empty(t, got, "a latched milestone threshold must never fire twice, even if progress oscillates back across it")
}

func TestDiff_RateLimitsRepeatedAgentNotifications(t *testing.T) {
	d := NewDetector(nil, 100*time.Millisecond)
	now := time.Now()
	d.now = func() time.Time { return now }

	d.Diff(store.Snapshot{Tasks: []store.Task{{ID: 1, Status: store.TaskPending, Agent: agentPtr("A1")}, {ID: 2, Status: store.TaskPending, Agent: agentPtr("A1")}}})

	// Milestones carry no agent and are never rate-limited: task 1's
	// completion is followed by the 25% and 50% milestones.
	got := d.Diff(store.Snapshot{Tasks: []store.Task{{ID: 1, Status: store.TaskCompleted, Agent: agentPtr("A1")}, {ID: 2, Status: store.TaskPending, Agent: agentPtr("A1")}}})
	require.Len(t, got, 3)
	assert.Equal(t, KindTaskComplete, got[0].Kind)

	got = d.Diff(store.Snapshot{Tasks: []store.Task{{ID: 1, Status: store.TaskCompleted, Agent: agentPtr("A1")}, {ID: 2, Status: store.TaskCompleted, Agent: agentPtr("A1")}}})
	require.Len(t, got, 2, "a second notification for the same agent within the rate-limit window must be dropped; only the 75% and 100% milestones remain")
	assert.Equal(t, KindMilestone, got[0].Kind)
	assert.Equal(t, KindMilestone, got[1].Kind)

	// A dropped notification is not replayed; a new completion by the
	// same agent after the window is notified.
	now = now.Add(200 * time.Millisecond)
	got = d.Diff(store.Snapshot{Tasks: []store.Task{{ID: 1, Status: store.TaskCompleted, Agent: agentPtr("A1")}, {ID: 2, Status: store.TaskCompleted, Agent: agentPtr("A1")}, {ID: 3, Status: store.TaskCompleted, Agent: agentPtr("A1")}}})
	assert.Len(t, got, 1, "once the window elapses the agent may be notified again")
}

func TestDiff_NewlyBlockedAgentFiresAgentError(t *testing.T) {
	d := NewDetector(nil, 0)
	d.Diff(store.Snapshot{Agents: []store.Agent{{ID: "A1", Status: store.AgentIdle}}})

	got := d.Diff(store.Snapshot{Agents: []store.Agent{{ID: "A1", Status: store.AgentBlocked}}})
	require.Len(t, got, 1)
	assert.Equal(t, KindAgentError, got[0].Kind)

	got = d.Diff(store.Snapshot{Agents: []store.Agent{{ID: "A1", Status: store.AgentBlocked}}})
	assert.Empty(t, got, "an agent already observed blocked must not notify again until it recovers")
}

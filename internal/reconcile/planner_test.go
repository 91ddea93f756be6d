package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taskweave/orchestrator/internal/store"
)

func TestPlan_DryRunDiscovery(t *testing.T) {
	now := time.Now().UTC()
	snap := store.Snapshot{
		Tasks: []store.Task{
			{ID: 33, Status: store.TaskPending, CreatedAt: now, UpdatedAt: now.Add(-time.Hour)},
			{ID: 50, Status: store.TaskCompleted, CreatedAt: now, UpdatedAt: now.Add(-time.Hour)},
		},
	}
	scan := ScanResult{Docs: []CompletionDoc{
		{TaskID: 33, CompletedAt: now, Source: SourceFile, Path: "TASK-33-DONE.md"},
		{TaskID: 50, CompletedAt: now, Source: SourceFile, Path: "TASK-50-COMPLETION.md"},
	}}

	proposals := NewPlanner().Plan(scan, snap)

	assert.Len(t, proposals, 2)
	assert.Equal(t, MarkComplete, proposals[0].Kind)
	assert.EqualValues(t, 33, proposals[0].TaskID)
	assert.Equal(t, NoOp, proposals[1].Kind)
	assert.Equal(t, NoOpReasonAlreadyComplete, proposals[1].Reason)
}

func TestPlan_PrefersStoreWhenNewerThanArtifact(t *testing.T) {
	now := time.Now().UTC()
	snap := store.Snapshot{
		Tasks: []store.Task{
			{ID: 1, Status: store.TaskPending, CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now},
		},
	}
	scan := ScanResult{Docs: []CompletionDoc{
		{TaskID: 1, CompletedAt: now.Add(-time.Hour), Source: SourceFile, Path: "TASK-1-DONE.md"},
	}}

	proposals := NewPlanner().Plan(scan, snap)

	assert.Len(t, proposals, 1)
	assert.Equal(t, NoOp, proposals[0].Kind)
}

func TestPlan_FlagsMissingDocForManuallyCompletedTask(t *testing.T) {
	now := time.Now().UTC()
	snap := store.Snapshot{
		Tasks: []store.Task{
			{ID: 5, Status: store.TaskCompleted, AutoCompleted: false, CreatedAt: now, UpdatedAt: now},
		},
	}
	proposals := NewPlanner().Plan(ScanResult{}, snap)

	assert.Len(t, proposals, 1)
	assert.Equal(t, FlagMissingDoc, proposals[0].Kind)
}

func TestPlan_UnblocksWhenDependenciesComplete(t *testing.T) {
	now := time.Now().UTC()
	snap := store.Snapshot{
		Tasks: []store.Task{
			{ID: 1, Status: store.TaskCompleted, CreatedAt: now, UpdatedAt: now, AutoCompleted: true},
			{ID: 2, Status: store.TaskBlocked, CreatedAt: now, UpdatedAt: now},
		},
		Dependencies: map[int64][]int64{2: {1}},
	}
	proposals := NewPlanner().Plan(ScanResult{}, snap)

	assert.Len(t, proposals, 1)
	assert.Equal(t, UnblockTaskByDependency, proposals[0].Kind)
	assert.EqualValues(t, 2, proposals[0].TaskID)
}

func TestPlan_FlagsIdleAgentStuckOnCompletedTask(t *testing.T) {
	now := time.Now().UTC()
	taskID := int64(9)
	snap := store.Snapshot{
		Tasks: []store.Task{
			{ID: 9, Status: store.TaskCompleted, AutoCompleted: true, CreatedAt: now, UpdatedAt: now},
		},
		Agents: []store.Agent{
			{ID: "A1", Status: store.AgentWorking, CurrentTask: &taskID},
		},
	}
	proposals := NewPlanner().Plan(ScanResult{}, snap)

	assert.Len(t, proposals, 1)
	assert.Equal(t, IdleAgent, proposals[0].Kind)
	assert.Equal(t, "A1", proposals[0].AgentID)
	assert.EqualValues(t, 9, proposals[0].TaskID)
}

func TestPlan_DoesNotFlagWorkingAgentOnLiveTask(t *testing.T) {
	now := time.Now().UTC()
	taskID := int64(9)
	snap := store.Snapshot{
		Tasks: []store.Task{
			{ID: 9, Status: store.TaskInProgress, CreatedAt: now, UpdatedAt: now},
		},
		Agents: []store.Agent{
			{ID: "A1", Status: store.AgentWorking, CurrentTask: &taskID},
		},
	}
	proposals := NewPlanner().Plan(ScanResult{}, snap)
	assert.Empty(t, proposals)
}

func TestPlan_DoesNotUnblockWithIncompleteDependency(t *testing.T) {
	now := time.Now().UTC()
	snap := store.Snapshot{
		Tasks: []store.Task{
			{ID: 1, Status: store.TaskPending, CreatedAt: now, UpdatedAt: now},
			{ID: 2, Status: store.TaskBlocked, CreatedAt: now, UpdatedAt: now},
		},
		Dependencies: map[int64][]int64{2: {1}},
	}
	proposals := NewPlanner().Plan(ScanResult{}, snap)
	assert.Empty(t, proposals)
}

package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/orcherr"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orchestrator.db")
	db, err := Open(path, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateTask_AssignsIncrementingID(t *testing.T) {
	db := openTestDB(t)

	first, err := db.CreateTask("first", "", nil)
	require.NoError(t, err)
	second, err := db.CreateTask("second", "", nil)
	require.NoError(t, err)

	assert.Equal(t, TaskPending, first.Status)
	assert.Greater(t, second.ID, first.ID)
}

func TestCreateTask_RejectsEmptyTitle(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateTask("", "", nil)
	assert.True(t, orcherr.Is(err, orcherr.InvalidArgument))
}

func TestCreateTask_RejectsUnknownPriority(t *testing.T) {
	db := openTestDB(t)
	bad := Priority("urgent-ish")
	_, err := db.CreateTask("t", "", &bad)
	assert.True(t, orcherr.Is(err, orcherr.InvalidArgument))
}

func TestGetTask_ReadYourWrites(t *testing.T) {
	db := openTestDB(t)
	created, err := db.CreateTask("read your writes", "desc", nil)
	require.NoError(t, err)

	got, err := db.GetTask(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Description, got.Description)
}

func TestGetTask_NotFound(t *testing.T) {
	db := openTestDB(t)
	_, err := db.GetTask(999)
	assert.True(t, orcherr.Is(err, orcherr.NotFound))
}

func TestComplete_IsIdempotent(t *testing.T) {
	db := openTestDB(t)
	task, err := db.CreateTask("finish me", "", nil)
	require.NoError(t, err)

	require.NoError(t, db.Complete(task.ID, nil, nil, nil, false))

	got, err := db.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, TaskCompleted, got.Status)

	err = db.Complete(task.ID, nil, nil, nil, false)
	assert.True(t, orcherr.Is(err, orcherr.AlreadyApplied))
}

func TestComplete_FreesAssignedAgent(t *testing.T) {
	db := openTestDB(t)
	task, err := db.CreateTask("assigned task", "", nil)
	require.NoError(t, err)
	_, err = db.CreateAgent("agent-1", "Agent One")
	require.NoError(t, err)
	require.NoError(t, db.Assign(task.ID, "agent-1"))

	require.NoError(t, db.Complete(task.ID, nil, nil, nil, true))

	agent, err := db.GetAgent("agent-1")
	require.NoError(t, err)
	assert.Equal(t, AgentIdle, agent.Status)
	assert.Nil(t, agent.CurrentTask)
}

func TestAddDependency_RejectsSelfLoop(t *testing.T) {
	db := openTestDB(t)
	task, err := db.CreateTask("self", "", nil)
	require.NoError(t, err)

	err = db.AddDependency(task.ID, task.ID)
	assert.True(t, orcherr.Is(err, orcherr.Conflict))
}

func TestAddDependency_RejectsCycle(t *testing.T) {
	db := openTestDB(t)
	a, err := db.CreateTask("a", "", nil)
	require.NoError(t, err)
	b, err := db.CreateTask("b", "", nil)
	require.NoError(t, err)
	c, err := db.CreateTask("c", "", nil)
	require.NoError(t, err)

	require.NoError(t, db.AddDependency(b.ID, a.ID)) // b depends on a
	require.NoError(t, db.AddDependency(c.ID, b.ID)) // c depends on b

	err = db.AddDependency(a.ID, c.ID) // would close a -> c -> b -> a
	assert.True(t, orcherr.Is(err, orcherr.Conflict))
}

func TestIsBlocked_ReflectsUnmetDependency(t *testing.T) {
	db := openTestDB(t)
	blocker, err := db.CreateTask("blocker", "", nil)
	require.NoError(t, err)
	blocked, err := db.CreateTask("blocked", "", nil)
	require.NoError(t, err)
	require.NoError(t, db.AddDependency(blocked.ID, blocker.ID))

	isBlocked, err := db.IsBlocked(blocked.ID)
	require.NoError(t, err)
	assert.True(t, isBlocked)

	require.NoError(t, db.Complete(blocker.ID, nil, nil, nil, false))

	isBlocked, err = db.IsBlocked(blocked.ID)
	require.NoError(t, err)
	assert.False(t, isBlocked)
}

func TestReportProgress_RejectsOutOfRangePercent(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateAgent("agent-1", "Agent One")
	require.NoError(t, err)
	task, err := db.CreateTask("task", "", nil)
	require.NoError(t, err)

	_, err = db.ReportProgress("agent-1", task.ID, 101, "")
	assert.True(t, orcherr.Is(err, orcherr.InvalidArgument))

	_, err = db.ReportProgress("agent-1", task.ID, -1, "")
	assert.True(t, orcherr.Is(err, orcherr.InvalidArgument))
}

func TestLatestProgress_ReturnsMostRecent(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateAgent("agent-1", "Agent One")
	require.NoError(t, err)
	task, err := db.CreateTask("task", "", nil)
	require.NoError(t, err)

	_, err = db.ReportProgress("agent-1", task.ID, 10, "starting")
	require.NoError(t, err)
	_, err = db.ReportProgress("agent-1", task.ID, 60, "halfway")
	require.NoError(t, err)

	latest, err := db.LatestProgress("agent-1")
	require.NoError(t, err)
	assert.Equal(t, 60, latest.Percent)
}

// TestTaskProgress_ReturnsRoundTripInAscendingOrder is spec §8 scenario 4,
// literally: three progress reports for (A12, task 37), then
// latest_progress(A12) returns 100/"done" and task_progress(37) returns all
// three rows oldest first.
func TestTaskProgress_ReturnsRoundTripInAscendingOrder(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateAgent("A12", "Agent Twelve")
	require.NoError(t, err)
	task, err := db.CreateTask("ship the thing", "", nil)
	require.NoError(t, err)

	_, err = db.ReportProgress("A12", task.ID, 30, "parsing")
	require.NoError(t, err)
	_, err = db.ReportProgress("A12", task.ID, 60, "writing")
	require.NoError(t, err)
	_, err = db.ReportProgress("A12", task.ID, 100, "done")
	require.NoError(t, err)

	latest, err := db.LatestProgress("A12")
	require.NoError(t, err)
	assert.Equal(t, 100, latest.Percent)
	assert.Equal(t, "done", latest.Message)

	reports, err := db.TaskProgress(task.ID)
	require.NoError(t, err)
	require.Len(t, reports, 3)
	assert.Equal(t, []int{30, 60, 100}, []int{reports[0].Percent, reports[1].Percent, reports[2].Percent})
	assert.Equal(t, []string{"parsing", "writing", "done"}, []string{reports[0].Message, reports[1].Message, reports[2].Message})
	assert.True(t, reports[0].Timestamp.Before(reports[1].Timestamp) || reports[0].Timestamp.Equal(reports[1].Timestamp))
	assert.True(t, reports[1].Timestamp.Before(reports[2].Timestamp) || reports[1].Timestamp.Equal(reports[2].Timestamp))
}

func TestCleanupProgress_RemovesOnlyOlderRows(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateAgent("agent-1", "Agent One")
	require.NoError(t, err)
	task, err := db.CreateTask("task", "", nil)
	require.NoError(t, err)
	_, err = db.ReportProgress("agent-1", task.ID, 50, "")
	require.NoError(t, err)

	removed, err := db.CleanupProgress(time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 0, removed)

	removed, err = db.CleanupProgress(time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)
}

func TestRefreshMetrics_CountsCompletedTasks(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateAgent("agent-1", "Agent One")
	require.NoError(t, err)
	task, err := db.CreateTask("task", "", nil)
	require.NoError(t, err)
	require.NoError(t, db.Assign(task.ID, "agent-1"))
	require.NoError(t, db.Complete(task.ID, nil, nil, nil, false))

	metrics, err := db.Metrics("agent-1")
	require.NoError(t, err)
	assert.Equal(t, 1, metrics.Total)
	assert.Equal(t, 1, metrics.Completed)
}

func TestTakeSnapshot_IsInternallyConsistent(t *testing.T) {
	db := openTestDB(t)
	_, err := db.CreateAgent("agent-1", "Agent One")
	require.NoError(t, err)
	task, err := db.CreateTask("task", "", nil)
	require.NoError(t, err)
	require.NoError(t, db.Assign(task.ID, "agent-1"))
	_, err = db.ReportProgress("agent-1", task.ID, 40, "working")
	require.NoError(t, err)
	_, err = db.RecordEvent(ActivityTaskStart, &task.ID, nil, "started")
	require.NoError(t, err)

	snap, err := db.TakeSnapshot(10)
	require.NoError(t, err)
	assert.Len(t, snap.Agents, 1)
	assert.Len(t, snap.Tasks, 1)
	assert.Equal(t, 40, snap.LatestProgress["agent-1"].Percent)
	assert.Len(t, snap.RecentEvents, 1)
}

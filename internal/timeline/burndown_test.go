package timeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/store"
)

func TestBuildBurndown_TracksRemainingCountDownToZero(t *testing.T) {
	tasks := []store.Task{
		{ID: 1, CreatedAt: mustParse(t, "2026-07-01"), Status: store.TaskCompleted, UpdatedAt: mustParse(t, "2026-07-05")},
		{ID: 2, CreatedAt: mustParse(t, "2026-07-01"), Status: store.TaskCompleted, UpdatedAt: mustParse(t, "2026-07-10")},
	}

	b := BuildBurndown(tasks, mustParse(t, "2026-07-10"))
	require.Equal(t, 2, b.Max)

	firstColFilled := 0
	lastColFilled := 0
	for row := 0; row < burndownRows; row++ {
		if b.Grid[row][0] {
			firstColFilled++
		}
		if b.Grid[row][burndownCols-1] {
			lastColFilled++
		}
	}
	assert.True(t, firstColFilled >= lastColFilled, "remaining work should not increase by the final sampled day")
}

func TestBuildBurndown_EmptyTaskListYieldsZeroMax(t *testing.T) {
	b := BuildBurndown(nil, mustParse(t, "2026-07-10"))
	assert.Equal(t, 0, b.Max)
}

func TestRemainingAsOf_ExcludesTasksCompletedByThatDay(t *testing.T) {
	tasks := []store.Task{
		{CreatedAt: mustParse(t, "2026-07-01"), Status: store.TaskCompleted, UpdatedAt: mustParse(t, "2026-07-03")},
		{CreatedAt: mustParse(t, "2026-07-01"), Status: store.TaskPending},
	}
	assert.Equal(t, 2, remainingAsOf(tasks, mustParse(t, "2026-07-02")))
	assert.Equal(t, 1, remainingAsOf(tasks, mustParse(t, "2026-07-04")))
}

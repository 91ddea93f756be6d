package timeline

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/store"
)

func TestLoad_BuildsReportFromPendingAndCompletedTasks(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	done, err := db.CreateTask("Ship it", "", nil)
	require.NoError(t, err)
	_, err = db.CreateAgent("A1", "Agent One")
	require.NoError(t, err)
	require.NoError(t, db.Assign(done.ID, "A1"))
	docPath := "docs/TASK-1-DONE.md"
	source := store.SourceFilesystem
	require.NoError(t, db.Complete(done.ID, &docPath, &source, nil, false))

	_, err = db.CreateTask("Still open", "", nil)
	require.NoError(t, err)

	report, err := Load(db, mustParse(t, "2026-07-31"))
	require.NoError(t, err)
	assert.NotEmpty(t, report.Sprints)
	assert.Equal(t, 1, report.Completion.RemainingTasks)
	assert.NotZero(t, report.Burndown.End)
}

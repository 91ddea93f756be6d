package recommender

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/taskweave/orchestrator/internal/store"
)

func TestLoadAgentInputs_CountsKeywordMatchingCompletedTasks(t *testing.T) {
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.CreateAgent("A1", "alpha")
	require.NoError(t, err)

	done, err := db.CreateTask("Ship backend API", "", nil)
	require.NoError(t, err)
	require.NoError(t, db.Assign(done.ID, "A1"))
	docPath := "docs/TASK-1-DONE.md"
	source := store.SourceFilesystem
	require.NoError(t, db.Complete(done.ID, &docPath, &source, nil, false))

	target := store.Task{Title: "Fix backend bug", Description: ""}
	inputs, err := LoadAgentInputs(db, target)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	require.Equal(t, 1, inputs[0].CompletedKeywordMatches)
}

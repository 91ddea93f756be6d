package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskIDFromFilename(t *testing.T) {
	cases := []struct {
		name    string
		wantID  int64
		wantOK  bool
	}{
		{"TASK-33-DONE.md", 33, true},
		{"task-50-completion.MD", 50, true},
		{"TASK-7_notes.txt", 7, true},
		{"README.md", 0, false},
		{"TASK-abc-DONE.md", 0, false},
	}
	for _, c := range cases {
		id, ok := taskIDFromFilename(c.name)
		assert.Equal(t, c.wantOK, ok, c.name)
		if c.wantOK {
			assert.Equal(t, c.wantID, id, c.name)
		}
	}
}

func TestTaskIDsFromCommitMessage(t *testing.T) {
	ids := TaskIDsFromCommitMessage("Fixes TASK-12 and task #34, see also [TASK-12]")
	assert.Equal(t, []int64{12, 34}, ids)
}

func TestParseFrontMatter_OverridesInferredFields(t *testing.T) {
	content := "---\ntask_id: 99\nagent_id: A7\ncompleted_at: 2026-01-02T15:04:05Z\n---\nbody text\n"
	fm, body := parseFrontMatter(content)

	require.NotNil(t, fm.TaskID)
	assert.EqualValues(t, 99, *fm.TaskID)
	assert.Equal(t, "A7", fm.AgentID)
	require.NotNil(t, fm.CompletedAt)
	assert.Equal(t, "body text\n", body)
}

func TestParseFrontMatter_AbsentIsPassthrough(t *testing.T) {
	fm, body := parseFrontMatter("just a plain file\n")
	assert.Nil(t, fm.TaskID)
	assert.Equal(t, "just a plain file\n", body)
}

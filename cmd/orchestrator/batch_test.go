package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPair_SplitsOnFirstColon(t *testing.T) {
	assert.Equal(t, [2]string{"7", "agent-a"}, splitPair("7:agent-a"))
	assert.Equal(t, [2]string{"7", ""}, splitPair("7"))
}

func TestParseBatchArgs_RejectsNonNumericTaskID(t *testing.T) {
	_, err := parseBatchArgs([]string{"abc:agent-a"})
	assert.Error(t, err)
}

func TestParseBatchArgs_BuildsOneRecordPerPair(t *testing.T) {
	inputs, err := parseBatchArgs([]string{"1:agent-a", "2:agent-b"})
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, int64(1), inputs[0].TaskID)
	assert.Equal(t, "agent-b", inputs[1].AgentID)
}

func TestReadBatchJSON_ParsesArrayOfRecords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.json")
	data, err := json.Marshal([]batchRecordInput{{TaskID: 3, AgentID: "agent-a"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	inputs, err := readBatchJSON(path)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, int64(3), inputs[0].TaskID)
}

func TestReadBatchCSV_ParsesHeaderAndRows(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "batch.csv")
	content := "task_id,agent_id,completed_at\n5,agent-b,2026-01-02T00:00:00Z\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	inputs, err := readBatchCSV(path)
	require.NoError(t, err)
	require.Len(t, inputs, 1)
	assert.Equal(t, int64(5), inputs[0].TaskID)
	assert.Equal(t, "agent-b", inputs[0].AgentID)
	assert.Equal(t, "2026-01-02T00:00:00Z", inputs[0].CompletedAt)
}

func TestToBatchRecords_ParsesCompletedAtWhenPresent(t *testing.T) {
	records, err := toBatchRecords([]batchRecordInput{
		{TaskID: 1, AgentID: "agent-a", CompletedAt: "2026-01-02T00:00:00Z"},
		{TaskID: 2, AgentID: "agent-b"},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].CompletedAt)
	assert.True(t, records[0].CompletedAt.Equal(time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)))
	assert.Nil(t, records[1].CompletedAt)
}

func TestToBatchRecords_RejectsMalformedTimestamp(t *testing.T) {
	_, err := toBatchRecords([]batchRecordInput{{TaskID: 1, CompletedAt: "not-a-time"}})
	assert.Error(t, err)
}

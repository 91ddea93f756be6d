package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/taskweave/orchestrator/internal/reconcile"
)

// batchRecordInput is the decoded shape of one JSON/CSV row before it is
// translated into a reconcile.BatchRecord; validator enforces the shape
// before anything touches the store (SPEC_FULL.md domain stack: validator
// "struct validation on batch-completion records").
type batchRecordInput struct {
	TaskID      int64  `json:"task_id" validate:"required"`
	AgentID     string `json:"agent_id"`
	CompletedAt string `json:"completed_at"` // RFC3339, optional
}

var (
	batchJSONPath string
	batchCSVPath  string
)

var completeBatchCmd = &cobra.Command{
	Use:   "complete-batch [task-id:agent-id ...]",
	Short: "Atomically mark a batch of tasks complete",
	Long: `Accepts completion records from one source: positional
task-id:agent-id pairs, --json <file> (an array of records), or
--csv <file> (task_id,agent_id,completed_at header). Any record-level
failure aborts the whole batch (spec §4.2 "Batch completion").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var inputs []batchRecordInput
		var err error
		switch {
		case batchJSONPath != "":
			inputs, err = readBatchJSON(batchJSONPath)
		case batchCSVPath != "":
			inputs, err = readBatchCSV(batchCSVPath)
		default:
			inputs, err = parseBatchArgs(args)
		}
		if err != nil {
			return err
		}
		if len(inputs) == 0 {
			return fmt.Errorf("no completion records supplied")
		}

		v := validator.New()
		for i, in := range inputs {
			if err := v.Struct(in); err != nil {
				return fmt.Errorf("record %d invalid: %w", i, err)
			}
		}

		records, err := toBatchRecords(inputs)
		if err != nil {
			return err
		}

		a, closeApp, err := newApp(cmd, "cli.batch")
		if err != nil {
			return err
		}
		defer closeApp()

		r := reconcile.New(a.db, a.bus, a.cfg.Sync.DocsRoot, a.log)
		if err := r.BatchComplete(records); err != nil {
			return err
		}
		fmt.Printf("completed %d tasks\n", len(records))
		return nil
	},
}

func parseBatchArgs(args []string) ([]batchRecordInput, error) {
	inputs := make([]batchRecordInput, 0, len(args))
	for _, arg := range args {
		parts := splitPair(arg)
		taskID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid record %q: task id must be numeric", arg)
		}
		inputs = append(inputs, batchRecordInput{TaskID: taskID, AgentID: parts[1]})
	}
	return inputs, nil
}

func splitPair(s string) [2]string {
	for i := 0; i < len(s); i++ {
		if s[i] == ':' {
			return [2]string{s[:i], s[i+1:]}
		}
	}
	return [2]string{s, ""}
}

func readBatchJSON(path string) ([]batchRecordInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read json batch file: %w", err)
	}
	var inputs []batchRecordInput
	if err := json.Unmarshal(data, &inputs); err != nil {
		return nil, fmt.Errorf("parse json batch file: %w", err)
	}
	return inputs, nil
}

func readBatchCSV(path string) ([]batchRecordInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv batch file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv batch file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}

	inputs := make([]batchRecordInput, 0, len(rows)-1)
	for _, row := range rows[1:] {
		taskID, err := strconv.ParseInt(row[col["task_id"]], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid task_id in row %v: %w", row, err)
		}
		in := batchRecordInput{TaskID: taskID}
		if i, ok := col["agent_id"]; ok && i < len(row) {
			in.AgentID = row[i]
		}
		if i, ok := col["completed_at"]; ok && i < len(row) {
			in.CompletedAt = row[i]
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

func toBatchRecords(inputs []batchRecordInput) ([]reconcile.BatchRecord, error) {
	records := make([]reconcile.BatchRecord, 0, len(inputs))
	for _, in := range inputs {
		var completedAt *time.Time
		if in.CompletedAt != "" {
			t, err := time.Parse(time.RFC3339, in.CompletedAt)
			if err != nil {
				return nil, fmt.Errorf("invalid completed_at %q: %w", in.CompletedAt, err)
			}
			completedAt = &t
		}
		records = append(records, reconcile.BatchRecord{
			TaskID:      in.TaskID,
			AgentID:     in.AgentID,
			CompletedAt: completedAt,
		})
	}
	return records, nil
}

func init() {
	completeBatchCmd.Flags().StringVar(&batchJSONPath, "json", "", "read completion records from a JSON array file")
	completeBatchCmd.Flags().StringVar(&batchCSVPath, "csv", "", "read completion records from a CSV file (task_id,agent_id,completed_at header)")
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskweave/orchestrator/internal/errfmt"
	"github.com/taskweave/orchestrator/internal/recommender"
	"github.com/taskweave/orchestrator/internal/store"
)

var suggestLimit int

var suggestCmd = &cobra.Command{
	Use:   "suggest <task-id>",
	Short: "Print recommended agents for a task, ranked by fit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.suggest")
		if err != nil {
			return err
		}
		defer closeApp()

		taskID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q: %w", args[0], err)
		}

		task, err := a.db.GetTask(taskID)
		if err != nil {
			tasks, listErr := a.db.ListTasks()
			if listErr == nil {
				ids := make([]string, len(tasks))
				var pending []store.Task
				for i, t := range tasks {
					ids[i] = strconv.FormatInt(t.ID, 10)
					if t.Status == store.TaskPending {
						pending = append(pending, t)
					}
				}
				f := errfmt.New(!logJSON)
				return fmt.Errorf("%w\n%s", err, f.NotFoundTask(args[0], ids, pending))
			}
			return err
		}

		inputs, err := recommender.LoadAgentInputs(a.db, task)
		if err != nil {
			return err
		}

		for _, rec := range recommender.Recommend(task, inputs, suggestLimit) {
			fmt.Printf("%s\tscore=%.2f\t%s\n", rec.AgentID, rec.Score, rec.Justification)
		}
		return nil
	},
}

func init() {
	suggestCmd.Flags().IntVar(&suggestLimit, "limit", 3, "maximum number of recommendations to print")
}

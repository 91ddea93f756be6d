package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var reportProgressCmd = &cobra.Command{
	Use:   "report-progress <agent-id> <task-id> <percent> [message]",
	Short: "Insert a progress row for an agent working a task",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.progress")
		if err != nil {
			return err
		}
		defer closeApp()

		taskID, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q: %w", args[1], err)
		}
		percent, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("invalid percent %q: %w", args[2], err)
		}

		var message string
		if len(args) == 4 {
			message = args[3]
		}

		p, err := a.db.ReportProgress(args[0], taskID, percent, message)
		if err != nil {
			return err
		}
		fmt.Printf("recorded %d%% for %s on task %d\n", p.Percent, p.AgentID, p.TaskID)
		return nil
	},
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taskweave/orchestrator/internal/errfmt"
	"github.com/taskweave/orchestrator/internal/orcherr"
	"github.com/taskweave/orchestrator/internal/store"
)

// taskCmd groups the basic task CRUD the CLI surface table assumes but
// does not itemize: something has to put tasks and agents into the
// store before sync/watch/suggest have anything to act on.
var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Create, list, and mutate tasks",
}

var taskPriority string

var taskCreateCmd = &cobra.Command{
	Use:   "create <title> [description]",
	Short: "Create a task",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.task")
		if err != nil {
			return err
		}
		defer closeApp()

		var desc string
		if len(args) == 2 {
			desc = args[1]
		}

		var priority *store.Priority
		if taskPriority != "" {
			p := store.Priority(taskPriority)
			if !validPriority(p) {
				return fmt.Errorf("%s", errfmt.New(!logJSON).InvalidEnum("priority", taskPriority, priorityStrings()))
			}
			priority = &p
		}

		t, err := a.db.CreateTask(args[0], desc, priority)
		if err != nil {
			return err
		}
		fmt.Printf("created task %d: %s\n", t.ID, t.Title)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.task")
		if err != nil {
			return err
		}
		defer closeApp()

		tasks, err := a.db.ListTasks()
		if err != nil {
			return err
		}
		for _, t := range tasks {
			agent := "-"
			if t.Agent != nil {
				agent = *t.Agent
			}
			fmt.Printf("%d\t%s\t%s\t%s\n", t.ID, t.Status, agent, t.Title)
		}
		return nil
	},
}

var taskAssignCmd = &cobra.Command{
	Use:   "assign <task-id> <agent-id>",
	Short: "Assign a task to an agent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.task")
		if err != nil {
			return err
		}
		defer closeApp()

		taskID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid task id %q: %w", args[0], err)
		}

		if err := a.db.Assign(taskID, args[1]); err != nil {
			return decorateNotFoundAgent(a, err, args[1])
		}
		fmt.Printf("assigned task %d to %s\n", taskID, args[1])
		return nil
	},
}

func validPriority(p store.Priority) bool {
	for _, v := range store.ValidPriorities {
		if v == p {
			return true
		}
	}
	return false
}

func priorityStrings() []string {
	out := make([]string, len(store.ValidPriorities))
	for i, p := range store.ValidPriorities {
		out[i] = string(p)
	}
	return out
}

// decorateNotFoundAgent appends the error-context formatter's
// suggestion block to a NotFound-tagged agent lookup failure; any other
// error passes through unchanged.
func decorateNotFoundAgent(a *app, err error, requestedAgent string) error {
	if !orcherr.Is(err, orcherr.NotFound) {
		return err
	}
	agents, listErr := a.db.ListAgents()
	if listErr != nil {
		return err
	}
	ids := make([]string, len(agents))
	for i, ag := range agents {
		ids[i] = ag.ID
	}
	f := errfmt.New(!logJSON)
	return fmt.Errorf("%w\n%s", err, f.NotFoundAgent(requestedAgent, ids, agents))
}

func init() {
	taskCreateCmd.Flags().StringVar(&taskPriority, "priority", "", "low, medium, high, or critical")
	taskCmd.AddCommand(taskCreateCmd, taskListCmd, taskAssignCmd)
}

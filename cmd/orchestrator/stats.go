package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/taskweave/orchestrator/internal/timeline"
)

var statsVisual bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print sprint, velocity, and completion-estimate analytics",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, closeApp, err := newApp(cmd, "cli.stats")
		if err != nil {
			return err
		}
		defer closeApp()

		report, err := timeline.Load(a.db, time.Now())
		if err != nil {
			return err
		}

		for _, s := range report.Sprints {
			fmt.Printf("sprint %d [%s]  %s  %d/%d tasks\n", s.Number, s.Status, s.ProgressBar, s.CompletedCount, s.TaskCount)
		}

		fmt.Printf("\nvelocity: %.1f tasks/sprint (%s), %d sprints considered\n",
			report.Velocity.MeanVelocity, report.Velocity.Trend, report.Velocity.SprintsConsidered)

		if report.Completion.EstimatedSprints > 0 {
			confidence := ""
			if report.Completion.LowConfidence {
				confidence = " (low confidence)"
			}
			fmt.Printf("completion estimate: %.1f sprints for %d remaining tasks%s\n",
				report.Completion.EstimatedSprints, report.Completion.RemainingTasks, confidence)
		}

		if statsVisual {
			fmt.Println()
			fmt.Println(renderBurndown(report.Burndown))
		}
		return nil
	},
}

// renderBurndown draws the burndown grid bottom-up, one row of block
// characters per height bucket, matching the dashboard's "box-drawing
// and block characters only" terminal-safety rule.
func renderBurndown(b timeline.Burndown) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf("burndown %s -> %s (max %d remaining)\n", b.Start.Format("2006-01-02"), b.End.Format("2006-01-02"), b.Max))
	for row := len(b.Grid) - 1; row >= 0; row-- {
		for col := 0; col < len(b.Grid[row]); col++ {
			if b.Grid[row][col] {
				out.WriteString("█")
			} else {
				out.WriteString(" ")
			}
		}
		out.WriteString("\n")
	}
	return out.String()
}

func init() {
	statsCmd.Flags().BoolVar(&statsVisual, "visual", false, "render the burndown chart alongside the numeric summary")
}

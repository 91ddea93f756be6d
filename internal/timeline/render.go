package timeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskweave/orchestrator/internal/store"
)

const barWidth = 24

// BuildSprintViews renders one SprintView per sprint. It prefers
// explicit sprints (and their store.SprintTask membership) when any
// exist, and falls back to InferSprints otherwise — spec §4.5 treats
// inference as the default, not the only mode.
func BuildSprintViews(explicit []store.Sprint, membership map[int][]int64, tasks []store.Task, now time.Time) []SprintView {
	byID := make(map[int64]store.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	sprints := explicit
	inferred := false
	var bucketed map[int][]store.Task
	if len(sprints) == 0 {
		sprints = InferSprints(tasks)
		inferred = true
		bucketed = inferredTasksBySprint(tasks, sprints)
	}

	views := make([]SprintView, 0, len(sprints))
	for _, s := range sprints {
		var sprintTasks []store.Task
		if inferred {
			sprintTasks = bucketed[s.Number]
		} else {
			for _, id := range membership[s.Number] {
				if t, ok := byID[id]; ok {
					sprintTasks = append(sprintTasks, t)
				}
			}
		}
		views = append(views, renderSprint(s, sprintTasks, inferred, now))
	}
	return views
}

func renderSprint(s store.Sprint, tasks []store.Task, inferred bool, now time.Time) SprintView {
	completed := 0
	breakdown := make(map[string]int)
	for _, t := range tasks {
		if t.Status == store.TaskCompleted {
			completed++
			if t.Agent != nil {
				breakdown[*t.Agent]++
			}
		}
	}

	status := sprintStatus(s, now)
	percent := 0
	if len(tasks) > 0 {
		percent = completed * 100 / len(tasks)
	} else if status == SprintComplete {
		percent = 100
	}

	return SprintView{
		Number:         s.Number,
		Start:          s.Start,
		End:            s.End,
		Goal:           s.Goal,
		Status:         status,
		TaskCount:      len(tasks),
		CompletedCount: completed,
		ProgressBar:    renderBar(percent, barWidth),
		AgentBreakdown: breakdown,
		Inferred:       inferred,
	}
}

func sprintStatus(s store.Sprint, now time.Time) SprintStatus {
	switch {
	case now.After(s.End):
		return SprintComplete
	case now.Before(s.Start):
		return SprintFuture
	default:
		return SprintInProgress
	}
}

func renderBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := width * percent / 100
	return fmt.Sprintf("%s%s %d%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), percent)
}

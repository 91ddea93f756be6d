package timeline

import (
	"time"

	"github.com/taskweave/orchestrator/internal/store"
)

// Report bundles the three timeline views the dashboard and CLI
// surface together, built from a single set of store reads.
type Report struct {
	Sprints    []SprintView
	Velocity   VelocityReport
	Completion CompletionEstimate
	Burndown   Burndown
}

// Load reads sprints and tasks once and derives every timeline view.
func Load(db *store.DB, now time.Time) (Report, error) {
	tasks, err := db.ListTasks()
	if err != nil {
		return Report{}, err
	}

	explicit, err := db.ListSprints()
	if err != nil {
		return Report{}, err
	}

	membership := make(map[int][]int64, len(explicit))
	for _, s := range explicit {
		ids, err := db.SprintTasks(s.Number)
		if err != nil {
			return Report{}, err
		}
		membership[s.Number] = ids
	}

	views := BuildSprintViews(explicit, membership, tasks, now)
	velocity := Velocity(views, 0)

	remaining := 0
	for _, t := range tasks {
		if t.Status != store.TaskCompleted && t.Status != store.TaskCancelled {
			remaining++
		}
	}
	completion := EstimateCompletion(remaining, velocity)
	burndown := BuildBurndown(tasks, now)

	return Report{
		Sprints:    views,
		Velocity:   velocity,
		Completion: completion,
		Burndown:   burndown,
	}, nil
}

package timeline

import (
	"sort"
	"time"

	"github.com/taskweave/orchestrator/internal/store"
)

// completionWeekMonday returns the Monday of t's week at midnight UTC,
// the bucket key spec §4.5's sprint inference uses.
func completionWeekMonday(t time.Time) time.Time {
	t = t.UTC()
	offset := int(t.Weekday())
	if offset == 0 { // Sunday -> back 6 days to Monday
		offset = 6
	} else {
		offset--
	}
	monday := t.AddDate(0, 0, -offset)
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, time.UTC)
}

// InferSprints buckets completed tasks by the Monday of their
// completion week (UpdatedAt, the only completion timestamp the store
// carries) when no explicit sprints exist, numbering buckets in
// chronological order starting at 1.
func InferSprints(tasks []store.Task) []store.Sprint {
	buckets := make(map[time.Time][]store.Task)
	for _, t := range tasks {
		if t.Status != store.TaskCompleted {
			continue
		}
		key := completionWeekMonday(t.UpdatedAt)
		buckets[key] = append(buckets[key], t)
	}

	var weeks []time.Time
	for w := range buckets {
		weeks = append(weeks, w)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })

	sprints := make([]store.Sprint, 0, len(weeks))
	for i, w := range weeks {
		sprints = append(sprints, store.Sprint{
			Number: i + 1,
			Start:  w,
			End:    w.AddDate(0, 0, 6),
		})
	}
	return sprints
}

// inferredTasksBySprint re-derives the bucket membership InferSprints
// used, for callers that need the task list per inferred sprint
// without recomputing the bucket boundaries themselves.
func inferredTasksBySprint(tasks []store.Task, sprints []store.Sprint) map[int][]store.Task {
	byNumber := make(map[int][]store.Task, len(sprints))
	for _, t := range tasks {
		if t.Status != store.TaskCompleted {
			continue
		}
		key := completionWeekMonday(t.UpdatedAt)
		for _, s := range sprints {
			if key.Equal(s.Start) {
				byNumber[s.Number] = append(byNumber[s.Number], t)
				break
			}
		}
	}
	return byNumber
}

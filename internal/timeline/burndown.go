package timeline

import (
	"sort"
	"time"

	"github.com/taskweave/orchestrator/internal/store"
)

const (
	burndownRows = 10
	burndownCols = 50
)

// BuildBurndown derives a daily remaining-task count from each task's
// CreatedAt/UpdatedAt timestamps (the store keeps no separate daily
// snapshot history) and buckets it into the fixed 10x50 grid spec §4.5
// requires for a terminal-safe burndown chart. A task counts as
// "remaining" on a given day if it existed by end of that day and had
// not yet completed by then.
func BuildBurndown(tasks []store.Task, now time.Time) Burndown {
	if len(tasks) == 0 {
		return Burndown{Start: now, End: now}
	}

	start := tasks[0].CreatedAt
	for _, t := range tasks {
		if t.CreatedAt.Before(start) {
			start = t.CreatedAt
		}
	}
	start = dayStart(start)
	end := dayStart(now)
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}

	totalDays := int(end.Sub(start).Hours()/24) + 1
	cols := totalDays
	if cols > burndownCols {
		cols = burndownCols
	}
	if cols < 1 {
		cols = 1
	}

	sampleDays := sampleDates(start, end, cols)
	counts := make([]int, len(sampleDays))
	max := 0
	for i, day := range sampleDays {
		counts[i] = remainingAsOf(tasks, day)
		if counts[i] > max {
			max = counts[i]
		}
	}

	var b Burndown
	b.Start = start
	b.End = end
	b.Max = max
	if max == 0 {
		return b
	}
	for col, count := range counts {
		if col >= burndownCols {
			break
		}
		height := count * burndownRows / max
		if height > burndownRows {
			height = burndownRows
		}
		for row := 0; row < height; row++ {
			b.Grid[burndownRows-1-row][col] = true
		}
	}
	return b
}

func remainingAsOf(tasks []store.Task, day time.Time) int {
	endOfDay := day.AddDate(0, 0, 1)
	remaining := 0
	for _, t := range tasks {
		if !t.CreatedAt.Before(endOfDay) {
			continue
		}
		if t.Status == store.TaskCompleted && t.UpdatedAt.Before(endOfDay) {
			continue
		}
		remaining++
	}
	return remaining
}

func sampleDates(start, end time.Time, n int) []time.Time {
	if n <= 1 {
		return []time.Time{end}
	}
	totalDays := int(end.Sub(start).Hours() / 24)
	out := make([]time.Time, n)
	for i := 0; i < n; i++ {
		offset := totalDays * i / (n - 1)
		out[i] = start.AddDate(0, 0, offset)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

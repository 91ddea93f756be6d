package notify

import (
	"fmt"
	"sort"
	"time"

	"github.com/taskweave/orchestrator/internal/store"
)

// defaultMilestones mirrors config.Default()'s Notifications.Milestones;
// NewDetector falls back to these when none are supplied.
var defaultMilestones = []int{25, 50, 75, 100}

// Detector holds the state spec §4.3.5 requires: the set of tasks
// already seen completed, the set of agents already seen blocked, the
// last overall-progress percentage, a per-agent rate-limit clock, and
// a one-shot latch per milestone threshold. A zero Detector is not
// usable; construct with NewDetector.
type Detector struct {
	milestones  []int
	rateLimit   time.Duration
	now         func() time.Time

	completedTasks map[int64]bool
	blockedAgents  map[string]bool
	lastPercent    int
	lastNotified   map[string]time.Time
	latched        map[int]bool
	seeded         bool
}

// NewDetector builds a Detector. milestones defaults to {25,50,75,100}
// when nil or empty; rateLimit defaults to 60s when zero, matching
// config.Default().
func NewDetector(milestones []int, rateLimit time.Duration) *Detector {
	if len(milestones) == 0 {
		milestones = defaultMilestones
	}
	if rateLimit <= 0 {
		rateLimit = 60 * time.Second
	}
	sorted := append([]int(nil), milestones...)
	sort.Ints(sorted)
	return &Detector{
		milestones:     sorted,
		rateLimit:      rateLimit,
		now:            time.Now,
		completedTasks: make(map[int64]bool),
		blockedAgents:  make(map[string]bool),
		lastNotified:   make(map[string]time.Time),
		latched:        make(map[int]bool),
	}
}

// Diff compares snap against the Detector's prior observations and
// returns the notifications that survive the rate limit and milestone
// latch. It updates internal state unconditionally, including on the
// very first call, so seeding a Detector with a snapshot that already
// contains completed tasks or blocked agents does not itself emit
// notifications for pre-existing state (spec §4.3.5 only fires on
// newly observed transitions).
func (d *Detector) Diff(snap store.Snapshot) []Notification {
	first := !d.seeded
	d.seeded = true

	var out []Notification

	for _, t := range snap.Tasks {
		if t.Status != store.TaskCompleted {
			continue
		}
		if d.completedTasks[t.ID] {
			continue
		}
		d.completedTasks[t.ID] = true
		if first {
			continue
		}
		agentID := ""
		if t.Agent != nil {
			agentID = *t.Agent
		}
		if d.rateLimited(agentID) {
			continue
		}
		out = append(out, Notification{
			Kind:    KindTaskComplete,
			AgentID: agentID,
			TaskID:  t.ID,
			Title:   "Task complete",
			Message: fmt.Sprintf("task %d (%s) completed", t.ID, t.Title),
		})
		d.markNotified(agentID)
	}

	for _, a := range snap.Agents {
		if a.Status != store.AgentBlocked {
			d.blockedAgents[a.ID] = false
			continue
		}
		if d.blockedAgents[a.ID] {
			continue
		}
		d.blockedAgents[a.ID] = true
		if first {
			continue
		}
		if d.rateLimited(a.ID) {
			continue
		}
		out = append(out, Notification{
			Kind:    KindAgentError,
			AgentID: a.ID,
			Title:   "Agent blocked",
			Message: fmt.Sprintf("agent %s is blocked", a.ID),
		})
		d.markNotified(a.ID)
	}

	percent := overallPercent(snap.Tasks)
	for _, m := range d.milestones {
		if d.latched[m] {
			continue
		}
		if percent < m {
			continue
		}
		d.latched[m] = true
		if first {
			continue
		}
		out = append(out, Notification{
			Kind:    KindMilestone,
			Title:   "Milestone reached",
			Message: fmt.Sprintf("%d%% of tasks complete", m),
		})
	}
	d.lastPercent = percent

	return out
}

func (d *Detector) rateLimited(agentID string) bool {
	if agentID == "" {
		return false
	}
	last, ok := d.lastNotified[agentID]
	if !ok {
		return false
	}
	return d.now().Sub(last) < d.rateLimit
}

func (d *Detector) markNotified(agentID string) {
	if agentID == "" {
		return
	}
	d.lastNotified[agentID] = d.now()
}

func overallPercent(tasks []store.Task) int {
	if len(tasks) == 0 {
		return 0
	}
	completed := 0
	for _, t := range tasks {
		if t.Status == store.TaskCompleted {
			completed++
		}
	}
	return completed * 100 / len(tasks)
}

package reconcile

import (
	"sort"

	"github.com/taskweave/orchestrator/internal/store"
)

// Planner turns a ScanResult plus the current store snapshot into an
// ordered, deduplicated list of Proposals. Planning is pure: it never
// touches the database. Grounded on the teacher's internal/supervisor/
// planner.go analyze-then-propose shape, replacing its deployment-
// strategy output with the completion-reconciliation proposals §4.2
// defines.
type Planner struct{}

// NewPlanner builds a stateless Planner.
func NewPlanner() *Planner { return &Planner{} }

// Plan produces proposals from scan against snap. Proposals are sorted by
// (task_id, kind) and deduplicated, satisfying the determinism law in
// spec §8.
func (p *Planner) Plan(scan ScanResult, snap store.Snapshot) []Proposal {
	tasksByID := make(map[int64]store.Task, len(snap.Tasks))
	for _, t := range snap.Tasks {
		tasksByID[t.ID] = t
	}

	var proposals []Proposal
	seen := make(map[int64]bool) // tasks already proposed MarkComplete/NoOp from a doc

	for _, doc := range scan.Docs {
		if seen[doc.TaskID] {
			continue
		}
		task, exists := tasksByID[doc.TaskID]
		if !exists {
			continue
		}
		seen[doc.TaskID] = true

		if task.Status == store.TaskCompleted {
			proposals = append(proposals, Proposal{
				Kind: NoOp, TaskID: doc.TaskID, Source: doc, Reason: NoOpReasonAlreadyComplete,
			})
			continue
		}

		// The store is authoritative when its own updated_at is newer than
		// the artifact's timestamp: a manual update should not be clobbered
		// by an older, inferred completion record.
		if task.UpdatedAt.After(doc.CompletedAt) {
			proposals = append(proposals, Proposal{Kind: NoOp, TaskID: doc.TaskID, Source: doc})
			continue
		}

		agentID := doc.AgentID
		if agentID == "" && task.Agent != nil {
			agentID = *task.Agent
		}
		proposals = append(proposals, Proposal{Kind: MarkComplete, TaskID: doc.TaskID, AgentID: agentID, Source: doc})
	}

	// FlagMissingDoc: a completed task with auto_completed=false, no
	// completion_doc_path ever recorded, and no artifact in this scan has
	// nothing backing it up, for operator review (§4.2 edge case: never
	// auto-uncomplete).
	for _, t := range snap.Tasks {
		if t.Status == store.TaskCompleted && !t.AutoCompleted && t.CompletionDocPath == nil && !seen[t.ID] {
			proposals = append(proposals, Proposal{Kind: FlagMissingDoc, TaskID: t.ID})
		}
	}

	// UnblockTaskByDependency: a task marked blocked whose dependencies are
	// now all complete.
	for _, t := range snap.Tasks {
		if t.Status != store.TaskBlocked {
			continue
		}
		allComplete := true
		for _, depID := range snap.Dependencies[t.ID] {
			if dep, ok := tasksByID[depID]; !ok || dep.Status != store.TaskCompleted {
				allComplete = false
				break
			}
		}
		if allComplete {
			proposals = append(proposals, Proposal{Kind: UnblockTaskByDependency, TaskID: t.ID})
		}
	}

	// IdleAgent: an agent still marked working against a task that no
	// longer exists or has already completed through some other path
	// (e.g. a batch completion that raced the agent's own status update).
	// The agent's own current_task pointer is stale; the task referenced,
	// not the agent, keys the proposal so it sorts and dedupes alongside
	// every other task-scoped proposal.
	for _, a := range snap.Agents {
		if a.Status != store.AgentWorking || a.CurrentTask == nil {
			continue
		}
		task, exists := tasksByID[*a.CurrentTask]
		if !exists || task.Status == store.TaskCompleted {
			proposals = append(proposals, Proposal{Kind: IdleAgent, TaskID: *a.CurrentTask, AgentID: a.ID})
		}
	}

	sort.SliceStable(proposals, func(i, j int) bool {
		if proposals[i].TaskID != proposals[j].TaskID {
			return proposals[i].TaskID < proposals[j].TaskID
		}
		return proposals[i].Kind < proposals[j].Kind
	})
	return dedupe(proposals)
}

func dedupe(proposals []Proposal) []Proposal {
	type key struct {
		taskID int64
		kind   ProposalKind
	}
	seen := make(map[key]bool, len(proposals))
	out := proposals[:0]
	for _, p := range proposals {
		k := key{p.TaskID, p.Kind}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return out
}

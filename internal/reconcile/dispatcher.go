package reconcile

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/taskweave/orchestrator/internal/events"
	"github.com/taskweave/orchestrator/internal/orcherr"
	"github.com/taskweave/orchestrator/internal/store"
)

// Result is what Apply returns: the plan it acted on (or would have acted
// on, in DryRun) plus which proposals were actually applied. RunID is
// attached to every log line this one Apply/BatchComplete call emits, and
// to the activity-event message of each batch completion, for operators
// grepping logs across a run.
type Result struct {
	Mode      Mode
	Proposals []Proposal
	Applied   []Proposal
	RunID     string
}

// Dispatcher executes a plan against the store. In DryRun it is a no-op
// reporter; in Apply it applies every MarkComplete, UnblockTaskByDependency
// and IdleAgent proposal in order, each through its own store call and
// transaction. A failure stops the loop and is returned; proposals applied
// before it stay applied. Only BatchComplete runs in a single transaction.
type Dispatcher struct {
	db   *store.DB
	bus  *events.Bus
	log  zerolog.Logger
}

// NewDispatcher builds a Dispatcher writing through db and publishing
// task_complete events on bus.
func NewDispatcher(db *store.DB, bus *events.Bus, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{db: db, bus: bus, log: log}
}

// Apply executes proposals according to mode. Every log line this call
// emits carries a single run_id, a correlation identifier an operator can
// grep across otherwise-identical log lines from separate invocations.
func (d *Dispatcher) Apply(proposals []Proposal, mode Mode) (Result, error) {
	runID := uuid.NewString()
	result := Result{Mode: mode, Proposals: proposals, RunID: runID}
	if mode == DryRun {
		return result, nil
	}
	runLog := d.log.With().Str("run_id", runID).Logger()

	for _, p := range proposals {
		switch p.Kind {
		case MarkComplete:
			if err := d.applyMarkComplete(p); err != nil {
				if orcherr.Is(err, orcherr.AlreadyApplied) {
					runLog.Info().Int64("task_id", p.TaskID).Msg("already complete, skipping")
					continue
				}
				return result, fmt.Errorf("apply MarkComplete(%d): %w", p.TaskID, err)
			}
			result.Applied = append(result.Applied, p)
		case UnblockTaskByDependency:
			if err := d.db.UpdateStatus(p.TaskID, store.TaskPending); err != nil {
				return result, fmt.Errorf("apply Unblock(%d): %w", p.TaskID, err)
			}
			result.Applied = append(result.Applied, p)
		case IdleAgent:
			if err := d.db.FreeAgent(p.AgentID); err != nil {
				return result, fmt.Errorf("apply IdleAgent(%s): %w", p.AgentID, err)
			}
			runLog.Info().Str("agent_id", p.AgentID).Int64("stale_task_id", p.TaskID).Msg("freed agent idling against a stale task")
			result.Applied = append(result.Applied, p)
		case FlagMissingDoc, NoOp:
			// Informational only; no store mutation.
		}
	}
	return result, nil
}

func (d *Dispatcher) applyMarkComplete(p Proposal) error {
	var agentID *string
	if p.AgentID != "" {
		agentID = &p.AgentID
	}
	path := p.Source.Path
	source := store.SourceFilesystem
	if p.Source.Source == SourceCommit {
		source = store.SourceCommit
	}

	var docPath, commitHash *string
	if p.Source.Source == SourceCommit {
		commitHash = &path
	} else {
		docPath = &path
	}

	if err := d.db.Complete(p.TaskID, docPath, &source, commitHash, true); err != nil {
		return err
	}

	_, err := events.Log(d.db, d.bus, store.ActivityTaskComplete, &p.TaskID, agentID, fmt.Sprintf("completed via %s %s", p.Source.Source, path))
	return err
}

// BatchComplete validates every record, then applies all of them in a
// single transaction. Partial success is never permitted: if any record
// references a missing task or agent, nothing in the batch is written
// (spec §4.2 "Batch completion"). Activity events are only logged for
// records that actually transitioned a task to complete; a record that
// names an already-completed task is a no-op and must not emit a
// duplicate task_complete event.
func (d *Dispatcher) BatchComplete(records []BatchRecord) error {
	runID := uuid.NewString()
	runLog := d.log.With().Str("run_id", runID).Logger()
	runLog.Debug().Int("records", len(records)).Msg("starting batch completion")

	var toPublish []store.ActivityEvent

	err := d.db.WithTx(context.Background(), func(tx *sql.Tx) error {
		for _, r := range records {
			if _, err := store.GetTaskTx(tx, r.TaskID); err != nil {
				return fmt.Errorf("batch validation failed for task %d: %w", r.TaskID, err)
			}
			if r.AgentID != "" {
				if _, err := store.GetAgentTx(tx, r.AgentID); err != nil {
					return fmt.Errorf("batch validation failed for agent %q: %w", r.AgentID, err)
				}
			}
		}

		for _, r := range records {
			source := store.SourceFilesystem
			transitioned, err := store.CompleteTx(tx, r.TaskID, nil, &source, nil, false)
			if err != nil {
				return fmt.Errorf("apply batch record for task %d: %w", r.TaskID, err)
			}
			if !transitioned {
				continue
			}

			var agentID *string
			if r.AgentID != "" {
				agentID = &r.AgentID
			}
			event, err := store.RecordEventTx(tx, store.ActivityTaskComplete, &r.TaskID, agentID, fmt.Sprintf("completed via batch (run %s)", runID))
			if err != nil {
				return fmt.Errorf("log batch completion for task %d: %w", r.TaskID, err)
			}
			toPublish = append(toPublish, event)
		}
		return nil
	})
	if err != nil {
		runLog.Warn().Err(err).Msg("batch completion aborted")
		return err
	}

	for _, event := range toPublish {
		d.bus.Publish(event)
	}
	runLog.Info().Int("completed", len(toPublish)).Msg("batch completion applied")
	return nil
}

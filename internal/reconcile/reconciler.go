package reconcile

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskweave/orchestrator/internal/events"
	"github.com/taskweave/orchestrator/internal/store"
)

// Reconciler wires a Scanner, Planner, and Dispatcher into the single
// sync() operation the `sync` and `reconcile` CLI commands drive, and the
// file watcher invokes per-document.
type Reconciler struct {
	db        *store.DB
	scanner   *Scanner
	planner   *Planner
	dispatcher *Dispatcher
	log       zerolog.Logger
}

// New builds a Reconciler rooted at docsRoot, writing through db and
// publishing activity events on bus.
func New(db *store.DB, bus *events.Bus, docsRoot string, log zerolog.Logger) *Reconciler {
	return &Reconciler{
		db:         db,
		scanner:    NewScanner(docsRoot, log),
		planner:    NewPlanner(),
		dispatcher: NewDispatcher(db, bus, log),
		log:        log,
	}
}

// Sync scans the documentation root, plans against the current store
// state, and applies (or reports, in DryRun) the result.
func (r *Reconciler) Sync(mode Mode) (Result, error) {
	scan, err := r.scanner.Scan()
	if err != nil {
		return Result{}, fmt.Errorf("scan documentation root: %w", err)
	}

	snap, err := r.db.TakeSnapshot(0)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot store: %w", err)
	}

	proposals := r.planner.Plan(scan, snap)
	return r.dispatcher.Apply(proposals, mode)
}

// SyncFile restricts scan+plan+apply to a single completion artifact, the
// path the file watcher takes for a debounced filesystem event (spec
// §4.3.2: "invokes the reconciliation engine in Apply mode restricted to
// that single document").
func (r *Reconciler) SyncFile(basename string) (Result, error) {
	doc, ok, err := r.scanner.ScanFile(basename)
	if err != nil {
		return Result{}, fmt.Errorf("scan %s: %w", basename, err)
	}
	if !ok {
		return Result{}, nil
	}

	snap, err := r.db.TakeSnapshot(0)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot store: %w", err)
	}

	proposals := r.planner.Plan(ScanResult{Docs: []CompletionDoc{doc}}, snap)
	return r.dispatcher.Apply(proposals, Apply)
}

// BatchComplete delegates to the Dispatcher's all-or-nothing batch apply.
func (r *Reconciler) BatchComplete(records []BatchRecord) error {
	return r.dispatcher.BatchComplete(records)
}

// SyncFromGit feeds CompletionDoc records derived from commit history
// through the same plan/apply pipeline as the filesystem scanner.
func (r *Reconciler) SyncFromGit(docs []CompletionDoc, mode Mode) (Result, error) {
	snap, err := r.db.TakeSnapshot(0)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot store: %w", err)
	}
	proposals := r.planner.Plan(ScanResult{Docs: docs}, snap)
	return r.dispatcher.Apply(proposals, mode)
}

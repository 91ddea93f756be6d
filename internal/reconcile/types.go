// Package reconcile converges store state with external evidence: files
// in the documentation root and, optionally, commit history. It is the
// single hardest algorithm in the module (spec §4.2), generalized from
// the teacher's internal/supervisor scan/plan/dispatch pipeline.
package reconcile

import "time"

// DocSource distinguishes a filesystem completion artifact from a commit.
type DocSource int

const (
	SourceFile DocSource = iota
	SourceCommit
)

func (s DocSource) String() string {
	if s == SourceCommit {
		return "commit"
	}
	return "file"
}

// CompletionDoc is one piece of evidence that a task was completed,
// extracted either from a filename/front-matter pair or a commit message.
type CompletionDoc struct {
	TaskID      int64
	AgentID     string // empty if not inferable
	CompletedAt time.Time
	Source      DocSource
	Path        string // file path, or commit hash
}

// ProposalKind is the tagged-variant discriminator for Proposal.
type ProposalKind int

const (
	MarkComplete ProposalKind = iota
	FlagMissingDoc
	IdleAgent
	UnblockTaskByDependency
	NoOp
)

func (k ProposalKind) String() string {
	switch k {
	case MarkComplete:
		return "mark_complete"
	case FlagMissingDoc:
		return "flag_missing_doc"
	case IdleAgent:
		return "idle_agent"
	case UnblockTaskByDependency:
		return "unblock"
	default:
		return "no_op"
	}
}

// NoOpReason explains why a proposal degenerated to NoOp. It is carried on
// the Proposal; the CLI's printed plan shows only kind and task ID.
type NoOpReason int

const (
	NoOpReasonNone NoOpReason = iota
	NoOpReasonAlreadyComplete
)

// Proposal is one planned mutation, or the explicit absence of one.
type Proposal struct {
	Kind     ProposalKind
	TaskID   int64
	AgentID  string
	Source   CompletionDoc
	Reason   NoOpReason
}

// Mode selects whether Apply mutates the store or only reports the plan.
type Mode int

const (
	DryRun Mode = iota
	Apply
)

// ScanResult is the full evidence set produced by one scan() call.
type ScanResult struct {
	Docs []CompletionDoc
}

// BatchRecord is one row of a complete-batch request: (task, agent,
// optional timestamp).
type BatchRecord struct {
	TaskID      int64
	AgentID     string
	CompletedAt *time.Time
}

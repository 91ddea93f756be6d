// Package orcherr defines the error taxonomy shared by every component:
// store mutators, the reconciler, the notifier, and the CLI command layer
// all classify failures into one of these kinds so the error-context
// formatter and the command handler can react without string matching.
package orcherr

import (
	"errors"
	"fmt"
)

// Kind classifies an error into one of the taxonomy's semantic buckets.
type Kind string

const (
	// NotFound means a requested task, agent, or file does not exist.
	NotFound Kind = "not_found"
	// InvalidArgument means a malformed identifier or out-of-range value.
	InvalidArgument Kind = "invalid_argument"
	// Conflict means a dependency cycle, duplicate identifier, or a batch
	// record that references state that vanished mid-batch.
	Conflict Kind = "conflict"
	// AlreadyApplied means the requested mutation already happened;
	// informational, never a hard failure.
	AlreadyApplied Kind = "already_applied"
	// External means filesystem I/O, VCS reads, notification delivery, or
	// child-process launch failed.
	External Kind = "external"
	// Bug means an invariant was violated; logged with full context.
	Bug Kind = "bug"
)

// Error wraps an underlying cause with a taxonomy Kind plus the identifier
// that triggered it, so the error-context formatter can build suggestions
// without re-parsing the message string.
type Error struct {
	Kind    Kind
	Subject string // the task/agent identifier or field name involved
	Err     error
}

func (e *Error) Error() string {
	if e.Subject != "" {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Subject, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an Error of the given kind.
func New(kind Kind, subject string, err error) *Error {
	return &Error{Kind: kind, Subject: subject, Err: err}
}

// Newf builds an Error of the given kind from a format string.
func Newf(kind Kind, subject, format string, args ...any) *Error {
	return &Error{Kind: kind, Subject: subject, Err: fmt.Errorf(format, args...)}
}

// Is reports whether the first *Error in err's chain has the given Kind;
// an *Error nested deeper under it is not consulted.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the Kind from err, or "" if err does not carry one.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

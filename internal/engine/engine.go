// Package engine drives the system git binary for history-rewriting
// operations and translates raw results into structured outcomes.
//
// The package is organized into focused modules:
//   - engine.go: Engine interface, Outcome, Progress, parameter structs
//   - cli.go: CLI implementation, executor plumbing, merge operations
//   - rebase.go: rebase start/continue/skip/abort, sequence editor script
//   - pick.go: cherry-pick and revert operations
//   - mailbox.go: git am operations
//   - resolve.go: per-path conflict resolution staging
//   - classify.go: output-to-Outcome classification
//   - giterror.go: GitError
package engine

import (
	"context"

	"github.com/regraft/regraft/internal/conflict"
)

// Outcome is the result of any engine call that can change operation state.
// The lifecycle controller interprets it; the engine only reports.
type Outcome struct {
	// Success is true when git exited cleanly.
	Success bool

	// Message is a human-readable summary. On failure it carries git's
	// output verbatim.
	Message string

	// Conflicts is non-empty when the operation stopped on conflicts.
	Conflicts []conflict.File

	// RequiresEdit is true when the operation paused for user input that is
	// not conflict resolution (interactive rebase edit stops).
	RequiresEdit bool
}

// Progress is the position of an in-flight rebase, re-read from the
// repository rather than assumed.
type Progress struct {
	Current   int
	Total     int
	StoppedAt string // OID the rebase stopped at, empty if unknown
}

// InProgressKind identifies an operation found already in flight on disk.
type InProgressKind int

const (
	InProgressNone InProgressKind = iota
	InProgressMerge
	InProgressRebase
	InProgressCherryPick
	InProgressRevert
	InProgressMailbox
)

// String returns the git-facing name of the in-progress operation.
func (k InProgressKind) String() string {
	switch k {
	case InProgressMerge:
		return "merge"
	case InProgressRebase:
		return "rebase"
	case InProgressCherryPick:
		return "cherry-pick"
	case InProgressRevert:
		return "revert"
	case InProgressMailbox:
		return "am"
	default:
		return "none"
	}
}

// MergeParams describes a merge start. Message is optional; empty means git's
// default merge commit message.
type MergeParams struct {
	Branch            string
	NoFastForward     bool
	FFOnly            bool
	Squash            bool
	CommitImmediately bool
	Message           string
}

// RebaseParams describes a rebase start. Onto is a resolved revision
// (branch name or commit OID). EditCommits lists OIDs whose todo entries are
// rewritten from pick to edit, producing pause points.
type RebaseParams struct {
	Onto        string
	Interactive bool
	Autostash   bool
	EditCommits []string
}

// PickParams describes a cherry-pick start over an ordered OID sequence.
type PickParams struct {
	OIDs []string
}

// RevertParams describes a revert start over an ordered OID sequence.
type RevertParams struct {
	OIDs []string
}

// MailboxParams describes a git am start over an ordered list of patch files.
type MailboxParams struct {
	Paths []string
}

// Engine is the adapter boundary between the lifecycle controller and git.
// Start/continue/skip calls return an Outcome; abort calls return an error
// that the controller downgrades to a warning.
type Engine interface {
	Merge(ctx context.Context, p MergeParams) Outcome
	MergeContinue(ctx context.Context) Outcome
	MergeAbort(ctx context.Context) error

	Rebase(ctx context.Context, p RebaseParams) Outcome
	RebaseContinue(ctx context.Context) Outcome
	RebaseSkip(ctx context.Context) Outcome
	RebaseAbort(ctx context.Context) error

	CherryPick(ctx context.Context, p PickParams) Outcome
	CherryPickContinue(ctx context.Context) Outcome
	CherryPickSkip(ctx context.Context) Outcome
	CherryPickAbort(ctx context.Context) error

	Revert(ctx context.Context, p RevertParams) Outcome
	RevertContinue(ctx context.Context) Outcome
	RevertAbort(ctx context.Context) error

	ApplyMailbox(ctx context.Context, p MailboxParams) Outcome
	MailboxContinue(ctx context.Context) Outcome
	MailboxSkip(ctx context.Context) Outcome
	MailboxAbort(ctx context.Context) error

	// Resolve applies a side choice for one conflicted path and stages it.
	Resolve(ctx context.Context, path string, r conflict.Resolution) error

	// RebaseProgress re-reads step counts and the stopped-at OID from the
	// repository. Valid while a rebase is in flight.
	RebaseProgress(ctx context.Context) (Progress, error)

	// InProgress reports an operation already in flight on disk.
	InProgress(ctx context.Context) (InProgressKind, bool)
}

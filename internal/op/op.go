package op

// Kind identifies which history-rewriting operation a session runs.
type Kind int

const (
	KindNone Kind = iota
	KindMerge
	KindRebase
	KindCherryPick
	KindRevert
	KindPatchApply
)

// String returns the user-facing name of the operation.
func (k Kind) String() string {
	switch k {
	case KindMerge:
		return "merge"
	case KindRebase:
		return "rebase"
	case KindCherryPick:
		return "cherry-pick"
	case KindRevert:
		return "revert"
	case KindPatchApply:
		return "patch apply"
	default:
		return "none"
	}
}

// Status is the lifecycle state of an operation session.
type Status int

const (
	// StatusIdle means no session exists. Zero value.
	StatusIdle Status = iota

	// StatusRunning means the initial engine call is in flight.
	StatusRunning

	// StatusConflicted means the operation stopped on conflicts that need
	// resolution before it can continue.
	StatusConflicted

	// StatusPaused means an interactive rebase stopped deliberately for the
	// user to amend a commit. Not a conflict.
	StatusPaused

	// StatusResuming means a continue or skip call is in flight.
	StatusResuming

	// StatusCompleted means the operation finished. Terminal.
	StatusCompleted

	// StatusAborted means the user abandoned the operation. Terminal.
	StatusAborted

	// StatusFailed means the engine reported an error. Terminal, but still
	// abortable so the user can clean up on-disk operation state.
	StatusFailed
)

// String returns the lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusConflicted:
		return "conflicted"
	case StatusPaused:
		return "paused"
	case StatusResuming:
		return "resuming"
	case StatusCompleted:
		return "completed"
	case StatusAborted:
		return "aborted"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has finished and awaits dismissal.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusAborted || s == StatusFailed
}

// Busy reports whether an engine call is currently in flight.
func (s Status) Busy() bool {
	return s == StatusRunning || s == StatusResuming
}

// Resumable reports whether the session is stopped waiting for a continue or
// skip.
func (s Status) Resumable() bool {
	return s == StatusConflicted || s == StatusPaused
}

// Abortable reports whether Abort is a legal transition. Failed is included:
// a failed operation may leave state on disk that abort cleans up.
func (s Status) Abortable() bool {
	switch s {
	case StatusRunning, StatusConflicted, StatusPaused, StatusResuming, StatusFailed:
		return true
	default:
		return false
	}
}

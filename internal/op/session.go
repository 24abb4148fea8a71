package op

import (
	"time"

	"github.com/regraft/regraft/internal/conflict"
	"github.com/regraft/regraft/internal/engine"
)

// Session is a snapshot of one operation. The zero value is the Idle session.
// Controllers hand out copies; mutating a Session never affects the
// controller's state.
type Session struct {
	// ID is unique per started operation.
	ID string

	Kind   Kind
	Status Status

	// Target is a short description of what the operation acts on: a branch
	// name, an abbreviated commit id, or a patch count.
	Target string

	// Options are the normalized options the operation started with.
	Options Options

	// Conflicts is non-empty only while Status is Conflicted. Order follows
	// the engine's conflict scan.
	Conflicts []conflict.File

	// Progress is set for a stopped rebase and re-read from the repository
	// after every transition; a single continue may advance several steps.
	Progress *engine.Progress

	// LastMessage is the human-readable text of the most recent engine call,
	// or the abort warning when engine-side cleanup failed.
	LastMessage string

	StartedAt time.Time
	UpdatedAt time.Time
}

// clone deep-copies the session for handing to subscribers.
func (s Session) clone() Session {
	out := s
	out.Options = s.Options.clone()
	if s.Conflicts != nil {
		out.Conflicts = append([]conflict.File(nil), s.Conflicts...)
	}
	if s.Progress != nil {
		p := *s.Progress
		out.Progress = &p
	}
	return out
}

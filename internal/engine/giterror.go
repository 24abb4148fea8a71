package engine

import (
	"errors"
	"fmt"
	"strings"
)

// GitError wraps a failed git invocation with its arguments and output.
type GitError struct {
	Args   []string
	Output string
	Err    error
}

// Error returns the command and the first line of its output.
func (e *GitError) Error() string {
	first := e.Output
	if i := strings.IndexByte(first, '\n'); i >= 0 {
		first = first[:i]
	}
	first = strings.TrimSpace(first)
	if first == "" {
		return fmt.Sprintf("git %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("git %s: %s", strings.Join(e.Args, " "), first)
}

// Unwrap returns the underlying error.
func (e *GitError) Unwrap() error {
	return e.Err
}

// noOperationSentinels are git's responses to aborting when nothing is in
// flight. Abort is best-effort; these downgrade to a no-op.
var noOperationSentinels = []string{
	"There is no merge to abort",
	"no rebase in progress",
	"no cherry-pick or revert in progress",
	"Resolve operation not in progress",
}

// IsNoOperation reports whether err is git telling us there was nothing to
// abort.
func IsNoOperation(err error) bool {
	var ge *GitError
	if !errors.As(err, &ge) {
		return false
	}
	for _, s := range noOperationSentinels {
		if strings.Contains(ge.Output, s) {
			return true
		}
	}
	return false
}

// Package errors provides structured error types for the regraft application.
// These errors provide context about what operation failed and where.
package errors

import (
	"errors"
	"fmt"
)

// Op describes an operation, usually as "package.function".
type Op string

// Kind categorizes the type of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindNotFound
	KindValidation
	KindSessionBusy
	KindPermission
	KindIO
	KindConfig
	KindGit
	KindAbortFailure
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindValidation:
		return "validation error"
	case KindSessionBusy:
		return "operation already in progress"
	case KindPermission:
		return "permission denied"
	case KindIO:
		return "I/O error"
	case KindConfig:
		return "configuration error"
	case KindGit:
		return "git error"
	case KindAbortFailure:
		return "abort failure"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown error"
	}
}

// Error is the structured error type for regraft.
type Error struct {
	Op      Op     // Operation that failed
	Kind    Kind   // Category of error
	Err     error  // Underlying error
	Context string // Additional context
}

// Error returns the error message.
func (e *Error) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Context, e.Err)
	}
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// E creates a new Error. Arguments can be:
// - Op: the operation name
// - Kind: the error kind
// - string: context message
// - error: the underlying error
func E(args ...interface{}) error {
	e := &Error{}
	for _, arg := range args {
		switch a := arg.(type) {
		case Op:
			e.Op = a
		case Kind:
			e.Kind = a
		case string:
			e.Context = a
		case error:
			e.Err = a
		}
	}
	if e.Err == nil {
		e.Err = errors.New(e.Context)
		e.Context = ""
	}
	return e
}

// Is reports whether err is of the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// GetKind returns the Kind of an error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Validation errors
func ValidationFailed(op Op, reason string) error {
	return E(op, KindValidation, reason)
}

// SessionBusy reports that a second operation was attempted while one is live.
func SessionBusy(kind string) error {
	return E(Op("op.Start"), KindSessionBusy, fmt.Sprintf("a %s operation is already in progress", kind))
}

// SessionUndismissed reports that a finished operation still needs acknowledgement.
func SessionUndismissed(kind string) error {
	return E(Op("op.Start"), KindSessionBusy, fmt.Sprintf("previous %s operation must be dismissed first", kind))
}

// Config errors
func ConfigLoadFailed(path string, err error) error {
	return E(Op("config.Load"), KindConfig, fmt.Sprintf("failed to load config from %s", path), err)
}

func ConfigSaveFailed(path string, err error) error {
	return E(Op("config.Save"), KindConfig, fmt.Sprintf("failed to save config to %s", path), err)
}

func ConfigInvalid(reason string) error {
	return E(Op("config.Validate"), KindConfig, reason)
}

// Git errors
func GitNotRepo(path string) error {
	return E(Op("engine.Open"), KindValidation, fmt.Sprintf("%s is not a git repository", path))
}

func GitFailed(op Op, context string, err error) error {
	return E(op, KindGit, context, err)
}

// AbortFailed wraps an engine abort error. The controller treats it as a
// warning: the session still lands on Aborted.
func AbortFailed(kind string, err error) error {
	return E(Op("op.Abort"), KindAbortFailure, fmt.Sprintf("%s abort reported an error", kind), err)
}

// CLI prerequisite errors
func CLINotFound(name string) error {
	return E(Op("cli.Check"), KindNotFound, fmt.Sprintf("required CLI tool '%s' not found in PATH", name))
}

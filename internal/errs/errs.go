// Package errs defines the typed error kinds devsync attaches to every
// failed operation so handlers, the scheduler, and the CLI summary line can
// agree on what went wrong without parsing error strings.
package errs

import (
	"gitlab.com/tozd/go/errors"
)

// Kind classifies a failure for logging and exit-code purposes.
type Kind int

const (
	// Io covers any failed filesystem operation.
	Io Kind = iota
	// Permission covers denied access or an owned_only ownership mismatch.
	Permission
	// Vcs covers a failed git (or svn) operation.
	Vcs
	// Classify covers a directory whose entries could not be read.
	Classify
	// Config covers invalid options or an unreadable session/project file.
	Config
	// Aborted covers a job cut short by the stop flag.
	Aborted
)

func (k Kind) String() string {
	switch k {
	case Io:
		return "io"
	case Permission:
		return "permission"
	case Vcs:
		return "vcs"
	case Classify:
		return "classify"
	case Config:
		return "config"
	case Aborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Error is a kinded, path-scoped, wrapped failure.
type Error struct {
	Kind   Kind
	Path   string
	Detail string
	cause  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return e.Kind.String() + ": " + e.Path + ": " + e.Detail
	}
	return e.Kind.String() + ": " + e.Detail
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New builds a kinded error, wrapping cause with a stack trace via
// gitlab.com/tozd/go/errors (the teacher's error library for every
// propagated failure).
func New(kind Kind, path, detail string, cause error) *Error {
	var wrapped error
	if cause != nil {
		wrapped = errors.Errorf("%s: %w", detail, cause)
	} else {
		wrapped = errors.New(detail)
	}
	return &Error{Kind: kind, Path: path, Detail: detail, cause: wrapped}
}

// Is reports whether err is a devsync *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

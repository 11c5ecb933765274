package orchestrator

import (
	"errors"
	"fmt"
)

var (
	// ErrCompileFailure is the kind of errors raised while compiling a source.
	ErrCompileFailure = errors.New("compile failure")
	// ErrLinkFailure is the kind of errors raised while linking a target.
	ErrLinkFailure = errors.New("link failure")
	// ErrCanceled marks targets that never started because the run stopped.
	ErrCanceled = errors.New("build canceled")
	// ErrBlocked marks targets skipped because a dependency failed.
	ErrBlocked = errors.New("blocked by failed dependency")
)

// TargetError is a per-target execution failure.
type TargetError struct {
	// Kind is ErrCompileFailure or ErrLinkFailure.
	Kind   error
	Target string
	// Source is the failing source, if the failure is tied to one.
	Source string
	Err    error
}

func (e *TargetError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s: target %q: %s: %v", e.Kind, e.Target, e.Source, e.Err)
	}
	return fmt.Sprintf("%s: target %q: %v", e.Kind, e.Target, e.Err)
}

func (e *TargetError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

package action

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/sosbs/internal/orchestrator"
)

var (
	// ErrUnknownAction is returned for an action name that is not registered.
	ErrUnknownAction = errors.New("unknown action")
	// ErrMissingTarget is returned when a single-target action gets no target.
	ErrMissingTarget = errors.New("no target specified")
	// ErrUnexpectedTarget is returned when an action gets targets it cannot use.
	ErrUnexpectedTarget = errors.New("unexpected target")
	// ErrBuildFailed is returned when at least one target did not build.
	ErrBuildFailed = errors.New("build failed")
	// ErrNoKernel is returned by run when no kernel target is registered.
	ErrNoKernel = errors.New("no kernel target registered")
)

// BuildError carries the report of a run in which some target failed.
type BuildError struct {
	Report *orchestrator.Report
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("%s: %d failed, %d skipped", ErrBuildFailed,
		e.Report.Count(orchestrator.Failed), e.Report.Count(orchestrator.Skipped))
}

func (e *BuildError) Unwrap() []error {
	errs := []error{ErrBuildFailed}
	if err := e.Report.Err(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

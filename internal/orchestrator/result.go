package orchestrator

import (
	"errors"
	"fmt"
	"time"
)

// State is the lifecycle position of a target within a run.
type State int

const (
	Pending State = iota
	Compiling
	Linking
	Built
	Reused
	Failed
	Skipped
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Compiling:
		return "compiling"
	case Linking:
		return "linking"
	case Built:
		return "built"
	case Reused:
		return "reused"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Succeeded reports whether dependents may build on a target in state s.
func (s State) Succeeded() bool {
	return s == Built || s == Reused
}

// Result is the outcome of one target.
type Result struct {
	Target string
	State  State
	// Err is the failure (Failed) or the skip cause (Skipped).
	Err error
	// BlockedBy names the failed target a Skipped target depends on.
	BlockedBy string
	// Output is the linked output, for Built and Reused targets.
	Output string
	// Reasons lists why a Built target was considered stale.
	Reasons  []string
	Duration time.Duration
}

// Report maps every planned target to its outcome.
type Report struct {
	// Results are sorted by target ID.
	Results  []Result
	Duration time.Duration
}

// Result returns the outcome for id.
func (r *Report) Result(id string) (Result, bool) {
	for _, res := range r.Results {
		if res.Target == id {
			return res, true
		}
	}
	return Result{}, false
}

// Count returns the number of targets that ended in state s.
func (r *Report) Count(s State) int {
	n := 0
	for _, res := range r.Results {
		if res.State == s {
			n++
		}
	}
	return n
}

// OK reports whether every target was Built or Reused.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if !res.State.Succeeded() {
			return false
		}
	}
	return true
}

// Err joins the errors of all Failed targets.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.State == Failed {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}

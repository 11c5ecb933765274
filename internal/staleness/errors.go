package staleness

import (
	"errors"
	"fmt"
)

// ErrSourceUnreadable marks a source that could not be hashed. It never aborts
// a build; it forces the owning target to be rebuilt.
var ErrSourceUnreadable = errors.New("source unreadable")

// SourceError reports a source that could not be read.
type SourceError struct {
	Target string
	Path   string
	Err    error
}

func (e *SourceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: target %q: %v", ErrSourceUnreadable, e.Target, e.Err)
	}
	return fmt.Sprintf("%s: target %q: %s: %v", ErrSourceUnreadable, e.Target, e.Path, e.Err)
}

func (e *SourceError) Unwrap() []error {
	return []error{ErrSourceUnreadable, e.Err}
}

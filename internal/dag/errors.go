package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is the kind of every *CycleError.
var ErrCycle = errors.New("cyclic dependency")

// CycleError reports a dependency cycle. Path starts and ends with the same
// node and lists each node in dependency order: Path[i] depends on Path[i+1].
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycle, strings.Join(e.Path, " -> "))
}

func (e *CycleError) Unwrap() error { return ErrCycle }

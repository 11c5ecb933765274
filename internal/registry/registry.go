package registry

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/specialistvlad/sosbs/internal/target"
)

var (
	// ErrDuplicateTargetID is returned when two manifests declare the same identifier.
	ErrDuplicateTargetID = errors.New("duplicate target id")
	// ErrUnknownTarget is returned by Lookup for identifiers that were never registered.
	ErrUnknownTarget = errors.New("unknown target")
)

// DuplicateError names both locations that claimed an identifier.
type DuplicateError struct {
	ID     string
	First  string
	Second string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q: declared in %s and %s", ErrDuplicateTargetID, e.ID, e.First, e.Second)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicateTargetID }

// Registry holds every discovered target for a single invocation.
type Registry struct {
	targets map[string]*target.Target
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{targets: make(map[string]*target.Target)}
}

// Register adds t. It fails with a *DuplicateError if the identifier is taken.
func (r *Registry) Register(t *target.Target) error {
	if existing, ok := r.targets[t.ID]; ok {
		return &DuplicateError{ID: t.ID, First: existing.Location, Second: t.Location}
	}
	r.targets[t.ID] = t
	return nil
}

// Lookup returns the target registered under id.
func (r *Registry) Lookup(id string) (*target.Target, error) {
	t, ok := r.targets[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTarget, id)
	}
	return t, nil
}

// Has reports whether id is registered.
func (r *Registry) Has(id string) bool {
	_, ok := r.targets[id]
	return ok
}

// Len returns the number of registered targets.
func (r *Registry) Len() int {
	return len(r.targets)
}

// IDs returns every registered identifier in sorted order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.targets))
	for id := range r.targets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// All yields the registered targets in identifier order. The order is fixed
// when iteration starts.
func (r *Registry) All() iter.Seq[*target.Target] {
	return func(yield func(*target.Target) bool) {
		for _, id := range r.IDs() {
			if !yield(r.targets[id]) {
				return
			}
		}
	}
}

// OfType returns the targets of the given type in identifier order.
func (r *Registry) OfType(typ target.Type) []*target.Target {
	var out []*target.Target
	for t := range r.All() {
		if t.Type == typ {
			out = append(out, t)
		}
	}
	return out
}

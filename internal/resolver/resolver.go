// Package resolver turns the target registry into a build plan: a dependency
// graph checked for dangling references and cycles, grouped into layers of
// mutually independent targets.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/sosbs/internal/ctxlog"
	"github.com/specialistvlad/sosbs/internal/dag"
	"github.com/specialistvlad/sosbs/internal/registry"
)

var (
	// ErrUnresolvedDependency is returned when a target lists an identifier
	// that is not registered.
	ErrUnresolvedDependency = errors.New("unresolved dependency")
	// ErrCyclicDependency is the kind of cycle errors; see dag.CycleError for the path.
	ErrCyclicDependency = dag.ErrCycle
)

// UnresolvedError names the dangling edge.
type UnresolvedError struct {
	From string
	To   string
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("%s: %q depends on %q, which is not a registered target", ErrUnresolvedDependency, e.From, e.To)
}

func (e *UnresolvedError) Unwrap() error { return ErrUnresolvedDependency }

// Plan is a validated build order.
type Plan struct {
	graph *dag.Graph
	// Layers lists targets grouped so that every dependency of a target sits
	// in a strictly earlier layer. Targets within a layer are sorted by ID.
	Layers [][]string
}

// Resolve validates every declared dependency in reg and produces a plan
// covering the whole registry. Structural errors are returned before any
// layering is attempted; all dangling references are reported together.
func Resolve(ctx context.Context, reg *registry.Registry) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Resolving dependencies.", "targets", reg.Len())

	g := dag.New()
	for t := range reg.All() {
		g.AddNode(t.ID)
	}

	var unresolved []error
	for t := range reg.All() {
		for _, dep := range t.Dependencies {
			if !reg.Has(dep) {
				unresolved = append(unresolved, &UnresolvedError{From: t.ID, To: dep})
				continue
			}
			if err := g.AddEdge(dep, t.ID); err != nil {
				return nil, fmt.Errorf("add edge %s -> %s: %w", dep, t.ID, err)
			}
		}
	}
	if len(unresolved) > 0 {
		return nil, errors.Join(unresolved...)
	}

	layers, err := g.Layers()
	if err != nil {
		return nil, err
	}

	logger.Debug("Dependencies resolved.", "layers", len(layers))
	return &Plan{graph: g, Layers: layers}, nil
}

// Restrict returns a plan limited to ids and their transitive dependencies.
// Relative layer order is preserved; layers left empty are dropped.
func (p *Plan) Restrict(ids ...string) (*Plan, error) {
	closure, err := p.graph.Closure(ids...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registry.ErrUnknownTarget, err)
	}

	var layers [][]string
	for _, layer := range p.Layers {
		var kept []string
		for _, id := range layer {
			if _, ok := slices.BinarySearch(closure, id); ok {
				kept = append(kept, id)
			}
		}
		if len(kept) > 0 {
			layers = append(layers, kept)
		}
	}
	return &Plan{graph: p.graph, Layers: layers}, nil
}

// Targets returns every target in the plan in build order.
func (p *Plan) Targets() []string {
	var out []string
	for _, layer := range p.Layers {
		out = append(out, layer...)
	}
	return out
}

// Contains reports whether id is part of the plan.
func (p *Plan) Contains(id string) bool {
	for _, layer := range p.Layers {
		if slices.Contains(layer, id) {
			return true
		}
	}
	return false
}

// Dependencies returns the direct dependencies of id.
func (p *Plan) Dependencies(id string) []string {
	deps, _ := p.graph.Dependencies(id)
	return deps
}

// Dependents returns the targets that directly depend on id.
func (p *Plan) Dependents(id string) []string {
	deps, _ := p.graph.Dependents(id)
	return deps
}

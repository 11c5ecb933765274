package action

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/specialistvlad/sosbs/internal/launcher"
	"github.com/specialistvlad/sosbs/internal/orchestrator"
	"github.com/specialistvlad/sosbs/internal/registry"
	"github.com/specialistvlad/sosbs/internal/resolver"
	"github.com/specialistvlad/sosbs/internal/staleness"
)

// Scope tells whether an action works on selected targets or on all of them.
type Scope int

const (
	// Single actions need at least one target ID.
	Single Scope = iota
	// Global actions take no target ID.
	Global
)

// Action is one named command.
type Action interface {
	Name() string
	Description() string
	Scope() Scope
	Run(ctx context.Context, env *Env, targets []string) error
}

// Builder runs a plan. *orchestrator.Orchestrator satisfies it.
type Builder interface {
	Build(ctx context.Context, reg *registry.Registry, plan *resolver.Plan) (*orchestrator.Report, error)
}

// Reloader re-discovers the registry and re-resolves the plan.
type Reloader func(ctx context.Context) (*registry.Registry, *resolver.Plan, error)

// Env is everything an action may touch.
type Env struct {
	Out      io.Writer
	Registry *registry.Registry
	Plan     *resolver.Plan
	Builder  Builder
	Tracker  *staleness.Tracker
	Launcher launcher.Launcher
	BuildDir string
	// Reload is used by watch to pick up new or removed sources.
	Reload Reloader
	// Debounce is how long watch waits for file events to settle.
	Debounce time.Duration
	// Actions lists every registered action; help renders it.
	Actions []Action
}

// Dispatcher routes action names to actions.
type Dispatcher struct {
	actions map[string]Action
	order   []string
}

// NewDispatcher registers actions in the given order. Registering two actions
// with the same name panics.
func NewDispatcher(actions ...Action) *Dispatcher {
	d := &Dispatcher{actions: make(map[string]Action, len(actions))}
	for _, a := range actions {
		if _, dup := d.actions[a.Name()]; dup {
			panic(fmt.Sprintf("action %q registered twice", a.Name()))
		}
		d.actions[a.Name()] = a
		d.order = append(d.order, a.Name())
	}
	return d
}

// Defaults returns the built-in actions, single-target ones first.
func Defaults() []Action {
	return []Action{
		Build{},
		Clean{},
		Rebuild{},
		Run{},
		Info{},
		Watch{},
		BuildAll{},
		CleanAll{},
		RebuildAll{},
		InfoAll{},
		Help{},
		List{},
		ListType{name: "list-app", title: "Applications", filter: isApp},
		ListType{name: "list-lib", title: "Libraries", filter: isLib},
		ListType{name: "list-other", title: "Other", filter: isOther},
	}
}

// Lookup returns the action registered under name.
func (d *Dispatcher) Lookup(name string) (Action, bool) {
	a, ok := d.actions[name]
	return a, ok
}

// Actions returns the registered actions in registration order.
func (d *Dispatcher) Actions() []Action {
	out := make([]Action, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.actions[name])
	}
	return out
}

// Dispatch validates name and targets and runs the action.
func (d *Dispatcher) Dispatch(ctx context.Context, env *Env, name string, targets []string) error {
	a, ok := d.actions[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, name)
	}
	switch a.Scope() {
	case Single:
		if len(targets) == 0 {
			return fmt.Errorf("%w for action %q", ErrMissingTarget, name)
		}
		for _, id := range targets {
			if _, err := env.Registry.Lookup(id); err != nil {
				return err
			}
		}
	case Global:
		if len(targets) > 0 {
			return fmt.Errorf("%w: action %q takes no target, got %q", ErrUnexpectedTarget, name, targets)
		}
	}
	if env.Actions == nil {
		env.Actions = d.Actions()
	}
	return a.Run(ctx, env, slices.Compact(slices.Sorted(slices.Values(targets))))
}

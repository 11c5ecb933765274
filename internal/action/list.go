package action

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/specialistvlad/sosbs/internal/registry"
	"github.com/specialistvlad/sosbs/internal/target"
)

func isApp(t *target.Target) bool { return t.Type == target.Application }
func isLib(t *target.Target) bool { return t.Type == target.Library }
func isOther(t *target.Target) bool {
	return t.Type != target.Application && t.Type != target.Library
}

func listIDs(reg *registry.Registry, keep func(*target.Target) bool) []string {
	var ids []string
	for t := range reg.All() {
		if keep == nil || keep(t) {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// ListType lists the targets accepted by filter.
type ListType struct {
	name   string
	title  string
	filter func(*target.Target) bool
}

func (l ListType) Name() string        { return l.name }
func (l ListType) Description() string { return "List all " + strings.ToLower(l.title) + "." }
func (l ListType) Scope() Scope        { return Global }

func (l ListType) Run(_ context.Context, env *Env, _ []string) error {
	fmt.Fprintln(env.Out, color.Bold.Sprint(l.title+": ")+strings.Join(listIDs(env.Registry, l.filter), ", "))
	return nil
}

// List lists applications, libraries and other targets.
type List struct{}

func (List) Name() string        { return "list" }
func (List) Description() string { return "List all available targets." }
func (List) Scope() Scope        { return Global }

func (List) Run(ctx context.Context, env *Env, _ []string) error {
	for _, a := range Defaults() {
		if l, ok := a.(ListType); ok {
			if err := l.Run(ctx, env, nil); err != nil {
				return err
			}
		}
	}
	return nil
}

// Help prints usage, the discovered targets and every action.
type Help struct{}

func (Help) Name() string        { return "help" }
func (Help) Description() string { return "Show this help message." }
func (Help) Scope() Scope        { return Global }

func (Help) Run(_ context.Context, env *Env, _ []string) error {
	Usage(env.Out, env.Registry, env.Actions)
	return nil
}

// Usage writes the help text. reg may be nil when discovery failed.
func Usage(w io.Writer, reg *registry.Registry, actions []Action) {
	fmt.Fprintln(w, color.Bold.Sprint("sosbs")+", the skiftOS build system")
	fmt.Fprintln(w)
	fmt.Fprintln(w, color.Bold.Sprint("Usage:")+" sosbs [flags] <action> <target>...")
	fmt.Fprintln(w, "       sosbs [flags] <global action>")

	if reg != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.Bold.Sprint("Targets:"))
		fmt.Fprintln(w, "    "+strings.Join(reg.IDs(), ", "))
	}

	for _, section := range []struct {
		title string
		scope Scope
	}{{"Actions:", Single}, {"Global actions:", Global}} {
		fmt.Fprintln(w)
		fmt.Fprintln(w, color.Bold.Sprint(section.title))
		for _, a := range actions {
			if a.Scope() == section.scope {
				fmt.Fprintf(w, "    %-12s %s\n", a.Name(), a.Description())
			}
		}
	}
}

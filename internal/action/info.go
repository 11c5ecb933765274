package action

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gookit/color"
)

func printInfo(ctx context.Context, env *Env, ids []string) error {
	for _, id := range ids {
		t, err := env.Registry.Lookup(id)
		if err != nil {
			return err
		}

		deps := "none"
		if len(t.Dependencies) > 0 {
			deps = strings.Join(t.Dependencies, ", ")
		}
		sources := "unreadable"
		if list, err := t.Sources(); err == nil {
			sources = fmt.Sprint(len(list))
		}
		status := "never built"
		if rec, ok, err := env.Tracker.Record(ctx, id); err != nil {
			status = "unknown: " + err.Error()
		} else if ok && rec.Complete {
			status = "built " + rec.BuiltAt.Format(time.RFC3339)
		} else if ok {
			status = "incomplete"
		}

		fmt.Fprintln(env.Out, color.Bold.Sprintf("Target %s:", t.ID))
		fmt.Fprintf(env.Out, "\tType: %s\n", t.Type)
		fmt.Fprintf(env.Out, "\tDependencies: %s\n", deps)
		fmt.Fprintf(env.Out, "\tLocation: %s\n", t.Location)
		fmt.Fprintf(env.Out, "\tManifest: %s\n", t.ManifestPath)
		fmt.Fprintf(env.Out, "\tSources: %s\n", sources)
		fmt.Fprintf(env.Out, "\tOutput: %s\n", t.OutputPath(env.BuildDir))
		fmt.Fprintf(env.Out, "\tStatus: %s\n", status)
	}
	return nil
}

// Info dumps information about targets.
type Info struct{}

func (Info) Name() string        { return "info" }
func (Info) Description() string { return "Dump information about the target." }
func (Info) Scope() Scope        { return Single }

func (Info) Run(ctx context.Context, env *Env, targets []string) error {
	return printInfo(ctx, env, targets)
}

// InfoAll dumps information about every target in dependency order.
type InfoAll struct{}

func (InfoAll) Name() string        { return "info-all" }
func (InfoAll) Description() string { return "Dump information about all targets." }
func (InfoAll) Scope() Scope        { return Global }

func (InfoAll) Run(ctx context.Context, env *Env, _ []string) error {
	return printInfo(ctx, env, env.Plan.Targets())
}

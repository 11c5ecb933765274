package action

import (
	"context"

	"github.com/specialistvlad/sosbs/internal/orchestrator"
	"github.com/specialistvlad/sosbs/internal/resolver"
)

// runPlan builds plan and turns an unsuccessful report into a *BuildError.
func runPlan(ctx context.Context, env *Env, plan *resolver.Plan) (*orchestrator.Report, error) {
	rep, err := env.Builder.Build(ctx, env.Registry, plan)
	if err != nil {
		return rep, err
	}
	if !rep.OK() {
		return rep, &BuildError{Report: rep}
	}
	return rep, nil
}

// buildTargets builds ids together with their transitive dependencies.
func buildTargets(ctx context.Context, env *Env, ids []string) (*orchestrator.Report, error) {
	plan, err := env.Plan.Restrict(ids...)
	if err != nil {
		return nil, err
	}
	return runPlan(ctx, env, plan)
}

// Build builds targets after their dependency closure.
type Build struct{}

func (Build) Name() string        { return "build" }
func (Build) Description() string { return "Build a target and its dependencies." }
func (Build) Scope() Scope        { return Single }

func (Build) Run(ctx context.Context, env *Env, targets []string) error {
	_, err := buildTargets(ctx, env, targets)
	return err
}

// Rebuild cleans targets, then builds them.
type Rebuild struct{}

func (Rebuild) Name() string        { return "rebuild" }
func (Rebuild) Description() string { return "Clean and build a target." }
func (Rebuild) Scope() Scope        { return Single }

func (Rebuild) Run(ctx context.Context, env *Env, targets []string) error {
	if err := cleanTargets(ctx, env, targets); err != nil {
		return err
	}
	_, err := buildTargets(ctx, env, targets)
	return err
}

// BuildAll builds every registered target.
type BuildAll struct{}

func (BuildAll) Name() string        { return "build-all" }
func (BuildAll) Description() string { return "Build all targets." }
func (BuildAll) Scope() Scope        { return Global }

func (BuildAll) Run(ctx context.Context, env *Env, _ []string) error {
	_, err := runPlan(ctx, env, env.Plan)
	return err
}

// RebuildAll cleans and builds every registered target.
type RebuildAll struct{}

func (RebuildAll) Name() string        { return "rebuild-all" }
func (RebuildAll) Description() string { return "Clean and build all targets." }
func (RebuildAll) Scope() Scope        { return Global }

func (RebuildAll) Run(ctx context.Context, env *Env, _ []string) error {
	if err := cleanTargets(ctx, env, env.Plan.Targets()); err != nil {
		return err
	}
	_, err := runPlan(ctx, env, env.Plan)
	return err
}

package orchestrator

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/specialistvlad/sosbs/internal/ctxlog"
	"github.com/specialistvlad/sosbs/internal/registry"
	"github.com/specialistvlad/sosbs/internal/report"
	"github.com/specialistvlad/sosbs/internal/resolver"
	"github.com/specialistvlad/sosbs/internal/staleness"
	"github.com/specialistvlad/sosbs/internal/target"
	"github.com/specialistvlad/sosbs/internal/toolchain"
	"golang.org/x/sync/errgroup"
)

// Options tunes a run.
type Options struct {
	// Workers bounds how many targets of a layer build at once.
	// Zero or less selects runtime.NumCPU().
	Workers int
	// StopOnError cancels not-yet-started work after the first failure.
	StopOnError bool
}

// Orchestrator builds plans with a toolchain, consulting a staleness tracker.
type Orchestrator struct {
	toolchain toolchain.Toolchain
	tracker   *staleness.Tracker
	reporter  report.Reporter
	opts      Options
}

// New creates an orchestrator. A nil reporter discards events.
func New(tc toolchain.Toolchain, tracker *staleness.Tracker, reporter report.Reporter, opts Options) *Orchestrator {
	if reporter == nil {
		reporter = report.Discard
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Orchestrator{toolchain: tc, tracker: tracker, reporter: reporter, opts: opts}
}

// run holds the mutable state of one Build call.
type run struct {
	*Orchestrator
	reg  *registry.Registry
	plan *resolver.Plan

	// stop is canceled on the first failure when StopOnError is set.
	stop   context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	results map[string]*Result
	rebuilt map[string]bool
}

// Build runs every layer of plan. Targets are looked up in reg.
//
// Per-target failures are reported in the returned Report, never as an error.
// The error is non-nil only when ctx ends before the run completes; the report
// is still complete, with unstarted targets Skipped.
func (o *Orchestrator) Build(ctx context.Context, reg *registry.Registry, plan *resolver.Plan) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()

	r := &run{
		Orchestrator: o,
		reg:          reg,
		plan:         plan,
		results:      make(map[string]*Result),
		rebuilt:      make(map[string]bool),
	}
	r.stop, r.cancel = context.WithCancel(ctx)
	defer r.cancel()

	ids := plan.Targets()
	for _, id := range ids {
		r.results[id] = &Result{Target: id, State: Pending}
	}
	o.reporter.Report(ctx, report.RunStarted{Targets: ids, Layers: len(plan.Layers)})

	for i, layer := range plan.Layers {
		o.reporter.Report(ctx, report.LayerStarted{Index: i, Targets: layer})
		r.runLayer(ctx, layer)
	}

	rep := r.finish(time.Since(start))
	o.reporter.Report(ctx, report.RunFinished{
		Built:    rep.Count(Built),
		Reused:   rep.Count(Reused),
		Failed:   rep.Count(Failed),
		Skipped:  rep.Count(Skipped),
		Duration: rep.Duration,
	})
	logger.Debug("Build run complete.", "targets", len(ids), "ok", rep.OK())
	return rep, ctx.Err()
}

// runLayer builds one layer and returns after all of its targets settled.
func (r *run) runLayer(ctx context.Context, layer []string) {
	r.mu.Lock()
	// Dependencies live in earlier layers, so this view is final for the layer.
	rebuilt := maps.Clone(r.rebuilt)
	r.mu.Unlock()

	var g errgroup.Group
	g.SetLimit(r.opts.Workers)
	for _, id := range layer {
		if blockedBy, ok := r.blocked(id); ok {
			r.skip(ctx, id, blockedBy)
			continue
		}
		t, err := r.reg.Lookup(id)
		if err != nil {
			r.fail(ctx, id, fmt.Errorf("lookup planned target: %w", err), 0)
			continue
		}
		g.Go(func() error {
			if r.stop.Err() != nil {
				r.skip(ctx, id, "")
				return nil
			}
			r.buildTarget(ctx, t, rebuilt)
			return nil
		})
	}
	_ = g.Wait()
}

// blocked reports whether a dependency of id did not succeed. The returned
// name is the failed target at the root of the chain, or empty when the
// dependency was canceled.
func (r *run) blocked(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, dep := range r.plan.Dependencies(id) {
		res, ok := r.results[dep]
		if !ok || res.State.Succeeded() {
			continue
		}
		switch {
		case res.State == Failed:
			return dep, true
		case res.BlockedBy != "":
			return res.BlockedBy, true
		default:
			return "", true
		}
	}
	return "", false
}

func (r *run) buildTarget(ctx context.Context, t *target.Target, rebuilt map[string]bool) {
	ctx, logger := ctxlog.With(ctx, "target", t.ID)
	start := time.Now()

	v := r.tracker.IsStale(ctx, t, rebuilt)
	logger.Debug("Staleness verdict.", "rebuild", v.Rebuild, "reasons", len(v.Reasons))
	for _, w := range v.Warnings {
		r.reporter.Report(ctx, report.Warning{Target: t.ID, Err: w})
	}

	if !v.Rebuild {
		var output string
		if v.Previous != nil {
			output = v.Previous.Output
		}
		r.set(t.ID, func(res *Result) {
			res.State = Reused
			res.Output = output
			res.Duration = time.Since(start)
		})
		r.reporter.Report(ctx, report.TargetReused{Target: t.ID})
		return
	}

	reasons := make([]string, len(v.Reasons))
	for i, reason := range v.Reasons {
		reasons[i] = string(reason)
	}
	r.set(t.ID, func(res *Result) {
		res.State = Compiling
		res.Reasons = reasons
	})
	r.reporter.Report(ctx, report.TargetStale{Target: t.ID, Reasons: reasons})

	if err := r.tracker.MarkIncomplete(ctx, t); err != nil {
		r.reporter.Report(ctx, report.Warning{Target: t.ID, Err: err})
	}

	sources, err := t.Sources()
	if err != nil {
		r.fail(ctx, t.ID, &TargetError{Kind: ErrCompileFailure, Target: t.ID, Err: err}, time.Since(start))
		return
	}

	artifacts := make([]string, 0, len(sources))
	for _, src := range sources {
		began := time.Now()
		artifact, err := r.toolchain.Compile(ctx, src, t)
		if err != nil {
			r.fail(ctx, t.ID, &TargetError{Kind: ErrCompileFailure, Target: t.ID, Source: src, Err: err}, time.Since(start))
			return
		}
		artifacts = append(artifacts, artifact)
		r.reporter.Report(ctx, report.SourceCompiled{Target: t.ID, Source: src, Artifact: artifact, Duration: time.Since(began)})
	}

	r.set(t.ID, func(res *Result) { res.State = Linking })
	began := time.Now()
	output, err := r.toolchain.Link(ctx, t, artifacts)
	if err != nil {
		r.fail(ctx, t.ID, &TargetError{Kind: ErrLinkFailure, Target: t.ID, Err: err}, time.Since(start))
		return
	}
	r.reporter.Report(ctx, report.TargetLinked{Target: t.ID, Output: output, Duration: time.Since(began)})

	if _, err := r.tracker.Commit(ctx, t, v, artifacts, output); err != nil {
		r.reporter.Report(ctx, report.Warning{Target: t.ID, Err: err})
	}

	elapsed := time.Since(start)
	r.mu.Lock()
	r.rebuilt[t.ID] = true
	res := r.results[t.ID]
	res.State = Built
	res.Output = output
	res.Duration = elapsed
	r.mu.Unlock()
	r.reporter.Report(ctx, report.TargetBuilt{Target: t.ID, Output: output, Duration: elapsed})
}

func (r *run) set(id string, fn func(res *Result)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.results[id])
}

func (r *run) fail(ctx context.Context, id string, err error, elapsed time.Duration) {
	r.set(id, func(res *Result) {
		res.State = Failed
		res.Err = err
		res.Duration = elapsed
	})
	r.reporter.Report(ctx, report.TargetFailed{Target: id, Reason: err, Duration: elapsed})
	if r.opts.StopOnError {
		r.cancel()
	}
}

func (r *run) skip(ctx context.Context, id, blockedBy string) {
	err := ErrCanceled
	if blockedBy != "" {
		err = fmt.Errorf("%w: %s", ErrBlocked, blockedBy)
	}
	r.set(id, func(res *Result) {
		res.State = Skipped
		res.Err = err
		res.BlockedBy = blockedBy
	})
	r.reporter.Report(ctx, report.TargetSkipped{Target: id, BlockedBy: blockedBy, Reason: err})
}

func (r *run) finish(elapsed time.Duration) *Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep := &Report{Duration: elapsed}
	for _, id := range slices.Sorted(maps.Keys(r.results)) {
		rep.Results = append(rep.Results, *r.results[id])
	}
	return rep
}

package action

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/sosbs/internal/ctxlog"
	"github.com/specialistvlad/sosbs/internal/recordstore"
)

// cleanTargets removes the recorded artifacts, the output directory and the
// staleness record of each target. Dependencies are left alone.
func cleanTargets(ctx context.Context, env *Env, ids []string) error {
	logger := ctxlog.FromContext(ctx)
	for _, id := range ids {
		t, err := env.Registry.Lookup(id)
		if err != nil {
			return err
		}

		rec, err := env.Tracker.Forget(ctx, id)
		if err != nil {
			return err
		}
		if err := removeFiles(env, rec, t.OutputDir(env.BuildDir)); err != nil {
			return fmt.Errorf("clean %s: %w", id, err)
		}

		logger.Debug("Target cleaned.", "target", id, "had_record", rec != nil)
		fmt.Fprintf(env.Out, "%-20s cleaned\n", id)
	}
	return nil
}

// pruneOrphans forgets records of targets that are no longer registered and
// removes the files they list.
func pruneOrphans(ctx context.Context, env *Env) error {
	recs, err := env.Tracker.Prune(ctx, env.Registry.Has)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		if err := removeFiles(env, rec, filepath.Join(env.BuildDir, rec.TargetID)); err != nil {
			return fmt.Errorf("clean %s: %w", rec.TargetID, err)
		}
		fmt.Fprintf(env.Out, "%-20s cleaned (no longer registered)\n", rec.TargetID)
	}
	return nil
}

// removeFiles deletes what rec lists and, when a build directory is set,
// the whole outputDir.
func removeFiles(env *Env, rec *recordstore.Record, outputDir string) error {
	if rec != nil {
		for _, path := range append(rec.Artifacts, rec.Output) {
			if path == "" {
				continue
			}
			if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
		}
	}
	if env.BuildDir != "" {
		return os.RemoveAll(outputDir)
	}
	return nil
}

// Clean forgets a target's previous build.
type Clean struct{}

func (Clean) Name() string        { return "clean" }
func (Clean) Description() string { return "Clean a target." }
func (Clean) Scope() Scope        { return Single }

func (Clean) Run(ctx context.Context, env *Env, targets []string) error {
	return cleanTargets(ctx, env, targets)
}

// CleanAll forgets every target's previous build, including records left
// behind by targets that have since been removed.
type CleanAll struct{}

func (CleanAll) Name() string        { return "clean-all" }
func (CleanAll) Description() string { return "Clean all targets." }
func (CleanAll) Scope() Scope        { return Global }

func (CleanAll) Run(ctx context.Context, env *Env, _ []string) error {
	if err := cleanTargets(ctx, env, env.Plan.Targets()); err != nil {
		return err
	}
	return pruneOrphans(ctx, env)
}

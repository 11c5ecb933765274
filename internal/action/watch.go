package action

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/sosbs/internal/ctxlog"
)

// DefaultDebounce is how long Watch waits after the last file event.
const DefaultDebounce = 300 * time.Millisecond

// Watch builds targets, then rebuilds them whenever a file under any target
// of their closure changes. It returns when ctx is done.
type Watch struct{}

func (Watch) Name() string        { return "watch" }
func (Watch) Description() string { return "Build a target and rebuild it on every change." }
func (Watch) Scope() Scope        { return Single }

func (Watch) Run(ctx context.Context, env *Env, targets []string) error {
	logger := ctxlog.FromContext(ctx)
	current := *env
	debounce := env.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	rebuild := func() error {
		if _, err := buildTargets(ctx, &current, targets); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !errors.Is(err, ErrBuildFailed) {
				return err
			}
			logger.Warn("Build failed, waiting for changes.", "error", err)
		}
		return watchClosure(watcher, &current, targets)
	}

	if err := rebuild(); err != nil {
		return err
	}
	fmt.Fprintf(env.Out, "watching %d directories, press Ctrl+C to stop\n", len(watcher.WatchList()))

	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Watch stopped.")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			logger.Debug("File event.", "path", ev.Name, "op", ev.Op.String())
			fire = time.After(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error.", "error", err)
		case <-fire:
			fire = nil
			if current.Reload != nil {
				reg, plan, err := current.Reload(ctx)
				if err != nil {
					logger.Error("Reload failed, keeping previous targets.", "error", err)
					continue
				}
				current.Registry, current.Plan = reg, plan
			}
			fmt.Fprintln(env.Out, "change detected, rebuilding")
			if err := rebuild(); err != nil {
				logger.Error("Rebuild failed.", "error", err)
			}
		}
	}
}

// watchClosure adds every directory under the locations of targets and their
// dependencies. Adding a watched path again is a no-op.
func watchClosure(w *fsnotify.Watcher, env *Env, targets []string) error {
	plan, err := env.Plan.Restrict(targets...)
	if err != nil {
		return err
	}
	for _, id := range plan.Targets() {
		t, err := env.Registry.Lookup(id)
		if err != nil {
			return err
		}
		err = filepath.WalkDir(t.Location, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return w.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("watch %s: %w", t.Location, err)
		}
	}
	return nil
}

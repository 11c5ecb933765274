package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/specialistvlad/sosbs/internal/action"
	"github.com/specialistvlad/sosbs/internal/badgerstore"
	"github.com/specialistvlad/sosbs/internal/ctxlog"
	"github.com/specialistvlad/sosbs/internal/inmemorystore"
	"github.com/specialistvlad/sosbs/internal/launcher"
	"github.com/specialistvlad/sosbs/internal/manifest"
	"github.com/specialistvlad/sosbs/internal/metrics"
	"github.com/specialistvlad/sosbs/internal/orchestrator"
	"github.com/specialistvlad/sosbs/internal/recordstore"
	"github.com/specialistvlad/sosbs/internal/registry"
	"github.com/specialistvlad/sosbs/internal/report"
	"github.com/specialistvlad/sosbs/internal/resolver"
	"github.com/specialistvlad/sosbs/internal/staleness"
	"github.com/specialistvlad/sosbs/internal/target"
	"github.com/specialistvlad/sosbs/internal/toolchain"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	store      recordstore.Store
	tracker    *staleness.Tracker
	metrics    *metrics.Metrics
	reporter   report.Reporter
	dispatcher *action.Dispatcher
	launcher   launcher.Launcher
	httpServer *http.Server

	// registry is the most recently loaded registry; the toolchain resolves
	// {deps} through it.
	registry atomic.Pointer[registry.Registry]
}

// Option customizes an App.
type Option func(*App)

// WithLauncher replaces the launcher built from the configuration.
func WithLauncher(l launcher.Launcher) Option {
	return func(a *App) { a.launcher = l }
}

// NewApp builds an App with its own isolated logger. Console output goes to
// outW, logs to logW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) (*App, error) {
	runID := uuid.NewString()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, logW).With("run_id", runID)
	logger.Debug("Logger configured successfully.")

	var store recordstore.Store
	if cfg.StateDir == "" {
		logger.Debug("Using in-memory staleness records.")
		store = inmemorystore.New()
	} else {
		s, err := badgerstore.Open(badgerstore.Config{
			Path:   cfg.path(cfg.StateDir),
			Logger: logger.With("component", "badger"),
		})
		if err != nil {
			return nil, err
		}
		store = s
	}

	console := report.NewConsole(outW)
	console.Verbose = cfg.Verbose
	m := metrics.New()

	a := &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		store:      store,
		tracker:    staleness.New(store),
		metrics:    m,
		reporter:   report.Multi(report.Log{}, console, m),
		dispatcher: action.NewDispatcher(action.Defaults()...),
		launcher:   launcher.NewCommand(cfg.launchTemplate()),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Actions returns the registered actions.
func (a *App) Actions() []action.Action {
	return a.dispatcher.Actions()
}

// Load discovers targets and resolves the whole graph. Malformed manifests
// are reported as warnings; duplicate IDs, dangling dependencies and cycles
// are returned as errors before any build work starts.
func (a *App) Load(ctx context.Context) (*registry.Registry, *resolver.Plan, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	roots := make([]string, len(a.config.TargetRoots))
	for i, r := range a.config.TargetRoots {
		roots[i] = a.config.path(r)
	}

	d, err := registry.Discover(ctx, manifest.NewLoader(a.config.SourceExtensions...), roots...)
	if err != nil {
		return nil, nil, err
	}
	for _, p := range d.Problems {
		a.reporter.Report(ctx, report.Warning{Target: "discovery", Err: p})
	}

	plan, err := resolver.Resolve(ctx, d.Registry)
	if err != nil {
		return d.Registry, nil, err
	}
	a.registry.Store(d.Registry)
	a.logger.Debug("Targets loaded.", "targets", d.Registry.Len(), "layers", len(plan.Layers))
	return d.Registry, plan, nil
}

// Dispatch loads the project and runs the named action on targets.
func (a *App) Dispatch(ctx context.Context, name string, targets []string) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("Dispatching action.", "action", name, "targets", targets)

	a.startHealthCheckServer()
	defer a.closeHealthCheckServer(ctx)

	reg, plan, err := a.Load(ctx)
	if err != nil {
		return err
	}

	tc := toolchain.NewCommand(toolchain.Config{
		BuildDir: a.config.path(a.config.BuildDir),
		Dir:      a.config.Root,
		Compile:  a.config.compileTemplate(),
		Link:     a.config.linkTemplates(),
		Lookup:   a.lookup,
	})
	orch := orchestrator.New(tc, a.tracker, a.reporter, orchestrator.Options{
		Workers:     a.config.Workers,
		StopOnError: a.config.StopOnError,
	})

	env := &action.Env{
		Out:      a.outW,
		Registry: reg,
		Plan:     plan,
		Builder:  orch,
		Tracker:  a.tracker,
		Launcher: a.launcher,
		BuildDir: a.config.path(a.config.BuildDir),
		Reload:   a.Load,
	}
	return a.dispatcher.Dispatch(ctx, env, name, targets)
}

// Usage prints help. Targets are listed when the project loads cleanly.
func (a *App) Usage(ctx context.Context) {
	reg, _, err := a.Load(ctx)
	if err != nil {
		a.logger.Debug("Listing without targets.", "error", err)
		reg = nil
	}
	action.Usage(a.outW, reg, a.Actions())
}

func (a *App) lookup(id string) (*target.Target, bool) {
	reg := a.registry.Load()
	if reg == nil {
		return nil, false
	}
	t, err := reg.Lookup(id)
	return t, err == nil
}

// Close releases the record store.
func (a *App) Close() error {
	if err := a.store.Close(); err != nil {
		return fmt.Errorf("close record store: %w", err)
	}
	return nil
}

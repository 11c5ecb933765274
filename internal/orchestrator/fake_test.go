package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/specialistvlad/sosbs/internal/inmemorystore"
	"github.com/specialistvlad/sosbs/internal/registry"
	"github.com/specialistvlad/sosbs/internal/report"
	"github.com/specialistvlad/sosbs/internal/resolver"
	"github.com/specialistvlad/sosbs/internal/staleness"
	"github.com/specialistvlad/sosbs/internal/target"
	"github.com/stretchr/testify/require"
)

// fakeToolchain writes placeholder files and records every call.
type fakeToolchain struct {
	buildDir string
	delay    time.Duration

	compiles atomic.Int32
	links    atomic.Int32
	inFlight atomic.Int32
	maxSeen  atomic.Int32

	mu       sync.Mutex
	compiled []string
	failSrc  map[string]bool // by base name
	failLink map[string]bool // by target ID
}

func newFakeToolchain(buildDir string) *fakeToolchain {
	return &fakeToolchain{
		buildDir: buildDir,
		failSrc:  make(map[string]bool),
		failLink: make(map[string]bool),
	}
}

func (f *fakeToolchain) Compile(ctx context.Context, source string, t *target.Target) (string, error) {
	f.compiles.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}

	f.mu.Lock()
	f.compiled = append(f.compiled, t.ID+"/"+filepath.Base(source))
	fail := f.failSrc[filepath.Base(source)]
	f.mu.Unlock()
	if fail {
		return "", errors.New("syntax error")
	}

	obj := t.ObjectPath(f.buildDir, source)
	if err := os.MkdirAll(filepath.Dir(obj), 0o755); err != nil {
		return "", err
	}
	return obj, os.WriteFile(obj, []byte(source), 0o644)
}

func (f *fakeToolchain) Link(ctx context.Context, t *target.Target, artifacts []string) (string, error) {
	f.links.Add(1)
	f.mu.Lock()
	fail := f.failLink[t.ID]
	f.mu.Unlock()
	if fail {
		return "", errors.New("undefined reference")
	}
	out := t.OutputPath(f.buildDir)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	return out, os.WriteFile(out, []byte(fmt.Sprint(artifacts)), 0o644)
}

func (f *fakeToolchain) calls() int {
	return int(f.compiles.Load() + f.links.Load())
}

func (f *fakeToolchain) compiledList() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.compiled...)
}

// project is a throwaway source tree with a registry over it.
type project struct {
	t    *testing.T
	root string
	reg  *registry.Registry
}

func newProject(t *testing.T) *project {
	return &project{t: t, root: t.TempDir(), reg: registry.New()}
}

// add registers a target with one source file per name in sources.
func (p *project) add(id string, typ target.Type, deps []string, sources ...string) {
	p.t.Helper()
	loc := filepath.Join(p.root, "packages", id)
	for _, s := range sources {
		p.write(id, s, "/* "+s+" */")
	}
	require.NoError(p.t, os.MkdirAll(loc, 0o755))
	require.NoError(p.t, p.reg.Register(&target.Target{
		ID:           id,
		Type:         typ,
		Location:     loc,
		Dependencies: target.NormalizeDependencies(deps),
		SourceRoots:  []string{loc},
		Extensions:   []string{".c"},
	}))
}

func (p *project) write(id, source, content string) {
	p.t.Helper()
	path := filepath.Join(p.root, "packages", id, source)
	require.NoError(p.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(p.t, os.WriteFile(path, []byte(content), 0o644))
}

func (p *project) plan() *resolver.Plan {
	p.t.Helper()
	plan, err := resolver.Resolve(context.Background(), p.reg)
	require.NoError(p.t, err)
	return plan
}

// harness bundles an orchestrator with a fake toolchain and a shared tracker.
type harness struct {
	tc       *fakeToolchain
	tracker  *staleness.Tracker
	recorder *report.Recorder
}

func newHarness(p *project) *harness {
	return &harness{
		tc:       newFakeToolchain(filepath.Join(p.root, "build")),
		tracker:  staleness.New(inmemorystore.New()),
		recorder: &report.Recorder{},
	}
}

func (h *harness) build(t *testing.T, p *project, plan *resolver.Plan, opts Options) *Report {
	t.Helper()
	o := New(h.tc, h.tracker, h.recorder, opts)
	rep, err := o.Build(context.Background(), p.reg, plan)
	require.NoError(t, err)
	return rep
}

func states(rep *Report) map[string]State {
	out := make(map[string]State, len(rep.Results))
	for _, r := range rep.Results {
		out[r.Target] = r.State
	}
	return out
}

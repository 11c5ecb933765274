package action

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/specialistvlad/sosbs/internal/inmemorystore"
	"github.com/specialistvlad/sosbs/internal/orchestrator"
	"github.com/specialistvlad/sosbs/internal/registry"
	"github.com/specialistvlad/sosbs/internal/resolver"
	"github.com/specialistvlad/sosbs/internal/staleness"
	"github.com/specialistvlad/sosbs/internal/target"
	"github.com/stretchr/testify/require"
)

// stubToolchain copies sources to objects and concatenates them on link.
type stubToolchain struct {
	buildDir string
	calls    atomic.Int32
	fail     sync.Map // target ID -> struct{}
}

func (s *stubToolchain) Compile(_ context.Context, source string, t *target.Target) (string, error) {
	s.calls.Add(1)
	if _, bad := s.fail.Load(t.ID); bad {
		return "", errors.New("compile error")
	}
	obj := t.ObjectPath(s.buildDir, source)
	if err := os.MkdirAll(filepath.Dir(obj), 0o755); err != nil {
		return "", err
	}
	return obj, os.WriteFile(obj, []byte(source), 0o644)
}

func (s *stubToolchain) Link(_ context.Context, t *target.Target, artifacts []string) (string, error) {
	s.calls.Add(1)
	out := t.OutputPath(s.buildDir)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", err
	}
	return out, os.WriteFile(out, []byte(t.ID), 0o644)
}

type fakeLauncher struct {
	kernel, output string
}

func (f *fakeLauncher) Launch(_ context.Context, kernel, output string) error {
	f.kernel, f.output = kernel, output
	return nil
}

type fixture struct {
	root string
	env  *Env
	out  *bytes.Buffer
	tc   *stubToolchain
	disp *Dispatcher
}

type decl struct {
	id   string
	typ  target.Type
	deps []string
}

func newFixture(t *testing.T, decls ...decl) *fixture {
	t.Helper()
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	reg := registry.New()
	for _, s := range decls {
		loc := filepath.Join(root, "packages", s.id)
		require.NoError(t, os.MkdirAll(loc, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(loc, s.id+".c"), []byte(s.id), 0o644))
		require.NoError(t, reg.Register(&target.Target{
			ID:           s.id,
			Type:         s.typ,
			Location:     loc,
			Dependencies: target.NormalizeDependencies(s.deps),
			SourceRoots:  []string{loc},
			Extensions:   []string{".c"},
			ManifestPath: filepath.Join(loc, "manifest.json"),
		}))
	}
	plan, err := resolver.Resolve(context.Background(), reg)
	require.NoError(t, err)

	tc := &stubToolchain{buildDir: buildDir}
	tracker := staleness.New(inmemorystore.New())
	out := &bytes.Buffer{}
	return &fixture{
		root: root,
		out:  out,
		tc:   tc,
		disp: NewDispatcher(Defaults()...),
		env: &Env{
			Out:      out,
			Registry: reg,
			Plan:     plan,
			Builder:  orchestrator.New(tc, tracker, nil, orchestrator.Options{Workers: 2}),
			Tracker:  tracker,
			Launcher: &fakeLauncher{},
			BuildDir: buildDir,
		},
	}
}

func (f *fixture) dispatch(name string, targets ...string) error {
	return f.disp.Dispatch(context.Background(), f.env, name, targets)
}

func (f *fixture) recorded(t *testing.T, id string) bool {
	t.Helper()
	_, ok, err := f.env.Tracker.Record(context.Background(), id)
	require.NoError(t, err)
	return ok
}

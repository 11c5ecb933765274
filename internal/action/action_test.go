package action

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/sosbs/internal/registry"
	"github.com/specialistvlad/sosbs/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skiftos(t *testing.T) *fixture {
	return newFixture(t,
		decl{id: "kernel", typ: target.Kernel},
		decl{id: "libc", typ: target.Library},
		decl{id: "shell", typ: target.Application, deps: []string{"libc"}},
		decl{id: "ps2", typ: target.Module, deps: []string{"kernel"}},
	)
}

func TestDispatch_Errors(t *testing.T) {
	f := skiftos(t)

	cases := []struct {
		name    string
		action  string
		targets []string
		want    error
	}{
		{"unknown action", "explode", nil, ErrUnknownAction},
		{"single action without target", "build", nil, ErrMissingTarget},
		{"unknown target", "build", []string{"nope"}, registry.ErrUnknownTarget},
		{"global action with target", "build-all", []string{"libc"}, ErrUnexpectedTarget},
		{"run with two targets", "run", []string{"libc", "shell"}, ErrUnexpectedTarget},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.dispatch(tc.action, tc.targets...)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Zero(t, f.tc.calls.Load())
}

func TestNewDispatcher_DuplicatePanics(t *testing.T) {
	assert.Panics(t, func() { NewDispatcher(Build{}, Build{}) })
}

func TestBuild_BuildsClosureOnly(t *testing.T) {
	f := skiftos(t)

	require.NoError(t, f.dispatch("build", "shell"))

	assert.True(t, f.recorded(t, "libc"))
	assert.True(t, f.recorded(t, "shell"))
	assert.False(t, f.recorded(t, "kernel"))
	assert.False(t, f.recorded(t, "ps2"))
	assert.Equal(t, int32(4), f.tc.calls.Load())

	// Nothing changed: second build is free.
	require.NoError(t, f.dispatch("build", "shell"))
	assert.Equal(t, int32(4), f.tc.calls.Load())
}

func TestBuild_FailureReturnsBuildError(t *testing.T) {
	f := skiftos(t)
	f.tc.fail.Store("libc", struct{}{})

	err := f.dispatch("build-all")

	require.ErrorIs(t, err, ErrBuildFailed)
	var be *BuildError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "build failed: 1 failed, 1 skipped", be.Error())
	assert.True(t, f.recorded(t, "kernel"))
	assert.True(t, f.recorded(t, "ps2"))
}

func TestClean_RemovesOutputsAndRecord(t *testing.T) {
	f := skiftos(t)
	require.NoError(t, f.dispatch("build", "libc"))
	out := filepath.Join(f.env.BuildDir, "libc", "liblibc.a")
	require.FileExists(t, out)

	require.NoError(t, f.dispatch("clean", "libc"))

	assert.NoFileExists(t, out)
	assert.NoDirExists(t, filepath.Join(f.env.BuildDir, "libc"))
	assert.False(t, f.recorded(t, "libc"))
	assert.Contains(t, f.out.String(), "libc")
}

func TestRebuild_RunsToolchainAgain(t *testing.T) {
	f := skiftos(t)
	require.NoError(t, f.dispatch("build", "libc"))
	before := f.tc.calls.Load()

	require.NoError(t, f.dispatch("rebuild", "libc"))

	assert.Equal(t, before+2, f.tc.calls.Load())
	assert.True(t, f.recorded(t, "libc"))
}

func TestAllVariants(t *testing.T) {
	f := skiftos(t)

	require.NoError(t, f.dispatch("build-all"))
	for _, id := range []string{"kernel", "libc", "shell", "ps2"} {
		assert.True(t, f.recorded(t, id), id)
	}

	require.NoError(t, f.dispatch("clean-all"))
	for _, id := range []string{"kernel", "libc", "shell", "ps2"} {
		assert.False(t, f.recorded(t, id), id)
	}

	before := f.tc.calls.Load()
	require.NoError(t, f.dispatch("rebuild-all"))
	assert.Equal(t, before+8, f.tc.calls.Load())
}

func TestCleanAll_PrunesRecordsOfRemovedTargets(t *testing.T) {
	f := skiftos(t)
	ctx := context.Background()
	orphanDir := filepath.Join(f.env.BuildDir, "oldlib")
	orphanOut := filepath.Join(orphanDir, "liboldlib.a")
	require.NoError(t, os.MkdirAll(orphanDir, 0o755))
	require.NoError(t, os.WriteFile(orphanOut, []byte("stale"), 0o644))
	old := &target.Target{ID: "oldlib", Type: target.Library, Location: f.root}
	_, err := f.env.Tracker.Commit(ctx, old, f.env.Tracker.IsStale(ctx, old, nil), nil, orphanOut)
	require.NoError(t, err)

	require.NoError(t, f.dispatch("clean-all"))

	assert.False(t, f.recorded(t, "oldlib"))
	assert.NoDirExists(t, orphanDir)
	assert.Contains(t, f.out.String(), "no longer registered")
}

func TestRun_LaunchesKernelAndTarget(t *testing.T) {
	f := skiftos(t)

	require.NoError(t, f.dispatch("run", "shell"))

	l := f.env.Launcher.(*fakeLauncher)
	assert.Equal(t, filepath.Join(f.env.BuildDir, "kernel", "kernel.bin"), l.kernel)
	assert.Equal(t, filepath.Join(f.env.BuildDir, "shell", "shell"), l.output)
}

func TestRun_NoKernel(t *testing.T) {
	f := newFixture(t, decl{id: "libc", typ: target.Library})
	assert.ErrorIs(t, f.dispatch("run", "libc"), ErrNoKernel)
}

func TestInfo(t *testing.T) {
	f := skiftos(t)
	require.NoError(t, f.dispatch("info", "shell"))

	out := f.out.String()
	assert.Contains(t, out, "Target shell:")
	assert.Contains(t, out, "Type: app")
	assert.Contains(t, out, "Dependencies: libc")
	assert.Contains(t, out, "Sources: 1")
	assert.Contains(t, out, "Output: "+filepath.Join(f.env.BuildDir, "shell", "shell"))
	assert.Contains(t, out, "Status: never built")

	f.out.Reset()
	require.NoError(t, f.dispatch("build", "shell"))
	require.NoError(t, f.dispatch("info-all"))
	out = f.out.String()
	assert.Contains(t, out, "Target kernel:")
	assert.Contains(t, out, "Dependencies: none")
	assert.Contains(t, out, "Status: built ")
	assert.Less(t, strings.Index(out, "Target libc:"), strings.Index(out, "Target shell:"))
}

func TestListAndHelp(t *testing.T) {
	f := skiftos(t)

	require.NoError(t, f.dispatch("list"))
	out := f.out.String()
	assert.Contains(t, out, "Applications: shell")
	assert.Contains(t, out, "Libraries: libc")
	assert.Contains(t, out, "Other: kernel, ps2")

	f.out.Reset()
	require.NoError(t, f.dispatch("list-other"))
	assert.Contains(t, f.out.String(), "Other: kernel, ps2")
	assert.NotContains(t, f.out.String(), "Libraries")

	f.out.Reset()
	require.NoError(t, f.dispatch("help"))
	out = f.out.String()
	assert.Contains(t, out, "kernel, libc, ps2, shell")
	assert.Contains(t, out, "build-all")
	assert.Contains(t, out, "Start the kernel and the specified target.")
	assert.Less(t, strings.Index(out, "Global actions:"), strings.Index(out, "clean-all"))
}

func TestClean_KeepsSourcesOutsideBuildDir(t *testing.T) {
	f := skiftos(t)
	f.env.BuildDir = ""
	require.NoError(t, f.dispatch("clean", "libc"))
	_, err := os.Stat(filepath.Join(f.root, "packages", "libc", "libc.c"))
	assert.NoError(t, err)
}

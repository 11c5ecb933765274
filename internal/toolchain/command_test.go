package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/sosbs/internal/target"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommand_CompileAndLink(t *testing.T) {
	// --- Arrange ---
	root := t.TempDir()
	buildDir := filepath.Join(root, "build")
	loc := filepath.Join(root, "packages", "libc")
	src := filepath.Join(loc, "sources", "a.c")
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte("A"), 0o644))

	libsystem := &target.Target{ID: "libsystem", Type: target.Library}
	tg := &target.Target{ID: "libc", Type: target.Library, Location: loc, Dependencies: []string{"libsystem"}}
	tc := NewCommand(Config{
		BuildDir: buildDir,
		Compile:  []string{"cp", PhSource, PhObject},
		Link: map[target.Type][]string{
			target.Library: {"sh", "-c", `echo {id}:{type} "$@" > {output}`, "sh", PhObjects, PhDeps},
		},
		Lookup: func(id string) (*target.Target, bool) {
			return libsystem, id == "libsystem"
		},
	})

	// --- Act ---
	obj, err := tc.Compile(context.Background(), src, tg)
	require.NoError(t, err)
	out, err := tc.Link(context.Background(), tg, []string{obj})
	require.NoError(t, err)

	// --- Assert ---
	assert.Equal(t, filepath.Join(buildDir, "libc", "obj", "sources", "a.c.o"), obj)
	data, err := os.ReadFile(obj)
	require.NoError(t, err)
	assert.Equal(t, "A", string(data))

	assert.Equal(t, filepath.Join(buildDir, "libc", "liblibc.a"), out)
	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "libc:lib "+obj+" "+filepath.Join(buildDir, "libsystem", "liblibsystem.a")+"\n", string(data))
}

func TestCommand_Failure(t *testing.T) {
	root := t.TempDir()
	tg := &target.Target{ID: "app", Type: target.Application, Location: root}
	tc := NewCommand(Config{
		BuildDir: filepath.Join(root, "build"),
		Compile:  []string{"sh", "-c", "echo boom >&2; exit 3"},
	})

	_, err := tc.Compile(context.Background(), filepath.Join(root, "main.c"), tg)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Contains(t, cmdErr.Output, "boom")
	assert.Contains(t, err.Error(), "boom")
}

func TestCommand_UnknownType(t *testing.T) {
	tc := NewCommand(Config{BuildDir: t.TempDir()})
	_, err := tc.Link(context.Background(), &target.Target{ID: "x", Type: target.Invalid}, nil)
	assert.ErrorContains(t, err, "no link command")
}

func TestExpand(t *testing.T) {
	tc := NewCommand(Config{})
	got := tc.expand(
		[]string{"ld", "-o", PhOutput, PhObjects, "--name={id}", PhDeps},
		map[string]string{PhOutput: "out.bin", PhID: "kernel"},
		[]string{"a.o", "b.o"},
		nil,
	)
	assert.Equal(t, []string{"ld", "-o", "out.bin", "a.o", "b.o", "--name=kernel"}, got)
}

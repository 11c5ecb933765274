package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0644))
	}
}

func TestFindFilesByExtension(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "z.c", "a/b.c", "a/notes.txt", "boot.s", "m/k.c")

	files, err := FindFilesByExtension(root, ".c", ".s")
	require.NoError(t, err)

	want := []string{
		filepath.Join(root, "a/b.c"),
		filepath.Join(root, "boot.s"),
		filepath.Join(root, "m/k.c"),
		filepath.Join(root, "z.c"),
	}
	assert.Equal(t, want, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(filepath.Join(t.TempDir(), "nope"), ".c")
	assert.Error(t, err)
}

func TestFindFilesByExtension_PanicsWithoutExtensions(t *testing.T) {
	assert.Panics(t, func() { _, _ = FindFilesByExtension(t.TempDir()) })
}

func TestIsDir(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "file.c")

	assert.True(t, IsDir(root))
	assert.False(t, IsDir(filepath.Join(root, "file.c")))
	assert.False(t, IsDir(filepath.Join(root, "missing")))
}

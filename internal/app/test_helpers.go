package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// Reset empties the buffer.
func (b *SafeBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.b.Reset()
}

// TestToolchain returns templates that stand in for a real compiler: objects
// are copies of their sources and outputs are the concatenated objects.
func TestToolchain() *ToolchainConfig {
	link := []string{"sh", "-c", `cat "$@" > {output}`, "sh", "{objects}"}
	return &ToolchainConfig{
		Compile: []string{"cp", "{source}", "{object}"},
		Link:    &LinkConfig{Lib: link, App: link, Kernel: link, Module: link},
	}
}

// WriteTree creates files (relative path -> content) under root.
func WriteTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// SetupAppTest creates an App over root using the test toolchain and debug
// logging. mutate, if non-nil, adjusts the configuration first.
func SetupAppTest(t *testing.T, root string, mutate func(*Config)) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	cfg := DefaultConfig()
	cfg.Root = root
	cfg.Workers = 2
	cfg.LogLevel = "debug"
	cfg.Toolchain = TestToolchain()
	if mutate != nil {
		mutate(&cfg)
	}
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	testApp, err := NewApp(out, logs, validated)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testApp.Close()
	})
	return testApp, out, logs
}

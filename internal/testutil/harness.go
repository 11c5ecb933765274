// Package testutil runs sosbs end to end against temporary project trees.
package testutil

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/sosbs/internal/app"
	"github.com/specialistvlad/sosbs/internal/cli"
	"github.com/stretchr/testify/require"
)

// ProjectFile configures a toolchain made of shell utilities. A source
// containing the word FAIL does not compile.
const ProjectFile = `
workers = 4

toolchain {
  compile = ["sh", "-c", "if grep -q FAIL \"$1\"; then echo \"$1: error\"; exit 1; fi; cp \"$1\" \"$2\"", "sh", "{source}", "{object}"]
  link {
    lib    = ["sh", "-c", "cat \"$@\" > {output}", "sh", "{objects}"]
    app    = ["sh", "-c", "cat \"$@\" > {output}", "sh", "{objects}"]
    kernel = ["sh", "-c", "cat \"$@\" > {output}", "sh", "{objects}"]
    module = ["sh", "-c", "cat \"$@\" > {output}", "sh", "{objects}"]
  }
}
`

// HarnessResult holds the outcomes of one command invocation.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
}

// Project is a temporary source tree that commands run against.
type Project struct {
	t    *testing.T
	Root string
}

// NewProject writes files under a fresh directory. ProjectFile is added
// unless files provides its own configuration.
func NewProject(t *testing.T, files map[string]string) *Project {
	t.Helper()
	p := &Project{t: t, Root: t.TempDir()}
	if _, ok := files[app.ConfigFileName]; !ok {
		p.Write(app.ConfigFileName, ProjectFile)
	}
	app.WriteTree(t, p.Root, files)
	return p
}

// Write replaces the file at rel with content.
func (p *Project) Write(rel, content string) {
	p.t.Helper()
	app.WriteTree(p.t, p.Root, map[string]string{rel: content})
}

// Remove deletes the file at rel.
func (p *Project) Remove(rel string) {
	p.t.Helper()
	require.NoError(p.t, os.Remove(p.Path(rel)))
}

// Read returns the content of the file at rel.
func (p *Project) Read(rel string) string {
	p.t.Helper()
	data, err := os.ReadFile(p.Path(rel))
	require.NoError(p.t, err)
	return string(data)
}

// Path resolves rel against the project root.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, rel)
}

// Run executes sosbs with args using a background context.
func (p *Project) Run(args ...string) *HarnessResult {
	p.t.Helper()
	return p.RunWithContext(context.Background(), args...)
}

// RunWithContext executes sosbs with args the same way the binary does.
func (p *Project) RunWithContext(ctx context.Context, args ...string) *HarnessResult {
	p.t.Helper()

	out, logs := &app.SafeBuffer{}, &app.SafeBuffer{}
	full := append([]string{"--root", p.Root, "--log-level", "debug"}, args...)
	err := cli.Execute(ctx, out, logs, full)

	if os.Getenv("SOSBS_TEST_LOGS") == "true" {
		p.t.Logf("--- Full Log Output for %s %v ---\n%s", p.t.Name(), args, logs.String())
	}

	return &HarnessResult{
		Output:    out.String(),
		LogOutput: logs.String(),
		Err:       err,
	}
}

// Package launcher starts a built kernel together with a built target.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/specialistvlad/sosbs/internal/ctxlog"
)

// Placeholders understood by the launch template.
const (
	PhKernel = "{kernel}"
	PhOutput = "{output}"
)

// DefaultCommand boots the kernel in QEMU with the target as initrd.
var DefaultCommand = []string{"qemu-system-i386", "-kernel", PhKernel, "-initrd", PhOutput}

// Launcher hands built outputs to whatever runs them.
type Launcher interface {
	Launch(ctx context.Context, kernel, output string) error
}

// Command launches an external program built from a template. The process
// inherits the given standard streams and Launch blocks until it exits.
type Command struct {
	Template []string
	Stdin    io.Reader
	Stdout   io.Writer
	Stderr   io.Writer
}

// NewCommand returns a launcher for tmpl wired to the process's own streams.
// An empty tmpl selects DefaultCommand.
func NewCommand(tmpl []string) *Command {
	if len(tmpl) == 0 {
		tmpl = DefaultCommand
	}
	return &Command{Template: tmpl, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Launch runs the template with {kernel} and {output} substituted.
func (c *Command) Launch(ctx context.Context, kernel, output string) error {
	if len(c.Template) == 0 {
		return errors.New("empty launch command")
	}
	r := strings.NewReplacer(PhKernel, kernel, PhOutput, output)
	args := make([]string, len(c.Template))
	for i, el := range c.Template {
		args[i] = r.Replace(el)
	}

	ctxlog.FromContext(ctx).Info("Launching.", "kernel", kernel, "output", output, "args", args)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin, cmd.Stdout, cmd.Stderr = c.Stdin, c.Stdout, c.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("launch %s: %w", args[0], err)
	}
	return nil
}

var _ Launcher = (*Command)(nil)

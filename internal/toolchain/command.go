package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/sosbs/internal/ctxlog"
	"github.com/specialistvlad/sosbs/internal/target"
)

// Placeholders understood by command templates. {objects} and {deps} expand to
// several arguments and must therefore stand alone as a template element.
const (
	PhSource   = "{source}"
	PhObject   = "{object}"
	PhOutput   = "{output}"
	PhObjects  = "{objects}"
	PhDeps     = "{deps}"
	PhID       = "{id}"
	PhLocation = "{location}"
	PhType     = "{type}"
)

// DefaultCompile is the compile template used when none is configured.
var DefaultCompile = []string{"cc", "-c", PhSource, "-o", PhObject}

// DefaultLink holds the per-type link templates used when none is configured.
var DefaultLink = map[target.Type][]string{
	target.Library:     {"ar", "rcs", PhOutput, PhObjects},
	target.Application: {"cc", "-o", PhOutput, PhObjects, PhDeps},
	target.Kernel:      {"ld", "-o", PhOutput, PhObjects, PhDeps},
	target.Module:      {"ld", "-r", "-o", PhOutput, PhObjects},
}

// Config configures a Command toolchain.
type Config struct {
	// BuildDir receives every artifact, one subdirectory per target.
	BuildDir string
	// Dir is the working directory of spawned commands. Empty means the
	// current directory.
	Dir string
	// Compile is the compile template. Nil selects DefaultCompile.
	Compile []string
	// Link holds link templates by target type. Missing types fall back to
	// DefaultLink.
	Link map[target.Type][]string
	// Lookup resolves dependency IDs so {deps} can expand to the outputs of
	// library dependencies. Nil leaves {deps} empty.
	Lookup func(id string) (*target.Target, bool)
}

// CommandError reports a failed external command with its captured output.
type CommandError struct {
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %v", strings.Join(e.Args, " "), e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// Command is a Toolchain that spawns external programs from templates.
type Command struct {
	cfg Config
}

// NewCommand returns a Command toolchain for cfg.
func NewCommand(cfg Config) *Command {
	if cfg.Compile == nil {
		cfg.Compile = DefaultCompile
	}
	return &Command{cfg: cfg}
}

// Compile runs the compile template for source.
func (c *Command) Compile(ctx context.Context, source string, t *target.Target) (string, error) {
	object := t.ObjectPath(c.cfg.BuildDir, source)
	if err := os.MkdirAll(filepath.Dir(object), 0o755); err != nil {
		return "", err
	}
	vars := c.vars(t)
	vars[PhSource] = source
	vars[PhObject] = object
	vars[PhOutput] = object

	if err := c.run(ctx, c.expand(c.cfg.Compile, vars, nil, nil)); err != nil {
		return "", err
	}
	return object, nil
}

// Link runs the link template for the type of t.
func (c *Command) Link(ctx context.Context, t *target.Target, artifacts []string) (string, error) {
	tmpl, ok := c.cfg.Link[t.Type]
	if !ok {
		tmpl, ok = DefaultLink[t.Type]
	}
	if !ok {
		return "", fmt.Errorf("no link command for target type %s", t.Type)
	}

	output := t.OutputPath(c.cfg.BuildDir)
	if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
		return "", err
	}
	// ar appends to an existing archive; start from scratch.
	if err := os.Remove(output); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	vars := c.vars(t)
	vars[PhOutput] = output

	if err := c.run(ctx, c.expand(tmpl, vars, artifacts, c.depOutputs(t))); err != nil {
		return "", err
	}
	return output, nil
}

func (c *Command) vars(t *target.Target) map[string]string {
	return map[string]string{
		PhID:       t.ID,
		PhLocation: t.Location,
		PhType:     t.Type.String(),
	}
}

func (c *Command) depOutputs(t *target.Target) []string {
	if c.cfg.Lookup == nil {
		return nil
	}
	var outs []string
	for _, id := range t.Dependencies {
		dep, ok := c.cfg.Lookup(id)
		if ok && dep.Type == target.Library {
			outs = append(outs, dep.OutputPath(c.cfg.BuildDir))
		}
	}
	return outs
}

// expand substitutes placeholders in tmpl. Elements equal to {objects} or
// {deps} are replaced by the given lists.
func (c *Command) expand(tmpl []string, vars map[string]string, objects, deps []string) []string {
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, k, v)
	}
	r := strings.NewReplacer(pairs...)

	args := make([]string, 0, len(tmpl)+len(objects)+len(deps))
	for _, el := range tmpl {
		switch el {
		case PhObjects:
			args = append(args, objects...)
		case PhDeps:
			args = append(args, deps...)
		default:
			args = append(args, r.Replace(el))
		}
	}
	return args
}

func (c *Command) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("empty command template")
	}
	ctxlog.FromContext(ctx).Debug("Running toolchain command.", "args", args)

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = c.cfg.Dir
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return &CommandError{Args: args, Output: out.String(), Err: err}
	}
	return nil
}

var _ Toolchain = (*Command)(nil)

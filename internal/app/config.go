package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/sosbs/internal/manifest"
	"github.com/specialistvlad/sosbs/internal/target"
)

// ConfigFileName is the project configuration file looked up in the root.
const ConfigFileName = "sosbs.hcl"

// Config holds all the necessary configuration for an App instance to run.
// Path fields other than Root are relative to Root unless absolute.
type Config struct {
	Root string `validate:"required"`

	TargetRoots      []string `hcl:"target_roots,optional" validate:"min=1,dive,required"`
	BuildDir         string   `hcl:"build_dir,optional" validate:"required"`
	StateDir         string   `hcl:"state_dir,optional"`
	Workers          int      `hcl:"workers,optional" validate:"gte=0"`
	StopOnError      bool     `hcl:"stop_on_error,optional"`
	SourceExtensions []string `hcl:"source_extensions,optional" validate:"min=1,dive,startswith=."`
	LogLevel         string   `hcl:"log_level,optional" validate:"oneof=debug info warn error"`
	LogFormat        string   `hcl:"log_format,optional" validate:"oneof=text json"`
	HealthcheckPort  int      `hcl:"healthcheck_port,optional" validate:"gte=0,lte=65535"`
	Verbose          bool     `hcl:"verbose,optional"`

	Toolchain *ToolchainConfig `hcl:"toolchain,block"`
	Launcher  *LauncherConfig  `hcl:"launcher,block"`
}

// ToolchainConfig overrides the compile and link command templates.
type ToolchainConfig struct {
	Compile []string    `hcl:"compile,optional"`
	Link    *LinkConfig `hcl:"link,block"`
}

// LinkConfig holds one link template per target type.
type LinkConfig struct {
	Lib    []string `hcl:"lib,optional"`
	App    []string `hcl:"app,optional"`
	Kernel []string `hcl:"kernel,optional"`
	Module []string `hcl:"module,optional"`
}

// LauncherConfig overrides the command used by the run action.
type LauncherConfig struct {
	Command []string `hcl:"command,optional"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
func DefaultConfig() Config {
	return Config{
		Root:             ".",
		TargetRoots:      []string{"packages"},
		BuildDir:         "build",
		StateDir:         ".sosbs",
		Workers:          runtime.NumCPU(),
		SourceExtensions: []string{".c", ".cpp", ".s", ".S"},
		LogLevel:         "warn",
		LogFormat:        "text",
	}
}

// LoadFile decodes the HCL file at path on top of cfg. Attributes missing
// from the file keep their current values. Expressions may reference env.NAME.
func LoadFile(path string, cfg *Config) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse %s: %w", path, diags)
	}
	if diags := gohcl.DecodeBody(file.Body, manifest.EvalContext(filepath.Dir(path)), cfg); diags.HasErrors() {
		return fmt.Errorf("failed to decode %s: %w", path, diags)
	}
	return nil
}

// LoadProjectFile applies <root>/sosbs.hcl to cfg if the file exists.
func LoadProjectFile(cfg *Config) (bool, error) {
	path := filepath.Join(cfg.Root, ConfigFileName)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return true, LoadFile(path, cfg)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig validates cfg and returns a copy of it with Root made absolute.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root != "" {
		abs, err := filepath.Abs(cfg.Root)
		if err != nil {
			return nil, fmt.Errorf("invalid root %q: %w", cfg.Root, err)
		}
		cfg.Root = abs
	}
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q", fe.Namespace(), fe.Tag()))
			}
			return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// path resolves p against Root.
func (c *Config) path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

// linkTemplates converts the link block into per-type templates.
func (c *Config) linkTemplates() map[target.Type][]string {
	out := make(map[target.Type][]string)
	if c.Toolchain == nil || c.Toolchain.Link == nil {
		return out
	}
	l := c.Toolchain.Link
	for typ, tmpl := range map[target.Type][]string{
		target.Library:     l.Lib,
		target.Application: l.App,
		target.Kernel:      l.Kernel,
		target.Module:      l.Module,
	} {
		if len(tmpl) > 0 {
			out[typ] = tmpl
		}
	}
	return out
}

func (c *Config) compileTemplate() []string {
	if c.Toolchain == nil || len(c.Toolchain.Compile) == 0 {
		return nil
	}
	return c.Toolchain.Compile
}

func (c *Config) launchTemplate() []string {
	if c.Launcher == nil {
		return nil
	}
	return c.Launcher.Command
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/sosbs/internal/action"
	"github.com/specialistvlad/sosbs/internal/app"
	"github.com/specialistvlad/sosbs/internal/orchestrator"
	"github.com/specialistvlad/sosbs/internal/registry"
	"github.com/specialistvlad/sosbs/internal/resolver"
	"github.com/spf13/cobra"
)

// Process exit codes.
const (
	ExitOK           = 0
	ExitBuildFailure = 1
	ExitUserError    = 2
	ExitConfigError  = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

type options struct {
	root        string
	configFile  string
	targetRoots []string
	buildDir    string
	stateDir    string
	ephemeral   bool
	workers     int
	stopOnError bool
	logLevel    string
	logFormat   string
	healthPort  int
	verbose     bool
}

// NewRootCommand builds the command tree. Every registered action becomes a
// subcommand; "help" replaces cobra's own help command.
func NewRootCommand(outW, errW io.Writer) *cobra.Command {
	opts := &options{}
	defaults := app.DefaultConfig()

	root := &cobra.Command{
		Use:           "sosbs [flags] <action> [target...]",
		Short:         "sosbs is the skiftOS build system",
		Long:          "sosbs discovers targets from manifests, resolves their dependencies and builds only what changed.",
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return usage(cmd, opts, outW, errW)
			}
			return &ExitError{
				Code:    ExitUserError,
				Message: fmt.Sprintf("ERROR: No action named '%s'! See: sosbs help", args[0]),
			}
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(outW)
	root.SetErr(errW)

	pf := root.PersistentFlags()
	pf.StringVarP(&opts.root, "root", "C", ".", "Project root directory.")
	pf.StringVar(&opts.configFile, "config", "", "Project configuration file (default <root>/"+app.ConfigFileName+" if present).")
	pf.StringSliceVar(&opts.targetRoots, "target-roots", defaults.TargetRoots, "Directories whose subdirectories hold target manifests.")
	pf.StringVar(&opts.buildDir, "build-dir", defaults.BuildDir, "Directory receiving build artifacts.")
	pf.StringVar(&opts.stateDir, "state-dir", defaults.StateDir, "Directory persisting staleness records.")
	pf.BoolVar(&opts.ephemeral, "ephemeral", false, "Keep staleness records in memory only.")
	pf.IntVarP(&opts.workers, "workers", "j", defaults.Workers, "Number of targets built concurrently within a layer.")
	pf.BoolVar(&opts.stopOnError, "stop-on-error", false, "Stop scheduling new targets after the first failure.")
	pf.StringVar(&opts.logLevel, "log-level", defaults.LogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&opts.logFormat, "log-format", defaults.LogFormat, "Log output format. Options: 'text' or 'json'.")
	pf.IntVar(&opts.healthPort, "healthcheck-port", 0, "Port for the HTTP health check and metrics server. 0 is disabled.")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Print every compiled source.")

	for _, a := range action.Defaults() {
		cmd := actionCommand(a, opts, outW, errW)
		if a.Name() == "help" {
			root.SetHelpCommand(cmd)
			continue
		}
		root.AddCommand(cmd)
	}
	return root
}

func actionCommand(a action.Action, opts *options, outW, errW io.Writer) *cobra.Command {
	use := a.Name()
	if a.Scope() == action.Single {
		use += " <target>..."
	}
	return &cobra.Command{
		Use:   use,
		Short: a.Description(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return dispatch(cmd, opts, outW, errW, a.Name(), args)
		},
	}
}

func newApp(cmd *cobra.Command, opts *options, outW, errW io.Writer) (*app.App, error) {
	cfg, err := buildConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	a, err := app.NewApp(outW, errW, cfg)
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Message: err.Error()}
	}
	return a, nil
}

func dispatch(cmd *cobra.Command, opts *options, outW, errW io.Writer, name string, args []string) error {
	a, err := newApp(cmd, opts, outW, errW)
	if err != nil {
		return err
	}
	defer a.Close()
	return classify(a.Dispatch(cmd.Context(), name, args))
}

func usage(cmd *cobra.Command, opts *options, outW, errW io.Writer) error {
	a, err := newApp(cmd, opts, outW, errW)
	if err != nil {
		return err
	}
	defer a.Close()
	a.Usage(cmd.Context())
	return nil
}

// classify maps an error to the process exit code it deserves.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}

	code := ExitBuildFailure
	msg := "ERROR: " + err.Error()
	switch {
	case errors.Is(err, action.ErrBuildFailed), errors.Is(err, orchestrator.ErrCompileFailure),
		errors.Is(err, orchestrator.ErrLinkFailure), errors.Is(err, context.Canceled):
		code = ExitBuildFailure
	case errors.Is(err, action.ErrUnknownAction):
		code = ExitUserError
		msg += "\nSee: sosbs help"
	case errors.Is(err, action.ErrMissingTarget), errors.Is(err, action.ErrUnexpectedTarget),
		errors.Is(err, action.ErrNoKernel), errors.Is(err, registry.ErrUnknownTarget):
		code = ExitUserError
	case errors.Is(err, registry.ErrDuplicateTargetID), errors.Is(err, resolver.ErrCyclicDependency),
		errors.Is(err, resolver.ErrUnresolvedDependency):
		code = ExitConfigError
	}
	return &ExitError{Code: code, Message: msg}
}

// Execute runs the command line args and returns an *ExitError for any
// failure, including flag parsing errors.
func Execute(ctx context.Context, outW, errW io.Writer, args []string) error {
	root := NewRootCommand(outW, errW)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	return &ExitError{Code: ExitUserError, Message: "ERROR: " + err.Error()}
}

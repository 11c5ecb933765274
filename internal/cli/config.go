package cli

import (
	"github.com/specialistvlad/sosbs/internal/app"
	"github.com/spf13/cobra"
)

// buildConfig layers defaults, the project file and explicitly set flags,
// then validates the result.
func buildConfig(cmd *cobra.Command, opts *options) (*app.Config, error) {
	cfg := app.DefaultConfig()
	cfg.Root = opts.root

	var err error
	if opts.configFile != "" {
		err = app.LoadFile(opts.configFile, &cfg)
	} else {
		_, err = app.LoadProjectFile(&cfg)
	}
	if err != nil {
		return nil, &ExitError{Code: ExitConfigError, Message: "ERROR: " + err.Error()}
	}

	flags := cmd.Flags()
	if flags.Changed("target-roots") {
		cfg.TargetRoots = opts.targetRoots
	}
	if flags.Changed("build-dir") {
		cfg.BuildDir = opts.buildDir
	}
	if flags.Changed("state-dir") {
		cfg.StateDir = opts.stateDir
	}
	if opts.ephemeral {
		cfg.StateDir = ""
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("stop-on-error") {
		cfg.StopOnError = opts.stopOnError
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = opts.logFormat
	}
	if flags.Changed("healthcheck-port") {
		cfg.HealthcheckPort = opts.healthPort
	}
	if flags.Changed("verbose") {
		cfg.Verbose = opts.verbose
	}

	validated, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: ExitUserError, Message: "ERROR: " + err.Error()}
	}
	return validated, nil
}

// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/multisrc/internal/build"
	"github.com/invowk/multisrc/internal/config"
	"github.com/invowk/multisrc/internal/issue"
	"github.com/invowk/multisrc/internal/multisrc"
	"github.com/invowk/multisrc/internal/publish"
)

type (
	// ConfigProvider loads the project configuration.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// S3ClientFactory creates the object store client used by publish.
	S3ClientFactory func(ctx context.Context, cfg publish.ClientConfig) (publish.PutObjectAPI, error)

	// App wires the CLI to its services. Every command handler receives the
	// App and goes through it for configuration, builds and output.
	App struct {
		Config      ConfigProvider
		NewS3Client S3ClientFactory
		stdout      io.Writer
		stderr      io.Writer
		flags       rootFlags
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config      ConfigProvider
		NewS3Client S3ClientFactory
		Stdout      io.Writer
		Stderr      io.Writer
	}

	rootFlags struct {
		configPath string
		verbose    bool
	}
)

// NewApp creates the CLI composition root.
func NewApp(deps Dependencies) (*App, error) {
	app := &App{
		Config:      deps.Config,
		NewS3Client: deps.NewS3Client,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.NewS3Client == nil {
		app.NewS3Client = func(ctx context.Context, cfg publish.ClientConfig) (publish.PutObjectAPI, error) {
			return publish.NewClient(ctx, cfg)
		}
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app, nil
}

// loadConfig loads the configuration named by --config (or ./multisrc.cue)
// with the multisrc values declared.
func (a *App) loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return nil, err
	}
	if err := multisrc.Declare(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// logger returns a logger writing to stderr at the configured level;
// --verbose forces debug.
func (a *App) logger(cfg *config.Config) *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{Prefix: config.AppName})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	if a.flags.verbose {
		level = log.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

// newBuild loads the configuration and sets up a build with the multisrc
// extension enabled.
func (a *App) newBuild(ctx context.Context) (*build.Application, error) {
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	app, err := build.New(build.Options{
		Config:     cfg,
		Logger:     a.logger(cfg),
		Extensions: []build.SetupFunc{multisrc.Setup},
	})
	if errors.Is(err, build.ErrSourceRootMissing) {
		return nil, issue.NewErrorContext().
			WithOperation("set up build").
			WithResource(cfg.SourceDir).
			WithSuggestion("Create the directory or fix source_dir in " + config.FileName).
			Wrap(err).
			BuildError()
	}
	return app, err
}

// fail prints err and returns the exit error for RunE. Usage is not shown
// for runtime failures.
func (a *App) fail(cmd *cobra.Command, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	fmt.Fprintf(a.stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, a.flags.verbose))
	if a.flags.verbose {
		if is := issue.Get(classifyError(err)); is != nil {
			if guide, renderErr := is.Render("notty"); renderErr == nil {
				fmt.Fprint(a.stderr, guide)
			}
		}
	}
	return &ExitError{Code: 1}
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// print their suggestions; in verbose mode the full chain follows.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}

// classifyError maps an error to its catalog entry; 0 when none applies.
func classifyError(err error) issue.Id {
	var ae *issue.ActionableError
	switch {
	case errors.Is(err, build.ErrSourceRootMissing):
		return issue.SourceRootMissingId
	case errors.Is(err, multisrc.ErrTemplate):
		return issue.TemplateRenderFailedId
	case errors.Is(err, publish.ErrNoBucket):
		return issue.PublishFailedId
	case errors.Is(err, fs.ErrNotExist):
		return issue.DocumentNotFoundId
	case errors.As(err, &ae) && ae.Operation == "resolve document":
		return issue.DocumentNotFoundId
	case errors.As(err, &ae) && ae.Operation == "load configuration":
		return issue.ConfigLoadFailedId
	case errors.As(err, &ae) && ae.Operation == "publish site":
		return issue.PublishFailedId
	}
	return 0
}

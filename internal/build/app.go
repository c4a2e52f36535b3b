// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/invowk/multisrc/internal/config"
	"github.com/invowk/multisrc/internal/domains"
	"github.com/invowk/multisrc/internal/environment"
	"github.com/invowk/multisrc/internal/registry"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
)

// ErrSourceRootMissing is returned when the primary source root is not a directory.
var ErrSourceRootMissing = errors.New("source root does not exist")

type (
	// SetupFunc sets up an extension on app and returns its metadata.
	SetupFunc func(app *Application) (registry.ExtensionMetadata, error)

	// BuilderInitedHandler runs once, after setup and before any document is read.
	BuilderInitedHandler func(ctx context.Context, app *Application) error

	// SourceReadHandler may rewrite the raw source of docname in place
	// before it is parsed.
	SourceReadHandler func(ctx context.Context, app *Application, docname string, source *string) error

	// Options configures an Application.
	Options struct {
		// Config defaults to config.DefaultConfig().
		Config *config.Config
		// Logger defaults to a logger discarding everything.
		Logger *log.Logger
		// Extensions are set up in order before the environment is created.
		Extensions []SetupFunc
		// Metrics defaults to a fresh registry.
		Metrics *prometheus.Registry
	}

	// Application is a configured documentation build.
	Application struct {
		cfg     *config.Config
		reg     *registry.Registry
		logger  *log.Logger
		metrics *prometheus.Registry
		stats   *buildMetrics

		srcdir     string
		doctreeDir string
		outdir     string

		primary *environment.BuildEnvironment
		env     environment.Env

		onBuilderInited []BuilderInitedHandler
		onSourceRead    []SourceReadHandler
		inited          bool
	}
)

// New sets up extensions and creates the primary environment. The primary
// source root must exist.
func New(opts Options) (*Application, error) {
	app := &Application{
		cfg:     opts.Config,
		reg:     registry.New(),
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if app.cfg == nil {
		app.cfg = config.DefaultConfig()
	}
	if app.logger == nil {
		app.logger = log.New(io.Discard)
	}
	if app.metrics == nil {
		app.metrics = prometheus.NewRegistry()
	}
	app.stats = newBuildMetrics(app.metrics)

	if err := domains.RegisterBuiltins(app.reg); err != nil {
		return nil, err
	}

	var err error
	if app.srcdir, err = app.cfg.SourcePath(); err != nil {
		return nil, err
	}
	if app.doctreeDir, err = app.cfg.DoctreeDir(); err != nil {
		return nil, err
	}
	if app.outdir, err = app.cfg.OutDir(); err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(app.srcdir); statErr != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrSourceRootMissing, app.srcdir)
	}

	for _, setup := range opts.Extensions {
		meta, err := setup(app)
		if err != nil {
			return nil, fmt.Errorf("set up extension: %w", err)
		}
		if err := app.reg.AddExtension(meta); err != nil {
			return nil, err
		}
		app.logger.Debug("extension set up", "name", meta.Name, "version", meta.Version)
	}

	primary, err := environment.New(app, app.srcdir)
	if err != nil {
		return nil, err
	}
	if err := primary.Restore(); err != nil {
		return nil, err
	}
	app.primary = primary
	app.env = primary
	return app, nil
}

func (a *Application) Config() *config.Config        { return a.cfg }
func (a *Application) Registry() *registry.Registry  { return a.reg }
func (a *Application) Logger() *log.Logger           { return a.logger }
func (a *Application) Metrics() *prometheus.Registry { return a.metrics }
func (a *Application) DoctreeDir() string            { return a.doctreeDir }
func (a *Application) SrcDir() string                { return a.srcdir }
func (a *Application) OutDir() string                { return a.outdir }
func (a *Application) Env() environment.Env          { return a.env }
func (a *Application) Primary() environment.Env      { return a.primary }

// OnBuilderInited subscribes h to the builder-inited event.
func (a *Application) OnBuilderInited(h BuilderInitedHandler) {
	a.onBuilderInited = append(a.onBuilderInited, h)
}

// OnSourceRead subscribes h to the source-read event.
func (a *Application) OnSourceRead(h SourceReadHandler) {
	a.onSourceRead = append(a.onSourceRead, h)
}

// DecorateEnv replaces the environment the build works against with
// wrap(current). Meant for builder-inited handlers.
func (a *Application) DecorateEnv(wrap func(environment.Env) environment.Env) {
	a.env = wrap(a.env)
}

// Init emits builder-inited. Only the first call has an effect.
func (a *Application) Init(ctx context.Context) error {
	if a.inited {
		return nil
	}
	a.inited = true
	for _, h := range a.onBuilderInited {
		if err := h(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

// WriteMetrics writes the build metrics in the Prometheus text format.
func (a *Application) WriteMetrics(path string) error {
	if err := prometheus.WriteToTextfile(path, a.metrics); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

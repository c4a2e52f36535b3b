// SPDX-License-Identifier: MPL-2.0

package multisrc

import (
	"context"
	"errors"
	"fmt"

	"github.com/invowk/multisrc/internal/build"
	"github.com/invowk/multisrc/internal/config"
	"github.com/invowk/multisrc/internal/environment"
	"github.com/invowk/multisrc/internal/registry"
)

const (
	// Name is the extension name.
	Name = "multisrc"
	// Version is the extension version.
	Version = "1.0.0"
	// PathsOption is the configuration value listing the source roots.
	PathsOption = "multisrc_paths"

	envVersion = 1
)

// extension is the per-application state shared by the event handlers.
type extension struct {
	metrics  *metrics
	renderer *TemplateRenderer
}

// Declare adds multisrc_paths (default ["."], rebuild scope env) to cfg.
// Declaring it twice is harmless.
func Declare(cfg *config.Config) error {
	err := cfg.AddValue(PathsOption, []string{"."}, config.RebuildEnv)
	if errors.Is(err, config.ErrDuplicateValue) {
		return nil
	}
	return err
}

// ExtraRoots returns the absolute extra source roots: every multisrc_paths
// entry after the first, resolved against the configuration directory.
// Duplicates are kept.
func ExtraRoots(cfg *config.Config) ([]string, error) {
	paths := cfg.StringSlice(PathsOption)
	if len(paths) <= 1 {
		return nil, nil
	}
	roots := make([]string, 0, len(paths)-1)
	for _, p := range paths[1:] {
		root, err := cfg.ResolvePath(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", PathsOption, err)
		}
		roots = append(roots, root)
	}
	return roots, nil
}

// Setup is the build.SetupFunc of the extension.
func Setup(app *build.Application) (registry.ExtensionMetadata, error) {
	if err := Declare(app.Config()); err != nil {
		return registry.ExtensionMetadata{}, err
	}

	ext := &extension{metrics: newMetrics(app.Metrics())}
	app.OnBuilderInited(ext.builderInited)
	app.OnSourceRead(ext.sourceRead)

	return registry.ExtensionMetadata{Name: Name, Version: Version, EnvVersion: envVersion}, nil
}

// builderInited bootstraps one shadow environment per extra root and wraps
// the host environment so discovery and resolution see every root.
func (x *extension) builderInited(_ context.Context, app *build.Application) error {
	extras, err := ExtraRoots(app.Config())
	if err != nil {
		return err
	}

	shadows := make([]environment.Env, 0, len(extras))
	for env, err := range ShadowEnvironments(app, extras) {
		if err != nil {
			return err
		}
		shadows = append(shadows, env)
	}

	app.DecorateEnv(func(primary environment.Env) environment.Env {
		env := NewEnvironment(primary, shadows)
		env.metrics = x.metrics
		return env
	})
	x.renderer = NewTemplateRenderer(append([]string{app.SrcDir()}, extras...), app.Config().HTMLContext)

	app.Logger().Debug("multisrc enabled", "primary", app.SrcDir(), "extra_roots", extras)
	return nil
}

// sourceRead renders the raw source as a template before it is parsed.
func (x *extension) sourceRead(_ context.Context, _ *build.Application, docname string, source *string) error {
	rendered, err := x.renderer.Render(docname, *source)
	if err != nil {
		return err
	}
	*source = rendered
	return nil
}

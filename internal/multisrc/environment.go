// SPDX-License-Identifier: MPL-2.0

package multisrc

import (
	"context"
	"path/filepath"

	"github.com/invowk/multisrc/internal/environment"
)

// Environment wraps the primary environment. Discovery merges the shadow
// environments into the primary's found set; resolution falls back to the
// shadows when the primary has no file. Everything else is the primary's.
type Environment struct {
	environment.Env

	shadows []environment.Env
	metrics *metrics
}

// NewEnvironment wraps primary with shadows, which are consulted in order.
func NewEnvironment(primary environment.Env, shadows []environment.Env) *Environment {
	return &Environment{Env: primary, shadows: shadows}
}

// Shadows returns the shadow environments in configured order.
func (e *Environment) Shadows() []environment.Env {
	return e.shadows
}

// FindDocs runs the primary discovery, then each shadow's, adding every
// shadow's documents to the primary's live set. A docname present in several
// roots appears once.
func (e *Environment) FindDocs(ctx context.Context) error {
	if err := e.Env.FindDocs(ctx); err != nil {
		return err
	}
	found := e.Env.FoundDocs()
	for _, shadow := range e.shadows {
		if err := shadow.FindDocs(ctx); err != nil {
			return err
		}
		found.Union(shadow.FoundDocs())
		e.metrics.shadowDocs(shadow.SrcDir(), len(shadow.FoundDocs()))
	}
	return nil
}

// DocToPath returns the primary's path when that file exists. Otherwise the
// first shadow with an existing file wins, and its path is rewritten to be
// rooted under the primary source root (primary/<relative path to the
// file>) while still naming the shadow's file. With no match anywhere the
// primary's path is returned unchanged.
func (e *Environment) DocToPath(docname string, opts ...environment.PathOption) string {
	primaryRoot := e.Env.SrcDir()
	path := e.Env.DocToPath(docname, opts...)
	if environment.Exists(absolute(primaryRoot, path)) {
		return path
	}

	for _, shadow := range e.shadows {
		candidate := shadow.DocToPath(docname, opts...)
		match := absolute(shadow.SrcDir(), candidate)
		if !environment.Exists(match) {
			continue
		}
		e.metrics.fallback(shadow.SrcDir())

		rel, err := filepath.Rel(primaryRoot, match)
		if err != nil {
			return candidate
		}
		if !filepath.IsAbs(candidate) {
			return rel
		}
		// Not joined with filepath.Join: cleaning would drop the primary
		// prefix whenever rel climbs out of it.
		return primaryRoot + string(filepath.Separator) + rel
	}
	return path
}

func absolute(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"fmt"
	"os"

	"github.com/invowk/multisrc/internal/environment"
)

// FindDocs emits builder-inited if needed and rescans the sources through
// the current environment.
func (a *Application) FindDocs(ctx context.Context) (environment.DocSet, error) {
	if err := a.Init(ctx); err != nil {
		return nil, err
	}
	if err := a.env.FindDocs(ctx); err != nil {
		return nil, err
	}
	found := a.env.FoundDocs()
	a.stats.found.Set(float64(len(found)))
	return found, nil
}

// Resolve returns the source file of docname as the current environment
// sees it.
func (a *Application) Resolve(ctx context.Context, docname string) (string, error) {
	if err := a.Init(ctx); err != nil {
		return "", err
	}
	return a.env.DocToPath(docname), nil
}

// ReadSource reads docname and runs the source-read handlers over it.
func (a *Application) ReadSource(ctx context.Context, docname string) (string, error) {
	if err := a.Init(ctx); err != nil {
		return "", err
	}
	source, _, err := a.readSource(ctx, docname)
	return source, err
}

func (a *Application) readSource(ctx context.Context, docname string) (string, os.FileInfo, error) {
	path := a.env.DocToPath(docname)
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("read document %q: %w", docname, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read document %q: %w", docname, err)
	}

	source := string(data)
	for _, h := range a.onSourceRead {
		if err := h(ctx, a, docname, &source); err != nil {
			return "", nil, fmt.Errorf("read document %q: %w", docname, err)
		}
	}
	return source, info, nil
}

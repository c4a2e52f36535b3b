// SPDX-License-Identifier: MPL-2.0

package multisrc

import (
	"errors"
	"fmt"
	"maps"

	"github.com/deicod/gojinja/runtime"
)

// ErrTemplate marks template syntax and evaluation failures.
var ErrTemplate = errors.New("template error")

// TemplateRenderer renders document sources as Jinja templates. Includes and
// imports are looked up in every source root; the page context is fixed at
// construction.
type TemplateRenderer struct {
	roots   []string
	context map[string]any
}

// NewTemplateRenderer returns a renderer searching roots in order, with a
// snapshot of context as the template namespace.
func NewTemplateRenderer(roots []string, context map[string]any) *TemplateRenderer {
	snapshot := maps.Clone(context)
	if snapshot == nil {
		snapshot = map[string]any{}
	}
	return &TemplateRenderer{roots: append([]string(nil), roots...), context: snapshot}
}

// Render renders source with a new template environment. Undefined names
// render as empty text; syntax and runtime errors wrap ErrTemplate.
func (r *TemplateRenderer) Render(name, source string) (string, error) {
	env := runtime.NewEnvironment()
	env.SetLoader(runtime.NewFileSystemLoader(r.roots...))
	env.SetAutoescape(false)

	tmpl, err := env.NewTemplateWithName(source, name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	out, err := tmpl.ExecuteToString(maps.Clone(r.context))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return out, nil
}

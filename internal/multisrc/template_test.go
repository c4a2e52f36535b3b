// SPDX-License-Identifier: MPL-2.0

package multisrc

import (
	"errors"
	"testing"

	"github.com/invowk/multisrc/internal/testutil"
)

func TestTemplateRenderer(t *testing.T) {
	t.Parallel()

	first, second := t.TempDir(), t.TempDir()
	testutil.WriteTree(t, first, map[string]string{"a.txt": "A1"})
	testutil.WriteTree(t, second, map[string]string{"a.txt": "A2", "b.txt": "B2"})

	ctx := map[string]any{"name": "World"}
	r := NewTemplateRenderer([]string{first, second}, ctx)
	ctx["name"] = "changed later"

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "variable", source: "Hello {{ name }}", want: "Hello World"},
		{name: "undefined", source: "[{{ nope }}]", want: "[]"},
		{name: "first root wins", source: `{% include "a.txt" %}`, want: "A1"},
		{name: "later root", source: `{% include "b.txt" %}`, want: "B2"},
		{name: "no escaping", source: "{{ '<b>' }}", want: "<b>"},
		{name: "plain markdown", source: "# Title\n\n*text*", want: "# Title\n\n*text*"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.Render("doc", tt.source)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := r.Render("doc", "{% for %}"); !errors.Is(err, ErrTemplate) {
		t.Errorf("Render() syntax error = %v, want ErrTemplate", err)
	}
}

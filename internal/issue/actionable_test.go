// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{
			name: "operation only",
			err:  &ActionableError{Operation: "load configuration"},
			want: "failed to load configuration",
		},
		{
			name: "with resource",
			err:  &ActionableError{Operation: "read document", Resource: "intro"},
			want: "failed to read document: intro",
		},
		{
			name: "with resource and cause",
			err: &ActionableError{
				Operation: "render template",
				Resource:  "guide/setup",
				Cause:     errors.New("unexpected end of template"),
			},
			want: "failed to render template: guide/setup: unexpected end of template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("no such file")
	err := NewErrorContext().WithOperation("read document").Wrap(sentinel).BuildError()

	if !errors.Is(err, sentinel) {
		t.Fatalf("errors.Is(%v, sentinel) = false", err)
	}
	var ae *ActionableError
	if !errors.As(err, &ae) {
		t.Fatal("errors.As did not find *ActionableError")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("permission denied")
	err := &ActionableError{
		Operation:   "write doctree",
		Resource:    "_build/doctrees/index.doctree",
		Suggestions: []string{"Check write access to the build directory", "Run 'multisrc build' again"},
		Cause:       fmt.Errorf("open: %w", root),
	}

	plain := err.Format(false)
	if !strings.Contains(plain, "  • Check write access to the build directory") {
		t.Errorf("Format(false) missing suggestion:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain:") {
		t.Errorf("Format(false) should not print the chain:\n%s", plain)
	}

	verbose := err.Format(true)
	for _, want := range []string{"Error chain:", "1. open: permission denied", "2. permission denied"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("Format(true) missing %q:\n%s", want, verbose)
		}
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	t.Parallel()

	if ae := NewErrorContext().WithResource("x").Build(); ae != nil {
		t.Errorf("Build() = %v, want nil", ae)
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want nil", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if err := WrapWithContext(nil, "op", "res"); err != nil {
		t.Errorf("WrapWithContext(nil) = %v, want nil", err)
	}

	cause := errors.New("boom")
	err := WrapWithContext(cause, "publish site", "s3://docs")
	if got, want := err.Error(), "failed to publish site: s3://docs: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

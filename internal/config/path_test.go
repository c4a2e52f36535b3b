// SPDX-License-Identifier: MPL-2.0

package config

import (
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("DOCS_ROOT", "/srv/docs")
	base := t.TempDir()

	tests := []struct {
		in   string
		want string
	}{
		{in: "docs", want: filepath.Join(base, "docs")},
		{in: "../shared", want: filepath.Join(filepath.Dir(base), "shared")},
		{in: ".", want: base},
		{in: "$DOCS_ROOT/extra", want: "/srv/docs/extra"},
		{in: "${DOCS_ROOT}", want: "/srv/docs"},
		{in: "~/notes", want: filepath.Join(home, "notes")},
		{in: "/abs/path", want: "/abs/path"},
	}

	for _, tt := range tests {
		got, err := ExpandPath(tt.in, base)
		if err != nil {
			t.Errorf("ExpandPath(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConfigPaths(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	cfg := DefaultConfig()
	cfg.BaseDir = base
	cfg.SourceDir = "docs"
	cfg.BuildDir = "out"

	src, err := cfg.SourcePath()
	if err != nil || src != filepath.Join(base, "docs") {
		t.Errorf("SourcePath() = %q, %v", src, err)
	}
	dt, err := cfg.DoctreeDir()
	if err != nil || dt != filepath.Join(base, "out", "doctrees") {
		t.Errorf("DoctreeDir() = %q, %v", dt, err)
	}
	out, err := cfg.OutDir()
	if err != nil || out != filepath.Join(base, "out", "html") {
		t.Errorf("OutDir() = %q, %v", out, err)
	}
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/syntax"
)

// ExpandPath expands a leading tilde and $VAR references in p the way a
// shell would, then makes the result absolute relative to baseDir.
func ExpandPath(p, baseDir string) (string, error) {
	word, err := syntax.NewParser().Document(strings.NewReader(p))
	if err != nil {
		return "", fmt.Errorf("parse path %q: %w", p, err)
	}
	expanded, err := expand.Literal(&expand.Config{Env: expand.ListEnviron(os.Environ()...)}, word)
	if err != nil {
		return "", fmt.Errorf("expand path %q: %w", p, err)
	}
	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(baseDir, expanded)
	}
	return filepath.Abs(expanded)
}

// ResolvePath expands p relative to the configuration directory.
func (c *Config) ResolvePath(p string) (string, error) {
	return ExpandPath(p, c.BaseDir)
}

// SourcePath is the absolute primary source root.
func (c *Config) SourcePath() (string, error) {
	return c.ResolvePath(c.SourceDir)
}

// DoctreeDir is where parsed documents and the environment state are cached.
func (c *Config) DoctreeDir() (string, error) {
	build, err := c.ResolvePath(c.BuildDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(build, "doctrees"), nil
}

// OutDir is where HTML pages are written.
func (c *Config) OutDir() (string, error) {
	build, err := c.ResolvePath(c.BuildDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(build, "html"), nil
}

// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"

	"github.com/spf13/cast"
)

const (
	// RebuildEnv marks values whose change invalidates the cached environment.
	RebuildEnv Rebuild = "env"
	// RebuildHTML marks values that only affect written pages.
	RebuildHTML Rebuild = "html"
	// RebuildNone marks values with no effect on build output.
	RebuildNone Rebuild = ""
)

// ErrDuplicateValue is returned when a value name is declared twice.
var ErrDuplicateValue = errors.New("configuration value already declared")

type (
	// Rebuild is the part of a build invalidated by a value change.
	Rebuild string

	// Value is a declared configuration value.
	Value struct {
		Name    string
		Default any
		Rebuild Rebuild
	}
)

// html_context feeds the template pre-pass that runs while sources are read,
// so it invalidates the environment rather than just the pages.
var coreValues = []Value{
	{Name: "project", Default: "Documentation", Rebuild: RebuildHTML},
	{Name: "source_dir", Default: ".", Rebuild: RebuildEnv},
	{Name: "build_dir", Default: "_build", Rebuild: RebuildEnv},
	{Name: "master_doc", Default: "index", Rebuild: RebuildEnv},
	{Name: "source_suffix", Default: []string{".md"}, Rebuild: RebuildEnv},
	{Name: "exclude_patterns", Default: []string{"_build/**"}, Rebuild: RebuildEnv},
	{Name: "html_context", Default: map[string]any{}, Rebuild: RebuildEnv},
	{Name: "log_level", Default: "info", Rebuild: RebuildNone},
}

// core returns the typed core values keyed by name.
func (c *Config) core() map[string]any {
	return map[string]any{
		"project":          c.Project,
		"source_dir":       c.SourceDir,
		"build_dir":        c.BuildDir,
		"master_doc":       c.MasterDoc,
		"source_suffix":    c.SourceSuffix,
		"exclude_patterns": c.ExcludePatterns,
		"html_context":     c.HTMLContext,
		"log_level":        c.LogLevel,
	}
}

func (c *Config) ensure() {
	if c.v == nil {
		c.attach(newViper(c))
	}
}

// AddValue declares an extension value with its default and rebuild scope.
// A value present in the loaded file keeps the file's setting.
func (c *Config) AddValue(name string, def any, rebuild Rebuild) error {
	c.ensure()
	if _, ok := c.values[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateValue)
	}
	c.values[name] = Value{Name: name, Default: def, Rebuild: rebuild}
	c.order = append(c.order, name)
	c.v.SetDefault(name, def)
	return nil
}

// Declared returns every declared value in declaration order.
func (c *Config) Declared() []Value {
	c.ensure()
	out := make([]Value, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.values[name])
	}
	return out
}

// Get returns the effective value of name. Core values come from the typed
// fields; everything else from the file, the environment or the default.
func (c *Config) Get(name string) (any, bool) {
	c.ensure()
	if val, ok := c.core()[name]; ok {
		return val, true
	}
	if _, declared := c.values[name]; !declared && !c.v.IsSet(name) {
		return nil, false
	}
	return c.v.Get(name), true
}

// Set overrides an extension value.
func (c *Config) Set(name string, value any) {
	c.ensure()
	c.v.Set(name, value)
}

// StringSlice returns name as a list of strings.
func (c *Config) StringSlice(name string) []string {
	val, ok := c.Get(name)
	if !ok {
		return nil
	}
	return cast.ToStringSlice(val)
}

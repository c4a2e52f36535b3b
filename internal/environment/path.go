// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"os"
	"path/filepath"
)

type (
	// PathOption adjusts DocToPath.
	PathOption func(*pathOptions)

	pathOptions struct {
		base   bool
		suffix string
	}
)

// WithBase selects an absolute path (true, the default) or one relative to
// the source root.
func WithBase(base bool) PathOption {
	return func(o *pathOptions) { o.base = base }
}

// WithSuffix forces the file suffix instead of probing the configured ones.
func WithSuffix(suffix string) PathOption {
	return func(o *pathOptions) { o.suffix = suffix }
}

// DocToPath returns the source file of docname under this root. Without
// WithSuffix the first configured suffix with an existing file is used,
// falling back to the first configured suffix.
func (e *BuildEnvironment) DocToPath(docname string, opts ...PathOption) string {
	o := pathOptions{base: true}
	for _, opt := range opts {
		opt(&o)
	}

	suffix := o.suffix
	if suffix == "" {
		suffix = e.suffixFor(docname)
	}
	rel := filepath.FromSlash(docname) + suffix
	if !o.base {
		return rel
	}
	return filepath.Join(e.srcdir, rel)
}

func (e *BuildEnvironment) suffixFor(docname string) string {
	stem := filepath.Join(e.srcdir, filepath.FromSlash(docname))
	for _, suffix := range e.suffixes {
		if Exists(stem + suffix) {
			return suffix
		}
	}
	return e.suffixes[0]
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

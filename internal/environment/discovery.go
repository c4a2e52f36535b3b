// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// FindDocs walks the source root and replaces the found set with every
// file carrying a configured suffix. Dot-directories and paths matching
// exclude_patterns are skipped. A missing root yields an empty set.
func (e *BuildEnvironment) FindDocs(ctx context.Context) error {
	found := make(DocSet)
	err := filepath.WalkDir(e.srcdir, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == e.srcdir && errors.Is(walkErr, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return walkErr
		}
		if path == e.srcdir {
			return nil
		}

		rel, err := filepath.Rel(e.srcdir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || e.excluded(rel) {
				return fs.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") || e.excluded(rel) {
			return nil
		}
		if docname, ok := e.docname(rel); ok {
			found.Add(docname)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("find documents in %s: %w", e.srcdir, err)
	}

	clear(e.found)
	e.found.Union(found)
	e.logger.Debug("found documents", "count", len(e.found))
	return nil
}

func (e *BuildEnvironment) excluded(rel string) bool {
	for _, pattern := range e.excludes {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// docname strips the first matching source suffix from a slash path.
func (e *BuildEnvironment) docname(rel string) (string, bool) {
	for _, suffix := range e.suffixes {
		if len(rel) > len(suffix) && strings.HasSuffix(rel, suffix) {
			return strings.TrimSuffix(rel, suffix), true
		}
	}
	return "", false
}

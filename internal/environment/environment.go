// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/invowk/multisrc/internal/config"
	"github.com/invowk/multisrc/internal/registry"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
)

var (
	// ErrNoSourceSuffix is returned when source_suffix is empty.
	ErrNoSourceSuffix = errors.New("source_suffix must name at least one suffix")
	// ErrBadExcludePattern is returned for an invalid exclude_patterns entry.
	ErrBadExcludePattern = errors.New("invalid exclude pattern")
)

type (
	// Host is what an environment needs from the application owning it.
	Host interface {
		Config() *config.Config
		Registry() *registry.Registry
		DoctreeDir() string
		Logger() *log.Logger
	}

	// Env is the build environment contract the host works against.
	Env interface {
		SrcDir() string
		DoctreeDir() string
		Version() map[string]int
		Domains() map[string]registry.Domain

		// FindDocs rescans the source root and replaces the found set.
		FindDocs(ctx context.Context) error
		// FoundDocs returns the live set filled by FindDocs.
		FoundDocs() DocSet
		// DocToPath maps a docname to its source file. It never fails; the
		// returned path need not exist.
		DocToPath(docname string, opts ...PathOption) string

		ConfigStatus() ConfigStatus
		ReadTime(docname string) (time.Time, bool)
		NoteRead(docname string, mtime time.Time)
		Forget(docname string)
		ReadDocs() DocSet
		Save() error
	}

	// BuildEnvironment is the Env of one source root.
	BuildEnvironment struct {
		host       Host
		srcdir     string
		doctreeDir string
		version    map[string]int
		domains    map[string]registry.Domain
		logger     *log.Logger

		suffixes    []string
		excludes    []string
		fingerprint string
		status      ConfigStatus

		found     DocSet
		readTimes map[string]time.Time
	}
)

// New bootstraps an environment over srcdir: it takes the doctree directory
// and version stamp from host, instantiates fresh domains, and syncs the
// environment with the host configuration. A malformed configuration fails
// construction.
func New(host Host, srcdir string) (*BuildEnvironment, error) {
	abs, err := filepath.Abs(srcdir)
	if err != nil {
		return nil, fmt.Errorf("resolve source root %q: %w", srcdir, err)
	}

	e := &BuildEnvironment{
		host:       host,
		srcdir:     abs,
		doctreeDir: host.DoctreeDir(),
		version:    host.Registry().EnvVersion(),
		domains:    make(map[string]registry.Domain),
		logger:     host.Logger().With("srcdir", abs),
		found:      make(DocSet),
		readTimes:  make(map[string]time.Time),
	}
	for _, d := range host.Registry().CreateDomains() {
		e.domains[d.Name()] = d
	}

	cfg := host.Config()
	if err := e.updateConfig(cfg); err != nil {
		return nil, err
	}
	if err := e.updateSettings(cfg); err != nil {
		return nil, err
	}
	return e, nil
}

// updateConfig records the env-scoped fingerprint of cfg.
func (e *BuildEnvironment) updateConfig(cfg *config.Config) error {
	fp, err := cfg.Fingerprint(config.RebuildEnv)
	if err != nil {
		return fmt.Errorf("fingerprint configuration: %w", err)
	}
	e.fingerprint = fp
	e.status = ConfigNew
	return nil
}

// updateSettings copies and validates the discovery settings of cfg.
func (e *BuildEnvironment) updateSettings(cfg *config.Config) error {
	if len(cfg.SourceSuffix) == 0 {
		return ErrNoSourceSuffix
	}
	for _, pattern := range cfg.ExcludePatterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %q", ErrBadExcludePattern, pattern)
		}
	}
	e.suffixes = append([]string(nil), cfg.SourceSuffix...)
	e.excludes = append([]string(nil), cfg.ExcludePatterns...)
	return nil
}

func (e *BuildEnvironment) SrcDir() string                      { return e.srcdir }
func (e *BuildEnvironment) DoctreeDir() string                  { return e.doctreeDir }
func (e *BuildEnvironment) Version() map[string]int             { return e.version }
func (e *BuildEnvironment) Domains() map[string]registry.Domain { return e.domains }
func (e *BuildEnvironment) FoundDocs() DocSet                   { return e.found }
func (e *BuildEnvironment) ConfigStatus() ConfigStatus          { return e.status }

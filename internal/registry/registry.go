// SPDX-License-Identifier: MPL-2.0

// Package registry keeps the components a build is assembled from: domain
// factories and the metadata of set-up extensions.
package registry

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/invowk/multisrc/internal/doctree"
)

// HostEnvVersion is the version of the environment layout written by the
// host. Bumping it invalidates every cached environment.
const HostEnvVersion = 1

var (
	// ErrDuplicateDomain is returned when a domain name is registered twice.
	ErrDuplicateDomain = errors.New("domain already registered")
	// ErrDuplicateExtension is returned when an extension is set up twice.
	ErrDuplicateExtension = errors.New("extension already set up")
)

type (
	// Domain collects cross-document data from parsed documents.
	Domain interface {
		Name() string
		// DataVersion is part of the environment version stamp.
		DataVersion() int
		// ClearDoc forgets everything recorded for docname.
		ClearDoc(docname string)
		// ProcessDoc records the data of one parsed document.
		ProcessDoc(tree *doctree.Doctree)
	}

	// DomainFactory creates a fresh, empty domain.
	DomainFactory func() Domain

	// ExtensionMetadata describes a set-up extension.
	ExtensionMetadata struct {
		Name    string
		Version string
		// EnvVersion is part of the environment version stamp; zero means the
		// extension stores nothing in the environment.
		EnvVersion int
	}

	// Registry holds registered domains and extensions.
	Registry struct {
		domains    map[string]DomainFactory
		extensions map[string]ExtensionMetadata
	}
)

// New returns an empty registry.
func New() *Registry {
	return &Registry{
		domains:    make(map[string]DomainFactory),
		extensions: make(map[string]ExtensionMetadata),
	}
}

// AddDomain registers a domain factory under name.
func (r *Registry) AddDomain(name string, factory DomainFactory) error {
	if _, ok := r.domains[name]; ok {
		return fmt.Errorf("%q: %w", name, ErrDuplicateDomain)
	}
	r.domains[name] = factory
	return nil
}

// CreateDomains instantiates every registered domain, in name order. Each
// call returns new instances.
func (r *Registry) CreateDomains() []Domain {
	names := slices.Sorted(maps.Keys(r.domains))
	out := make([]Domain, 0, len(names))
	for _, name := range names {
		out = append(out, r.domains[name]())
	}
	return out
}

// AddExtension records the metadata of a set-up extension.
func (r *Registry) AddExtension(meta ExtensionMetadata) error {
	if _, ok := r.extensions[meta.Name]; ok {
		return fmt.Errorf("%q: %w", meta.Name, ErrDuplicateExtension)
	}
	r.extensions[meta.Name] = meta
	return nil
}

// Extensions returns the metadata of every set-up extension, by name.
func (r *Registry) Extensions() []ExtensionMetadata {
	names := slices.Sorted(maps.Keys(r.extensions))
	out := make([]ExtensionMetadata, 0, len(names))
	for _, name := range names {
		out = append(out, r.extensions[name])
	}
	return out
}

// EnvVersion is the version stamp stored with a pickled environment: the
// host layout version plus the data version of every domain and extension.
// A cached environment whose stamp differs cannot be reused.
func (r *Registry) EnvVersion() map[string]int {
	stamp := map[string]int{"multisrc": HostEnvVersion}
	for _, d := range r.CreateDomains() {
		stamp["domain:"+d.Name()] = d.DataVersion()
	}
	for name, meta := range r.extensions {
		if meta.EnvVersion != 0 {
			stamp["extension:"+name] = meta.EnvVersion
		}
	}
	return stamp
}

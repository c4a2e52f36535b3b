// SPDX-License-Identifier: MPL-2.0

// Package domains provides the built-in domains: std records titles and
// section anchors, tags indexes documents by their front-matter tags.
package domains

import (
	"errors"
	"maps"
	"slices"

	"github.com/invowk/multisrc/internal/doctree"
	"github.com/invowk/multisrc/internal/registry"
)

const (
	// StdName is the name of the standard domain.
	StdName = "std"
	// TagsName is the name of the tags domain.
	TagsName = "tags"
)

type (
	// Std records the title and the headings of every document.
	Std struct {
		titles   map[string]string
		headings map[string][]doctree.Heading
	}

	// Tags maps each tag to the documents carrying it.
	Tags struct {
		docs map[string]map[string]struct{}
	}
)

// RegisterBuiltins adds the built-in domains to r.
func RegisterBuiltins(r *registry.Registry) error {
	return errors.Join(
		r.AddDomain(StdName, func() registry.Domain { return NewStd() }),
		r.AddDomain(TagsName, func() registry.Domain { return NewTags() }),
	)
}

// NewStd returns an empty standard domain.
func NewStd() *Std {
	return &Std{titles: map[string]string{}, headings: map[string][]doctree.Heading{}}
}

func (s *Std) Name() string     { return StdName }
func (s *Std) DataVersion() int { return 1 }

func (s *Std) ClearDoc(docname string) {
	delete(s.titles, docname)
	delete(s.headings, docname)
}

func (s *Std) ProcessDoc(tree *doctree.Doctree) {
	s.titles[tree.Docname] = tree.Title
	s.headings[tree.Docname] = slices.Clone(tree.Headings)
}

// Title returns the recorded title of docname.
func (s *Std) Title(docname string) (string, bool) {
	title, ok := s.titles[docname]
	return title, ok
}

// Headings returns the section headings of docname in document order.
func (s *Std) Headings(docname string) []doctree.Heading {
	return s.headings[docname]
}

// Docnames returns every document known to the domain, sorted.
func (s *Std) Docnames() []string {
	return slices.Sorted(maps.Keys(s.titles))
}

// NewTags returns an empty tags domain.
func NewTags() *Tags {
	return &Tags{docs: map[string]map[string]struct{}{}}
}

func (t *Tags) Name() string     { return TagsName }
func (t *Tags) DataVersion() int { return 1 }

func (t *Tags) ClearDoc(docname string) {
	for tag, docs := range t.docs {
		delete(docs, docname)
		if len(docs) == 0 {
			delete(t.docs, tag)
		}
	}
}

func (t *Tags) ProcessDoc(tree *doctree.Doctree) {
	for _, tag := range tree.Tags {
		if t.docs[tag] == nil {
			t.docs[tag] = map[string]struct{}{}
		}
		t.docs[tag][tree.Docname] = struct{}{}
	}
}

// All returns every tag, sorted.
func (t *Tags) All() []string {
	return slices.Sorted(maps.Keys(t.docs))
}

// Docs returns the documents tagged with tag, sorted.
func (t *Tags) Docs(tag string) []string {
	return slices.Sorted(maps.Keys(t.docs[tag]))
}

// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"slices"

	"golang.org/x/exp/maps"
)

// DocSet is a set of docnames.
type DocSet map[string]struct{}

// NewDocSet returns a set holding names.
func NewDocSet(names ...string) DocSet {
	s := make(DocSet, len(names))
	for _, name := range names {
		s.Add(name)
	}
	return s
}

func (s DocSet) Add(name string)    { s[name] = struct{}{} }
func (s DocSet) Remove(name string) { delete(s, name) }

func (s DocSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Union adds every element of other to s in place.
func (s DocSet) Union(other DocSet) {
	maps.Copy(s, other)
}

// Difference returns the elements of s missing from other.
func (s DocSet) Difference(other DocSet) DocSet {
	out := make(DocSet)
	for name := range s {
		if !other.Has(name) {
			out.Add(name)
		}
	}
	return out
}

// Sorted returns the elements in lexical order.
func (s DocSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (s DocSet) Clone() DocSet {
	if s == nil {
		return DocSet{}
	}
	return maps.Clone(s)
}

func (s DocSet) Equal(other DocSet) bool {
	return maps.Equal(s, other)
}

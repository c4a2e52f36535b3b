// SPDX-License-Identifier: MPL-2.0

package environment

import (
	"slices"
	"testing"
)

func TestDocSet(t *testing.T) {
	t.Parallel()

	a := NewDocSet("index", "guide/intro")
	b := NewDocSet("guide/intro", "extra/page")

	diff := a.Difference(b)
	if got := diff.Sorted(); !slices.Equal(got, []string{"index"}) {
		t.Errorf("Difference() = %v", got)
	}

	clone := a.Clone()
	a.Union(b)
	if got := a.Sorted(); !slices.Equal(got, []string{"extra/page", "guide/intro", "index"}) {
		t.Errorf("Union() = %v", got)
	}
	if clone.Has("extra/page") {
		t.Error("Clone() shares storage with the original")
	}
	if clone.Equal(a) || !clone.Equal(NewDocSet("guide/intro", "index")) {
		t.Error("Equal() mismatch")
	}

	a.Remove("index")
	if a.Has("index") {
		t.Error("Remove() left the element")
	}
	if DocSet(nil).Clone() == nil {
		t.Error("Clone() of nil should be an empty set")
	}
}

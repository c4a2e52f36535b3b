// SPDX-License-Identifier: MPL-2.0

package doctree

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"
)

func TestWriteRead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tree := &Doctree{
		Docname: "guide/intro",
		Title:   "Introduction",
		Meta: map[string]any{
			"author": "docs team",
			"extra":  map[string]any{"draft": true},
		},
		Tags:     []string{"start", "guide"},
		Headings: []Heading{{Level: 1, ID: "introduction", Text: "Introduction"}},
		Body:     "<h1 id=\"introduction\">Introduction</h1>\n",
	}

	if err := Write(dir, tree); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if want := filepath.Join(dir, "guide", "intro.doctree"); Path(dir, "guide/intro") != want {
		t.Errorf("Path() = %q, want %q", Path(dir, "guide/intro"), want)
	}

	got, err := Read(dir, "guide/intro")
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got.Title != tree.Title || got.Body != tree.Body || len(got.Headings) != 1 {
		t.Errorf("Read() = %+v", got)
	}
	extra, ok := got.Meta["extra"].(map[string]any)
	if !ok || extra["draft"] != true {
		t.Errorf("nested meta decoded as %T %v", got.Meta["extra"], got.Meta["extra"])
	}
}

func TestReadMissing(t *testing.T) {
	t.Parallel()

	if _, err := Read(t.TempDir(), "nope"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Read() error = %v, want fs.ErrNotExist", err)
	}
}

func TestRemove(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := Write(dir, &Doctree{Docname: "index"}); err != nil {
		t.Fatal(err)
	}
	if err := Remove(dir, "index"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if err := Remove(dir, "index"); err != nil {
		t.Errorf("second Remove() error: %v", err)
	}
}

func TestUnmarshalGarbage(t *testing.T) {
	t.Parallel()

	if _, err := Unmarshal([]byte("not zstd")); err == nil {
		t.Error("Unmarshal() accepted garbage")
	}
}

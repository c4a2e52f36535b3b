// SPDX-License-Identifier: MPL-2.0

package build

import (
	"slices"
	"strings"
	"testing"
)

func TestSplitFrontMatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		source   string
		wantMeta map[string]any
		wantBody string
		wantErr  bool
	}{
		{name: "none", source: "# Title\n", wantMeta: map[string]any{}, wantBody: "# Title\n"},
		{name: "yaml", source: "---\ntitle: Hi\n---\nbody\n", wantMeta: map[string]any{"title": "Hi"}, wantBody: "body\n"},
		{name: "toml", source: "+++\ntitle = \"Hi\"\n+++\nbody\n", wantMeta: map[string]any{"title": "Hi"}, wantBody: "body\n"},
		{name: "crlf", source: "---\r\ntitle: Hi\r\n---\r\nbody\r\n", wantMeta: map[string]any{"title": "Hi"}, wantBody: "body\n"},
		{name: "empty block", source: "---\n---\nbody", wantMeta: map[string]any{}, wantBody: "body"},
		{name: "block only", source: "---\ntitle: Hi\n---", wantMeta: map[string]any{"title": "Hi"}, wantBody: ""},
		{name: "unterminated", source: "---\ntitle: Hi\n", wantErr: true},
		{name: "bad yaml", source: "---\n: [\n---\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			meta, body, err := splitFrontMatter(tt.source)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if body != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
			if len(meta) != len(tt.wantMeta) || meta["title"] != tt.wantMeta["title"] {
				t.Errorf("meta = %v, want %v", meta, tt.wantMeta)
			}
		})
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	tree, err := parse("guide/intro", "---\ntags: [a, b]\n---\n# Getting **started**\n\ntext\n\n## Install it\n")
	if err != nil {
		t.Fatalf("parse() error: %v", err)
	}
	if tree.Title != "Getting started" {
		t.Errorf("Title = %q", tree.Title)
	}
	if !slices.Equal(tree.Tags, []string{"a", "b"}) {
		t.Errorf("Tags = %v", tree.Tags)
	}
	if len(tree.Headings) != 2 || tree.Headings[1].ID != "install-it" || tree.Headings[1].Level != 2 {
		t.Errorf("Headings = %+v", tree.Headings)
	}
	if !strings.Contains(tree.Body, "<strong>started</strong>") {
		t.Errorf("Body = %q", tree.Body)
	}

	untitled, err := parse("notes", "plain text\n")
	if err != nil {
		t.Fatal(err)
	}
	if untitled.Title != "notes" {
		t.Errorf("untitled Title = %q, want the docname", untitled.Title)
	}
}

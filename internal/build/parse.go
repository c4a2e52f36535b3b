// SPDX-License-Identifier: MPL-2.0

package build

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/invowk/multisrc/internal/doctree"

	"github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// splitFrontMatter separates a leading "---" YAML or "+++" TOML block from
// the Markdown body.
func splitFrontMatter(source string) (map[string]any, string, error) {
	source = strings.ReplaceAll(source, "\r\n", "\n")

	var fence string
	switch {
	case strings.HasPrefix(source, "---\n"):
		fence = "---"
	case strings.HasPrefix(source, "+++\n"):
		fence = "+++"
	default:
		return map[string]any{}, source, nil
	}

	rest := source[len(fence)+1:]
	var block, body string
	if strings.HasPrefix(rest, fence+"\n") || rest == fence {
		block, body = "", strings.TrimPrefix(strings.TrimPrefix(rest, fence), "\n")
	} else {
		end := strings.Index(rest, "\n"+fence+"\n")
		switch {
		case end >= 0:
			block, body = rest[:end], rest[end+len(fence)+2:]
		case strings.HasSuffix(rest, "\n"+fence):
			block, body = strings.TrimSuffix(rest, "\n"+fence), ""
		default:
			return nil, "", fmt.Errorf("unterminated %s front matter", fence)
		}
	}

	meta := map[string]any{}
	var err error
	if fence == "---" {
		err = yaml.Unmarshal([]byte(block), &meta)
	} else {
		err = toml.Unmarshal([]byte(block), &meta)
	}
	if err != nil {
		return nil, "", fmt.Errorf("front matter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}
	return meta, body, nil
}

// parse turns the (already pre-processed) source of docname into a doctree.
// The title comes from the "title" front-matter key, else the first level-1
// heading, else the docname.
func parse(docname, source string) (*doctree.Doctree, error) {
	meta, body, err := splitFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", docname, err)
	}

	src := []byte(body)
	document := markdown.Parser().Parse(text.NewReader(src))

	tree := &doctree.Doctree{Docname: docname, Meta: meta, Tags: stringList(meta["tags"])}
	err = ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		heading, ok := n.(*ast.Heading)
		if !ok || !entering {
			return ast.WalkContinue, nil
		}
		h := doctree.Heading{Level: heading.Level, Text: plainText(heading, src)}
		if id, ok := heading.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				h.ID = string(b)
			}
		}
		tree.Headings = append(tree.Headings, h)
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", docname, err)
	}

	var html bytes.Buffer
	if err := markdown.Renderer().Render(&html, src, document); err != nil {
		return nil, fmt.Errorf("render %q: %w", docname, err)
	}
	tree.Body = html.String()

	if title, ok := meta["title"].(string); ok && title != "" {
		tree.Title = title
	} else {
		for _, h := range tree.Headings {
			if h.Level == 1 {
				tree.Title = h.Text
				break
			}
		}
	}
	if tree.Title == "" {
		tree.Title = docname
	}
	return tree, nil
}

// plainText concatenates the text segments below n.
func plainText(n ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			sb.Write(c.Segment.Value(src))
			if c.SoftLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return sb.String()
}

func stringList(v any) []string {
	switch v := v.(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

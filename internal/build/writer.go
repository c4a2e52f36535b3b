// SPDX-License-Identifier: MPL-2.0

package build

import (
	"fmt"
	"maps"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/invowk/multisrc/internal/doctree"

	"github.com/deicod/gojinja/runtime"
)

const pageLayout = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{ title }} - {{ project }}</title>
</head>
<body>
<header><a href="{{ root }}{{ master_doc }}.html">{{ project }}</a></header>
{% if toc %}<nav>
<ul>
{% for item in toc %}<li class="toc-{{ item["level"] }}"><a href="#{{ item["id"] }}">{{ item["text"] }}</a></li>
{% endfor %}</ul>
</nav>
{% endif %}<main>
{{ body|safe }}
</main>
{% if tags %}<footer>
<ul class="tags">
{% for tag in tags %}<li>{{ tag }}</li>
{% endfor %}</ul>
</footer>
{% endif %}</body>
</html>
`

// pageWriter renders doctrees into HTML files under outdir.
type pageWriter struct {
	outdir  string
	context map[string]any
	tmpl    *runtime.Template
}

func newPageWriter(outdir string, context map[string]any) (*pageWriter, error) {
	env := runtime.NewEnvironment()
	env.SetAutoescape(true)
	env.SetKeepTrailingNewline(true)
	tmpl, err := env.NewTemplateWithName(pageLayout, "page.html")
	if err != nil {
		return nil, fmt.Errorf("compile page layout: %w", err)
	}
	return &pageWriter{outdir: outdir, context: context, tmpl: tmpl}, nil
}

// Path returns the HTML file of docname.
func (w *pageWriter) Path(docname string) string {
	return filepath.Join(w.outdir, filepath.FromSlash(docname)+".html")
}

func (w *pageWriter) Write(tree *doctree.Doctree) error {
	vars := maps.Clone(w.context)
	if vars == nil {
		vars = map[string]any{}
	}
	toc := make([]any, 0, len(tree.Headings))
	for _, h := range tree.Headings {
		toc = append(toc, map[string]any{"level": h.Level, "id": h.ID, "text": h.Text})
	}
	tags := make([]any, 0, len(tree.Tags))
	for _, tag := range tree.Tags {
		tags = append(tags, tag)
	}
	vars["docname"] = tree.Docname
	vars["title"] = tree.Title
	vars["body"] = tree.Body
	vars["toc"] = toc
	vars["tags"] = tags
	vars["root"] = relativeRoot(tree.Docname)

	page, err := w.tmpl.ExecuteToString(vars)
	if err != nil {
		return fmt.Errorf("render page %q: %w", tree.Docname, err)
	}

	target := w.Path(tree.Docname)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(target, []byte(page), 0o644); err != nil {
		return fmt.Errorf("write page %q: %w", tree.Docname, err)
	}
	return nil
}

// Remove deletes the page of docname, if any.
func (w *pageWriter) Remove(docname string) {
	_ = os.Remove(w.Path(docname))
}

// relativeRoot is the link prefix from docname's page back to the output root.
func relativeRoot(docname string) string {
	depth := strings.Count(path.Clean(docname), "/")
	return strings.Repeat("../", depth)
}

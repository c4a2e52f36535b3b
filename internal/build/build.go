// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"fmt"
	"os"

	"github.com/invowk/multisrc/internal/doctree"
	"github.com/invowk/multisrc/internal/environment"
)

// Result summarizes one build.
type Result struct {
	Found   int
	Read    int
	Written int
	Removed int
}

// Build runs an incremental build: documents that are new, changed since
// their last read, or all of them when the configuration or version stamp
// changed, are read and parsed; domains are rebuilt from every doctree and
// every page is written.
func (a *Application) Build(ctx context.Context) (Result, error) {
	var res Result
	found, err := a.FindDocs(ctx)
	if err != nil {
		return res, err
	}
	res.Found = len(found)

	writer, err := newPageWriter(a.outdir, a.pageContext())
	if err != nil {
		return res, err
	}

	for _, docname := range a.env.ReadDocs().Difference(found).Sorted() {
		a.env.Forget(docname)
		if err := doctree.Remove(a.doctreeDir, docname); err != nil {
			return res, err
		}
		writer.Remove(docname)
		a.stats.removed.Inc()
		res.Removed++
	}

	outdated := a.outdated(found)
	a.logger.Info("reading sources", "outdated", len(outdated), "found", len(found), "config", a.env.ConfigStatus())
	for _, docname := range outdated.Sorted() {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := a.readDoc(ctx, docname); err != nil {
			return res, err
		}
		res.Read++
	}

	trees := make([]*doctree.Doctree, 0, len(found))
	for _, docname := range found.Sorted() {
		tree, err := doctree.Read(a.doctreeDir, docname)
		if err != nil {
			return res, err
		}
		trees = append(trees, tree)
	}
	for _, d := range a.env.Domains() {
		for _, tree := range trees {
			d.ClearDoc(tree.Docname)
			d.ProcessDoc(tree)
		}
	}

	for _, tree := range trees {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := writer.Write(tree); err != nil {
			return res, err
		}
		a.stats.written.Inc()
		res.Written++
	}

	if err := a.env.Save(); err != nil {
		return res, err
	}
	a.logger.Info("build finished", "read", res.Read, "written", res.Written, "removed", res.Removed)
	return res, nil
}

// outdated returns the found documents that must be read again.
func (a *Application) outdated(found environment.DocSet) environment.DocSet {
	if a.env.ConfigStatus().Outdated() {
		return found.Clone()
	}
	out := make(environment.DocSet)
	for docname := range found {
		last, ok := a.env.ReadTime(docname)
		if !ok {
			out.Add(docname)
			continue
		}
		info, err := os.Stat(a.env.DocToPath(docname))
		if err != nil || !info.ModTime().Equal(last) || !environment.Exists(doctree.Path(a.doctreeDir, docname)) {
			out.Add(docname)
		}
	}
	return out
}

func (a *Application) readDoc(ctx context.Context, docname string) error {
	source, info, err := a.readSource(ctx, docname)
	if err != nil {
		return err
	}
	tree, err := parse(docname, source)
	if err != nil {
		return err
	}
	if err := doctree.Write(a.doctreeDir, tree); err != nil {
		return err
	}
	a.env.NoteRead(docname, info.ModTime())
	a.stats.read.Inc()
	a.logger.Debug("read document", "docname", docname)
	return nil
}

// pageContext is the namespace shared by every page: html_context plus the
// project settings.
func (a *Application) pageContext() map[string]any {
	ctx := make(map[string]any, len(a.cfg.HTMLContext)+2)
	for k, v := range a.cfg.HTMLContext {
		ctx[k] = v
	}
	ctx["project"] = a.cfg.Project
	ctx["master_doc"] = a.cfg.MasterDoc
	return ctx
}

// String summarizes the counts on one line.
func (r Result) String() string {
	return fmt.Sprintf("%d found, %d read, %d written, %d removed", r.Found, r.Read, r.Written, r.Removed)
}

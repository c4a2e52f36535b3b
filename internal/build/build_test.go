// SPDX-License-Identifier: MPL-2.0

package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/invowk/multisrc/internal/config"
	"github.com/invowk/multisrc/internal/domains"
	"github.com/invowk/multisrc/internal/environment"
	"github.com/invowk/multisrc/internal/registry"
	"github.com/invowk/multisrc/internal/testutil"
)

func newApp(t *testing.T, root string, exts ...SetupFunc) *Application {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.BaseDir = root
	cfg.Project = "Handbook"
	app, err := New(Options{Config: cfg, Extensions: exts})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return app
}

func TestNew_MissingSourceRoot(t *testing.T) {
	t.Parallel()

	cfg := config.DefaultConfig()
	cfg.BaseDir = t.TempDir()
	cfg.SourceDir = "absent"
	if _, err := New(Options{Config: cfg}); !errors.Is(err, ErrSourceRootMissing) {
		t.Errorf("New() error = %v, want ErrSourceRootMissing", err)
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"index.md":       "---\ntags: [start]\n---\n# Welcome\n\nSee the *guide*.\n\n## Next steps\n",
		"guide/setup.md": "+++\ntitle = \"Setup Guide\"\n+++\nBody without a heading.\n",
	})

	app := newApp(t, root)
	res, err := app.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if res.Found != 2 || res.Read != 2 || res.Written != 2 {
		t.Errorf("Build() = %v", res)
	}

	page := testutil.MustReadFile(t, filepath.Join(app.OutDir(), "index.html"))
	for _, want := range []string{
		"<title>Welcome - Handbook</title>",
		`<a href="#next-steps">Next steps</a>`,
		"<em>guide</em>",
		"<li>start</li>",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("index.html missing %q:\n%s", want, page)
		}
	}

	setup := testutil.MustReadFile(t, filepath.Join(app.OutDir(), "guide", "setup.html"))
	if !strings.Contains(setup, "<title>Setup Guide - Handbook</title>") || !strings.Contains(setup, `href="../index.html"`) {
		t.Errorf("guide/setup.html:\n%s", setup)
	}

	std := app.Env().Domains()[domains.StdName].(*domains.Std)
	if title, _ := std.Title("guide/setup"); title != "Setup Guide" {
		t.Errorf("std title = %q", title)
	}
	tags := app.Env().Domains()[domains.TagsName].(*domains.Tags)
	if docs := tags.Docs("start"); len(docs) != 1 || docs[0] != "index" {
		t.Errorf("tags.Docs(start) = %v", docs)
	}
}

func TestBuild_Incremental(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{
		"index.md": "# Home\n",
		"about.md": "# About\n",
		"gone.md":  "# Gone\n",
	})
	if _, err := newApp(t, root).Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	res, err := newApp(t, root).Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Read != 0 || res.Written != 3 {
		t.Errorf("unchanged rebuild = %v, want nothing read", res)
	}

	testutil.WriteTree(t, root, map[string]string{"about.md": "# About us\n"})
	testutil.Touch(t, filepath.Join(root, "about.md"), time.Now().Add(time.Hour))
	if err := os.Remove(filepath.Join(root, "gone.md")); err != nil {
		t.Fatal(err)
	}

	app := newApp(t, root)
	res, err = app.Build(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Read != 1 || res.Removed != 1 || res.Found != 2 {
		t.Errorf("incremental rebuild = %v, want 1 read and 1 removed", res)
	}
	if _, err := os.Stat(filepath.Join(app.OutDir(), "gone.html")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("page of a removed document still exists: %v", err)
	}

	changed := config.DefaultConfig()
	changed.BaseDir = root
	changed.Project = "Handbook"
	changed.MasterDoc = "about"
	full, err := New(Options{Config: changed})
	if err != nil {
		t.Fatal(err)
	}
	if res, _ := full.Build(context.Background()); res.Read != 2 {
		t.Errorf("rebuild after an env-scoped change read %d, want 2", res.Read)
	}
}

func TestEvents(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"index.md": "# Hello NAME\n"})

	var inited int
	ext := func(app *Application) (registry.ExtensionMetadata, error) {
		app.OnBuilderInited(func(_ context.Context, app *Application) error {
			inited++
			app.DecorateEnv(func(env environment.Env) environment.Env { return &renamingEnv{Env: env} })
			return nil
		})
		app.OnSourceRead(func(_ context.Context, _ *Application, docname string, source *string) error {
			*source = strings.ReplaceAll(*source, "NAME", "from "+docname)
			return nil
		})
		return registry.ExtensionMetadata{Name: "test", Version: "0.0.1"}, nil
	}

	app := newApp(t, root, ext)
	src, err := app.ReadSource(context.Background(), "index")
	if err != nil {
		t.Fatalf("ReadSource() error: %v", err)
	}
	if src != "# Hello from index\n" {
		t.Errorf("ReadSource() = %q", src)
	}
	if _, err := app.Build(context.Background()); err != nil {
		t.Fatal(err)
	}
	if inited != 1 {
		t.Errorf("builder-inited fired %d times, want 1", inited)
	}
	if _, ok := app.Env().(*renamingEnv); !ok {
		t.Errorf("Env() = %T, want the decorated environment", app.Env())
	}
	if path, _ := app.Resolve(context.Background(), "alias"); path != filepath.Join(root, "index.md") {
		t.Errorf("Resolve(alias) = %q", path)
	}
}

// renamingEnv resolves the docname "alias" to index.
type renamingEnv struct {
	environment.Env
}

func (e *renamingEnv) DocToPath(docname string, opts ...environment.PathOption) string {
	if docname == "alias" {
		docname = "index"
	}
	return e.Env.DocToPath(docname, opts...)
}

func TestSourceReadError(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"index.md": "x"})
	boom := errors.New("boom")
	app := newApp(t, root, func(app *Application) (registry.ExtensionMetadata, error) {
		app.OnSourceRead(func(context.Context, *Application, string, *string) error { return boom })
		return registry.ExtensionMetadata{Name: "failing"}, nil
	})
	if _, err := app.Build(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Build() error = %v, want boom", err)
	}
}

func TestWriteMetrics(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	testutil.WriteTree(t, root, map[string]string{"index.md": "# Home\n"})
	app := newApp(t, root)
	if _, err := app.Build(context.Background()); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "build.prom")
	if err := app.WriteMetrics(path); err != nil {
		t.Fatalf("WriteMetrics() error: %v", err)
	}
	out := testutil.MustReadFile(t, path)
	for _, want := range []string{"multisrc_documents_found 1", "multisrc_documents_read_total 1", "multisrc_documents_written_total 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %q:\n%s", want, out)
		}
	}
}

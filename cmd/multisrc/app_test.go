// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/invowk/multisrc/internal/build"
	"github.com/invowk/multisrc/internal/issue"
	"github.com/invowk/multisrc/internal/multisrc"
	"github.com/invowk/multisrc/internal/publish"
	"github.com/invowk/multisrc/internal/testutil"
)

type recordingS3 struct {
	keys []string
	fail error
}

func (r *recordingS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if r.fail != nil {
		return nil, r.fail
	}
	r.keys = append(r.keys, aws.ToString(in.Key))
	return &s3.PutObjectOutput{}, nil
}

// runCLI executes one command line against a fresh App and returns what it
// printed.
func runCLI(t *testing.T, deps Dependencies, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	var out, errOut bytes.Buffer
	deps.Stdout, deps.Stderr = &out, &errOut
	app, err := NewApp(deps)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	root := NewRootCommand(app)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func newProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	testutil.WriteTree(t, dir, map[string]string{
		"multisrc.cue":         "project: \"Demo\"\nsource_dir: \"docs\"\nmultisrc_paths: [\"docs\", \"extra\"]\n",
		"docs/index.md":        "# Home\n",
		"extra/guide/intro.md": "# Intro\n",
	})
	return filepath.Join(dir, "multisrc.cue")
}

func TestPublish(t *testing.T) {
	t.Parallel()

	cfgPath := newProject(t)
	if _, stderr, err := runCLI(t, Dependencies{}, "--config", cfgPath, "build"); err != nil {
		t.Fatalf("build failed: %v\n%s", err, stderr)
	}

	fake := &recordingS3{}
	var gotCfg publish.ClientConfig
	deps := Dependencies{
		NewS3Client: func(_ context.Context, cfg publish.ClientConfig) (publish.PutObjectAPI, error) {
			gotCfg = cfg
			return fake, nil
		},
	}
	stdout, stderr, err := runCLI(t, deps, "--config", cfgPath, "publish",
		"--bucket", "site", "--prefix", "/v1/", "--region", "eu-west-1",
		"--endpoint", "http://localhost:9000", "--path-style")
	if err != nil {
		t.Fatalf("publish failed: %v\n%s", err, stderr)
	}

	wantCfg := publish.ClientConfig{Region: "eu-west-1", Endpoint: "http://localhost:9000", PathStyle: true}
	if gotCfg != wantCfg {
		t.Errorf("client config = %+v, want %+v", gotCfg, wantCfg)
	}
	for _, key := range []string{"v1/index.html", "v1/guide/intro.html"} {
		if !slices.Contains(fake.keys, key) {
			t.Errorf("uploaded keys %v lack %q", fake.keys, key)
		}
	}
	want := fmt.Sprintf("Published %d files to s3://site/v1/", len(fake.keys))
	if !strings.Contains(stdout, want) {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
}

func TestPublish_UploadFailure(t *testing.T) {
	t.Parallel()

	cfgPath := newProject(t)
	if _, stderr, err := runCLI(t, Dependencies{}, "--config", cfgPath, "build"); err != nil {
		t.Fatalf("build failed: %v\n%s", err, stderr)
	}

	deps := Dependencies{
		NewS3Client: func(context.Context, publish.ClientConfig) (publish.PutObjectAPI, error) {
			return &recordingS3{fail: errors.New("access denied")}, nil
		},
	}
	_, stderr, err := runCLI(t, deps, "--config", cfgPath, "publish", "--bucket", "site")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("publish error = %v, want ExitError code 1", err)
	}
	if !strings.Contains(stderr, "failed to publish site: site") || !strings.Contains(stderr, "access denied") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestDocsAndResolve(t *testing.T) {
	t.Parallel()

	cfgPath := newProject(t)
	stdout, stderr, err := runCLI(t, Dependencies{}, "--config", cfgPath, "docs")
	if err != nil {
		t.Fatalf("docs failed: %v\n%s", err, stderr)
	}
	for _, line := range []string{"index -> docs/index.md", "guide/intro -> extra/guide/intro.md", "2 documents"} {
		if !strings.Contains(stdout, line) {
			t.Errorf("docs output lacks %q:\n%s", line, stdout)
		}
	}

	stdout, _, err = runCLI(t, Dependencies{}, "--config", cfgPath, "resolve", "guide/intro")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	base := filepath.Dir(cfgPath)
	want := filepath.Join(base, "docs") + string(filepath.Separator) + filepath.Join("..", "extra", "guide", "intro.md")
	if got := strings.TrimSpace(stdout); got != want {
		t.Errorf("resolve = %q, want %q", got, want)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	if got := formatErrorForDisplay(plain, false); got != "boom" {
		t.Errorf("plain error = %q", got)
	}

	actionable := issue.NewErrorContext().
		WithOperation("resolve document").
		WithResource("guide/intro").
		WithSuggestion("Run 'multisrc docs'").
		Wrap(plain).
		BuildError()
	got := formatErrorForDisplay(fmt.Errorf("outer: %w", actionable), false)
	if !strings.HasPrefix(got, "failed to resolve document: guide/intro: boom") || !strings.Contains(got, "• Run 'multisrc docs'") {
		t.Errorf("actionable error = %q", got)
	}
	if strings.Contains(got, "Error chain:") {
		t.Error("non-verbose output contains the error chain")
	}
	if got := formatErrorForDisplay(actionable, true); !strings.Contains(got, "Error chain:") {
		t.Errorf("verbose output lacks the error chain: %q", got)
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"source root", fmt.Errorf("%w: /x", build.ErrSourceRootMissing), issue.SourceRootMissingId},
		{"template", fmt.Errorf("read document %q: %w", "a", multisrc.ErrTemplate), issue.TemplateRenderFailedId},
		{"bucket", publish.ErrNoBucket, issue.PublishFailedId},
		{"missing file", fmt.Errorf("read document %q: %w", "a", fs.ErrNotExist), issue.DocumentNotFoundId},
		{"config", issue.WrapWithContext(errors.New("bad"), "load configuration", "multisrc.cue"), issue.ConfigLoadFailedId},
		{"publish", issue.WrapWithContext(errors.New("denied"), "publish site", "b"), issue.PublishFailedId},
		{"unknown", errors.New("other"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError() = %d, want %d", got, tt.want)
			}
		})
	}
}

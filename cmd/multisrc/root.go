// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the command tree bound to app.
func NewRootCommand(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "multisrc",
		Short: "Build one documentation site from several source trees",
		Long: TitleStyle.Render("multisrc") + SubtitleStyle.Render(" - one documentation site, several source trees") + `

multisrc builds Markdown documents into HTML. Besides the primary source_dir,
every extra entry of multisrc_paths in multisrc.cue is searched for documents;
a document in the primary tree always wins over one of the same name elsewhere.
Every document is rendered as a Jinja template before it is parsed, so
{% include %} can pull files from any source root.

` + SubtitleStyle.Render("Examples:") + `
  multisrc init                 Create a starter multisrc.cue
  multisrc docs                 List every discoverable document
  multisrc resolve guide/intro  Show which file backs a document
  multisrc build                Build the HTML site`,
	}
	root.SetOut(app.stdout)
	root.SetErr(app.stderr)

	root.PersistentFlags().StringVarP(&app.flags.configPath, "config", "c", "", "configuration file (default is ./multisrc.cue)")
	root.PersistentFlags().BoolVarP(&app.flags.verbose, "verbose", "v", false, "enable verbose output")

	root.AddCommand(
		newBuildCommand(app),
		newDocsCommand(app),
		newResolveCommand(app),
		newRenderCommand(app),
		newInitCommand(app),
		newConfigCommand(app),
		newPublishCommand(app),
		newCompletionCommand(app),
	)
	return root
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the CLI and returns the process exit code.
func Run() int {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	err = fang.Execute(
		context.Background(),
		NewRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run())
}

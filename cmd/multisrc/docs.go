// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/multisrc/internal/environment"
	"github.com/invowk/multisrc/internal/issue"
)

// newDocsCommand creates the `multisrc docs` command.
func newDocsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "docs",
		Short: "List every discoverable document and its source file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			b, err := app.newBuild(ctx)
			if err != nil {
				return app.fail(cmd, err)
			}
			found, err := b.FindDocs(ctx)
			if err != nil {
				return app.fail(cmd, err)
			}

			base := b.Config().BaseDir
			for _, docname := range found.Sorted() {
				path, err := b.Resolve(ctx, docname)
				if err != nil {
					return app.fail(cmd, err)
				}
				fmt.Fprintf(app.stdout, "%s %s %s\n", CmdStyle.Render(docname), SubtitleStyle.Render("->"), displayPath(base, path))
			}
			fmt.Fprintf(app.stdout, "%s %d documents\n", SuccessStyle.Render("✓"), len(found))
			return nil
		},
	}
}

// newResolveCommand creates the `multisrc resolve` command.
func newResolveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <docname>",
		Short: "Print the source file backing a document",
		Long: `Print the source file backing a document.

A document of the primary source_dir resolves to its own file. Otherwise the
first extra root holding it wins and the path is printed relative to the
primary root, exactly as the build reads it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := app.newBuild(ctx)
			if err != nil {
				return app.fail(cmd, err)
			}
			path, err := b.Resolve(ctx, args[0])
			if err != nil {
				return app.fail(cmd, err)
			}
			fmt.Fprintln(app.stdout, path)

			if !environment.Exists(path) {
				return app.fail(cmd, issue.NewErrorContext().
					WithOperation("resolve document").
					WithResource(args[0]).
					WithSuggestion("Run 'multisrc docs' to list the discoverable documents").
					Wrap(fmt.Errorf("no source root holds %q", args[0])).
					BuildError())
			}
			return nil
		},
	}
}

// displayPath shortens path to a slash path relative to base when possible.
func displayPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

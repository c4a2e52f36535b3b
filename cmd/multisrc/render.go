// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// newRenderCommand creates the `multisrc render` command.
func newRenderCommand(app *App) *cobra.Command {
	var (
		pretty bool
		style  string
	)
	cmd := &cobra.Command{
		Use:   "render <docname>",
		Short: "Print a document after the template pre-pass",
		Long: `Print a document's source after the template pre-pass, as the parser
receives it. With --pretty the Markdown is rendered for the terminal.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			b, err := app.newBuild(ctx)
			if err != nil {
				return app.fail(cmd, err)
			}
			source, err := b.ReadSource(ctx, args[0])
			if err != nil {
				return app.fail(cmd, err)
			}

			if pretty {
				if source, err = glamour.Render(source, style); err != nil {
					return app.fail(cmd, fmt.Errorf("render markdown: %w", err))
				}
			}
			fmt.Fprint(app.stdout, source)
			return nil
		},
	}
	cmd.Flags().BoolVar(&pretty, "pretty", false, "render the Markdown for the terminal")
	cmd.Flags().StringVar(&style, "style", "auto", "glamour style for --pretty (auto, dark, light, notty)")
	return cmd
}

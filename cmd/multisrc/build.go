// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newBuildCommand creates the `multisrc build` command.
func newBuildCommand(app *App) *cobra.Command {
	var metricsFile string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the HTML site",
		Long: `Build the HTML site from every source root.

Only documents whose source changed since the last build are read again;
a configuration change that affects reading rebuilds everything.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runBuild(cmd, metricsFile)
		},
	}
	cmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write build metrics in the Prometheus text format to this file")
	return cmd
}

func (a *App) runBuild(cmd *cobra.Command, metricsFile string) error {
	ctx := cmd.Context()
	b, err := a.newBuild(ctx)
	if err != nil {
		return a.fail(cmd, err)
	}
	res, err := b.Build(ctx)
	if err != nil {
		return a.fail(cmd, err)
	}
	if metricsFile != "" {
		if err := b.WriteMetrics(metricsFile); err != nil {
			return a.fail(cmd, err)
		}
	}

	fmt.Fprintf(a.stdout, "%s Build finished: %s\n", SuccessStyle.Render("✓"), res)
	fmt.Fprintf(a.stdout, "%s %s\n", SubtitleStyle.Render("Output:"), CmdStyle.Render(b.OutDir()))
	return nil
}

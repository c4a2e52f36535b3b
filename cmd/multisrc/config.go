// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/invowk/multisrc/internal/config"
)

// newConfigCommand creates the `multisrc config` command group.
func newConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the project configuration",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration as CUE",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := app.loadConfig(cmd.Context())
				if err != nil {
					return app.fail(cmd, err)
				}
				out, err := config.GenerateCUE(cfg)
				if err != nil {
					return app.fail(cmd, err)
				}
				fmt.Fprint(app.stdout, out)
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file in use",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, err := app.loadConfig(cmd.Context())
				if err != nil {
					return app.fail(cmd, err)
				}
				if cfg.Path == "" {
					fmt.Fprintln(app.stdout, SubtitleStyle.Render("(no "+config.FileName+", using defaults)"))
					return nil
				}
				fmt.Fprintln(app.stdout, cfg.Path)
				return nil
			},
		},
	)
	return cmd
}

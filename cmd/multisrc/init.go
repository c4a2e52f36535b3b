// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/invowk/multisrc/internal/config"
	"github.com/invowk/multisrc/internal/issue"
	"github.com/invowk/multisrc/internal/multisrc"
)

const starterIndex = `# Welcome

This page lives in the primary source directory.
`

// newInitCommand creates the `multisrc init` command.
func newInitCommand(app *App) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a starter multisrc.cue",
		Long: `Create a starter multisrc.cue with every setting at its default, plus an
index page when the master document is missing.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return app.runInit(cmd, dir, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing multisrc.cue")
	return cmd
}

func (a *App) runInit(cmd *cobra.Command, dir string, force bool) error {
	cfg := config.DefaultConfig()
	if err := multisrc.Declare(cfg); err != nil {
		return a.fail(cmd, err)
	}

	path, err := config.CreateDefault(dir, cfg, force)
	if errors.Is(err, config.ErrConfigExists) {
		return a.fail(cmd, issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path).
			WithSuggestion("Pass --force to overwrite it").
			Wrap(err).
			BuildError())
	}
	if err != nil {
		return a.fail(cmd, err)
	}
	fmt.Fprintf(a.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))

	index := filepath.Join(dir, cfg.SourceDir, cfg.MasterDoc+cfg.SourceSuffix[0])
	if _, err := os.Stat(index); err == nil {
		return nil
	}
	if err := os.WriteFile(index, []byte(starterIndex), 0o644); err != nil {
		return a.fail(cmd, fmt.Errorf("write %s: %w", index, err))
	}
	fmt.Fprintf(a.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(index))
	return nil
}

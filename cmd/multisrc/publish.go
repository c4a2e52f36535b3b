// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/invowk/multisrc/internal/issue"
	"github.com/invowk/multisrc/internal/publish"
)

type publishFlags struct {
	bucket    string
	prefix    string
	region    string
	endpoint  string
	pathStyle bool
}

// newPublishCommand creates the `multisrc publish` command.
func newPublishCommand(app *App) *cobra.Command {
	var flags publishFlags
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the built HTML site to an S3 bucket",
		Long: `Upload every file of the HTML output directory to an S3 bucket.

Credentials come from the default AWS chain (AWS_PROFILE, AWS_ACCESS_KEY_ID,
instance roles). --endpoint targets S3-compatible stores such as MinIO.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runPublish(cmd, flags)
		},
	}
	cmd.Flags().StringVar(&flags.bucket, "bucket", "", "destination bucket")
	cmd.Flags().StringVar(&flags.prefix, "prefix", "", "key prefix inside the bucket")
	cmd.Flags().StringVar(&flags.region, "region", "", "AWS region (default from the AWS configuration)")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "custom S3 endpoint URL")
	cmd.Flags().BoolVar(&flags.pathStyle, "path-style", false, "use path-style bucket addressing")
	return cmd
}

func (a *App) runPublish(cmd *cobra.Command, flags publishFlags) error {
	if flags.bucket == "" {
		return a.fail(cmd, publish.ErrNoBucket)
	}
	ctx := cmd.Context()
	cfg, err := a.loadConfig(ctx)
	if err != nil {
		return a.fail(cmd, err)
	}
	outdir, err := cfg.OutDir()
	if err != nil {
		return a.fail(cmd, err)
	}
	if info, statErr := os.Stat(outdir); statErr != nil || !info.IsDir() {
		return a.fail(cmd, issue.NewErrorContext().
			WithOperation("publish site").
			WithResource(outdir).
			WithSuggestion("Run 'multisrc build' first").
			Wrap(fmt.Errorf("output directory not found")).
			BuildError())
	}

	client, err := a.NewS3Client(ctx, publish.ClientConfig{
		Region:    flags.region,
		Endpoint:  flags.endpoint,
		PathStyle: flags.pathStyle,
	})
	if err != nil {
		return a.fail(cmd, err)
	}
	pub, err := publish.New(client, flags.bucket, flags.prefix, a.logger(cfg))
	if err != nil {
		return a.fail(cmd, err)
	}
	sent, err := pub.Publish(ctx, outdir)
	if err != nil {
		return a.fail(cmd, issue.WrapWithContext(err, "publish site", flags.bucket))
	}

	fmt.Fprintf(a.stdout, "%s Published %d files to %s\n", SuccessStyle.Render("✓"), sent, CmdStyle.Render("s3://"+flags.bucket+"/"+pub.Key("")))
	return nil
}
